package neohub

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIdentity(t *testing.T) {
	t.Parallel()

	id, err := parseIdentity(testDeviceID, `{"firmware version":"2134","HUB_TYPE":2}`)
	require.NoError(t, err)
	require.NotNil(t, id.FirmwareVersion)
	assert.Equal(t, "2134", *id.FirmwareVersion)

	for _, resp := range []string{
		`{}`,
		`{"firmware version":2134}`,
		`{"firmware version":null}`,
		`{"HUB_VERSION":"2134"}`,
		`"2134"`,
		`2134`,
		`[1]`,
		`null`,
	} {
		id, err := parseIdentity(testDeviceID, resp)
		require.NoError(t, err, resp)
		assert.Equal(t, testDeviceID, id.DeviceID, resp)
		assert.Nil(t, id.FirmwareVersion, resp)
	}

	_, err = parseIdentity(testDeviceID, `{"firmware version":`)
	assert.ErrorIs(t, err, ErrPayload)
}
