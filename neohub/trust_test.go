package neohub

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPinnedCertificate(t *testing.T) {
	t.Parallel()

	hexSum := strings.Repeat("ab", 32)
	p, err := PinnedCertificate(hexSum)
	require.NoError(t, err)

	colons := strings.TrimSuffix(strings.Repeat("AB:", 32), ":")
	q, err := PinnedCertificate(colons)
	require.NoError(t, err)
	assert.Equal(t, p, q)

	cfg := p.TLSConfig()
	assert.True(t, cfg.InsecureSkipVerify)
	require.NotNil(t, cfg.VerifyPeerCertificate)
	assert.Error(t, cfg.VerifyPeerCertificate(nil, nil))
	assert.Error(t, cfg.VerifyPeerCertificate([][]byte{[]byte("cert")}, nil))

	_, err = PinnedCertificate("zz")
	assert.ErrorIs(t, err, ErrConfig)
	_, err = PinnedCertificate("abcd")
	assert.ErrorIs(t, err, ErrConfig)
}

func TestTrustPolicies(t *testing.T) {
	t.Parallel()

	assert.True(t, AcceptAnyCertificate.TLSConfig().InsecureSkipVerify)
	assert.False(t, SystemRoots.TLSConfig().InsecureSkipVerify)
	assert.Contains(t, AcceptAnyCertificate.(interface{ String() string }).String(), "insecure")
}
