package neohub

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unsetenv(t *testing.T, keys ...string) {
	for _, key := range keys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestFromEnv(t *testing.T) {
	unsetenv(t, "NEOHUB_TIMEOUT", "NEOHUB_CERT_SHA256")
	t.Setenv("NEOHUB_URL", "wss://192.168.1.20:4243")
	t.Setenv("NEOHUB_TOKEN", "abc123")

	b, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "wss://192.168.1.20:4243", b.url)
	assert.Equal(t, "abc123", b.token)
	assert.Equal(t, DefaultTimeout, b.timeout)
	assert.Equal(t, AcceptAnyCertificate, b.trust)

	t.Setenv("NEOHUB_TIMEOUT", "3s")
	b, err = FromEnv()
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, b.timeout)
}

func TestFromEnvMissing(t *testing.T) {
	unsetenv(t, "NEOHUB_URL", "NEOHUB_TOKEN")

	_, err := FromEnv()
	require.ErrorIs(t, err, ErrConfig)
	assert.ErrorContains(t, err, "NEOHUB_URL")

	t.Setenv("NEOHUB_URL", "wss://192.168.1.20:4243")
	_, err = FromEnv()
	require.ErrorIs(t, err, ErrConfig)
	assert.ErrorContains(t, err, "NEOHUB_TOKEN")
}

func TestFromEnvPinned(t *testing.T) {
	t.Setenv("NEOHUB_URL", "wss://192.168.1.20:4243")
	t.Setenv("NEOHUB_TOKEN", "abc123")

	t.Setenv("NEOHUB_CERT_SHA256", "not hex")
	_, err := FromEnv()
	assert.ErrorIs(t, err, ErrConfig)

	sum := sha256.Sum256([]byte("cert"))
	t.Setenv("NEOHUB_CERT_SHA256", hex.EncodeToString(sum[:]))
	b, err := FromEnv()
	require.NoError(t, err)
	assert.IsType(t, pinned{}, b.trust)
}

func TestConnectValidates(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	_, err := Build("", "abc123").Connect(ctx)
	assert.ErrorIs(t, err, ErrConfig)
	_, err = Build("wss://127.0.0.1:1", "").Connect(ctx)
	assert.ErrorIs(t, err, ErrConfig)
	_, err = Build("wss://127.0.0.1:1", "abc123").Timeout(0).Connect(ctx)
	assert.ErrorIs(t, err, ErrConfig)
}

func TestConnectUnreachable(t *testing.T) {
	t.Parallel()

	_, err := Build("wss://127.0.0.1:1", "abc123").Timeout(time.Second).Connect(context.Background())
	assert.ErrorIs(t, err, ErrTransport)
}

func TestConnectTrust(t *testing.T) {
	t.Parallel()

	hub := newFakeHub(t, func(QueuedCommand) []byte { return reply(testDeviceID, map[string]any{}) })
	ctx := context.Background()

	_, err := Build(hub.URL, "abc123").Trust(SystemRoots).Timeout(time.Second).Connect(ctx)
	assert.ErrorIs(t, err, ErrTransport)

	wrong := sha256.Sum256([]byte("some other certificate"))
	p, err := PinnedCertificate(hex.EncodeToString(wrong[:]))
	require.NoError(t, err)
	_, err = Build(hub.URL, "abc123").Trust(p).Timeout(time.Second).Connect(ctx)
	assert.ErrorIs(t, err, ErrTransport)

	sum := sha256.Sum256(hub.srv.Certificate().Raw)
	p, err = PinnedCertificate(hex.EncodeToString(sum[:]))
	require.NoError(t, err)
	c, err := Build(hub.URL, "abc123").Trust(p).Timeout(time.Second).Connect(ctx)
	require.NoError(t, err)
	_, _, err = c.Exchange(ctx, "FIRMWARE")
	assert.NoError(t, err)
	assert.NoError(t, c.Disconnect(ctx))
}
