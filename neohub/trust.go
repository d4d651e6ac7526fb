package neohub

import (
	"bytes"
	"crypto/sha256"
	"crypto/tls"
	"crypto/x509"
	"encoding/hex"
	"fmt"
	"strings"
)

// TrustPolicy decides which server certificates a wss:// connection accepts.
type TrustPolicy interface {
	TLSConfig() *tls.Config
}

var (
	// AcceptAnyCertificate accepts every certificate the server presents.
	// INSECURE: hubs ship self-signed certificates that cannot be verified, so
	// this is the default. It offers no protection against an active attacker
	// on the network.
	AcceptAnyCertificate TrustPolicy = acceptAny{}

	// SystemRoots verifies the server against the host's root CAs.
	SystemRoots TrustPolicy = systemRoots{}
)

type acceptAny struct{}

func (acceptAny) TLSConfig() *tls.Config {
	return &tls.Config{
		InsecureSkipVerify: true,
	}
}

func (acceptAny) String() string { return "accept-any (insecure)" }

type systemRoots struct{}

func (systemRoots) TLSConfig() *tls.Config { return &tls.Config{} }

func (systemRoots) String() string { return "system-roots" }

type pinned struct {
	sum [sha256.Size]byte
}

// PinnedCertificate accepts only a leaf certificate whose SHA-256 fingerprint
// matches. The fingerprint is hex, optionally colon separated.
func PinnedCertificate(fingerprint string) (TrustPolicy, error) {
	b, err := hex.DecodeString(strings.ReplaceAll(strings.TrimSpace(fingerprint), ":", ""))
	if err != nil {
		return nil, fmt.Errorf("%w: certificate fingerprint: %v", ErrConfig, err)
	}
	if len(b) != sha256.Size {
		return nil, fmt.Errorf("%w: certificate fingerprint must be %d bytes, got %d", ErrConfig, sha256.Size, len(b))
	}
	var p pinned
	copy(p.sum[:], b)
	return p, nil
}

func (p pinned) TLSConfig() *tls.Config {
	return &tls.Config{
		// chain verification is replaced by the fingerprint check
		InsecureSkipVerify:    true,
		VerifyPeerCertificate: p.verify,
	}
}

func (p pinned) verify(rawCerts [][]byte, _ [][]*x509.Certificate) error {
	if len(rawCerts) == 0 {
		return fmt.Errorf("server presented no certificate")
	}
	sum := sha256.Sum256(rawCerts[0])
	if !bytes.Equal(sum[:], p.sum[:]) {
		return fmt.Errorf("certificate fingerprint %x does not match pinned %x", sum, p.sum)
	}
	return nil
}

func (p pinned) String() string { return fmt.Sprintf("pinned sha256:%x", p.sum) }
