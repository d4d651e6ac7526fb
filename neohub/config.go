package neohub

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the connection parameters read from the environment.
type Config struct {
	URL     string        `env:"NEOHUB_URL,required,notEmpty"`
	Token   string        `env:"NEOHUB_TOKEN,required,notEmpty"`
	Timeout time.Duration `env:"NEOHUB_TIMEOUT" envDefault:"15s"`

	// CertFingerprint pins the hub certificate (hex SHA-256) instead of
	// accepting any certificate.
	CertFingerprint string `env:"NEOHUB_CERT_SHA256"`
}

// Options are the optional parameters of Config. They can be read on their
// own when the url and token come from elsewhere.
type Options struct {
	Timeout         time.Duration `env:"NEOHUB_TIMEOUT" envDefault:"15s"`
	CertFingerprint string        `env:"NEOHUB_CERT_SHA256"`
}

func LoadOptions() (Options, error) {
	opts, err := env.ParseAs[Options]()
	if err != nil {
		return Options{}, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	return opts, nil
}

func LoadConfig() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	return cfg, nil
}

// Builder returns a Builder for the configured hub.
func (cfg Config) Builder() (*Builder, error) {
	b := Build(cfg.URL, cfg.Token)
	if cfg.Timeout > 0 {
		b.Timeout(cfg.Timeout)
	}
	if cfg.CertFingerprint != "" {
		p, err := PinnedCertificate(cfg.CertFingerprint)
		if err != nil {
			return nil, err
		}
		b.Trust(p)
	}
	return b, nil
}
