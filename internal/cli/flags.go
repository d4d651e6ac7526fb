package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"go.chrisrx.dev/neohub/neohub"
)

// Flags are the connection flags shared by the binaries. Anything not given
// on the command line comes from the NEOHUB_* environment.
type Flags struct {
	URL       string
	Token     string
	Timeout   time.Duration
	StrictTLS bool
	Pin       string
}

func (f *Flags) Register(cmd *cobra.Command) {
	fs := cmd.PersistentFlags()
	fs.StringVar(&f.URL, "url", "", "hub websocket url (env NEOHUB_URL)")
	fs.StringVar(&f.Token, "token", "", "hub api token (env NEOHUB_TOKEN)")
	fs.DurationVar(&f.Timeout, "timeout", 0, "per command timeout (env NEOHUB_TIMEOUT, default 15s)")
	fs.BoolVar(&f.StrictTLS, "strict-tls", false, "verify the hub certificate against the system roots")
	fs.StringVar(&f.Pin, "pin", "", "accept only this hub certificate (hex sha256, env NEOHUB_CERT_SHA256)")
}

// Config merges the flags over the environment. NEOHUB_URL and NEOHUB_TOKEN
// are only required when the matching flag is missing; the optional
// variables are always read.
func (f *Flags) Config() (neohub.Config, error) {
	var cfg neohub.Config
	if f.URL == "" || f.Token == "" {
		var err error
		cfg, err = neohub.LoadConfig()
		if err != nil {
			return neohub.Config{}, err
		}
	} else {
		opts, err := neohub.LoadOptions()
		if err != nil {
			return neohub.Config{}, err
		}
		cfg.Timeout = opts.Timeout
		cfg.CertFingerprint = opts.CertFingerprint
	}
	if f.URL != "" {
		cfg.URL = f.URL
	}
	if f.Token != "" {
		cfg.Token = f.Token
	}
	if f.Timeout != 0 {
		cfg.Timeout = f.Timeout
	}
	if f.Pin != "" {
		cfg.CertFingerprint = f.Pin
	}
	return cfg, nil
}

func (f *Flags) Builder() (*neohub.Builder, error) {
	if f.StrictTLS && f.Pin != "" {
		return nil, fmt.Errorf("%w: --strict-tls and --pin are mutually exclusive", neohub.ErrConfig)
	}
	cfg, err := f.Config()
	if err != nil {
		return nil, err
	}
	if f.StrictTLS && cfg.CertFingerprint != "" {
		return nil, fmt.Errorf("%w: --strict-tls conflicts with NEOHUB_CERT_SHA256", neohub.ErrConfig)
	}

	b, err := cfg.Builder()
	if err != nil {
		return nil, err
	}
	if f.StrictTLS {
		b.Trust(neohub.SystemRoots)
	}
	return b, nil
}
