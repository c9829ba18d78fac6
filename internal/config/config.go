package config

import (
	"fmt"
	"os"

	"go.uber.org/multierr"

	"github.com/devisefutures/check-CMD-plugin/internal/domain"
)

// SCMD service endpoints (CMD specification v1.6). Overridable through
// SCMD_PREPROD_URL / SCMD_PROD_URL, mostly for pointing the plugin at a
// test double.
const (
	defaultPreprodURL = "https://preprod.cmd.autenticacao.gov.pt/Ama.Authentication.Frontend/CCMovelDigitalSignature.svc"
	defaultProdURL    = "https://cmd.autenticacao.gov.pt/Ama.Authentication.Frontend/CCMovelDigitalSignature.svc"
)

// Config is the fully resolved plugin configuration for one run.
type Config struct {
	User          string  // user phone number (+XXX NNNNNNNNN)
	ApplicationID string  // CMD ApplicationId
	Warning       float64 // seconds
	Critical      float64 // seconds
	Timeout       float64 // seconds
	Prod          bool
	Verbose       bool

	PreprodURL string
	ProdURL    string
	LogDir     string // empty disables the file log
}

// ApplyEnv fills the endpoint URLs and log directory from the
// environment, falling back to the service defaults.
func (c *Config) ApplyEnv() {
	c.PreprodURL = envOr("SCMD_PREPROD_URL", defaultPreprodURL)
	c.ProdURL = envOr("SCMD_PROD_URL", defaultProdURL)
	c.LogDir = os.Getenv("SCMD_LOG_DIR")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Validate reports every configuration problem at once. Any error here
// means no probe may run; the caller reports UNKNOWN immediately.
func (c Config) Validate() error {
	var err error
	if c.User == "" {
		err = multierr.Append(err, fmt.Errorf("user phone number is required"))
	}
	if c.ApplicationID == "" {
		err = multierr.Append(err, fmt.Errorf("applicationId is required"))
	}
	if c.Timeout <= 0 {
		err = multierr.Append(err, fmt.Errorf("timeout must be positive, got %g", c.Timeout))
	}
	if c.Warning < 0 {
		err = multierr.Append(err, fmt.Errorf("warning threshold must not be negative, got %g", c.Warning))
	}
	if c.Warning >= c.Critical {
		err = multierr.Append(err, fmt.Errorf("warning threshold (%g) must be below critical threshold (%g)", c.Warning, c.Critical))
	}
	return err
}

// Request builds the probe request for this configuration.
func (c Config) Request() domain.ProbeRequest {
	target := domain.Preprod
	if c.Prod {
		target = domain.Prod
	}
	return domain.ProbeRequest{
		UserID:          c.User,
		ApplicationID:   c.ApplicationID,
		Endpoint:        target,
		TimeoutSeconds:  c.Timeout,
		WarningSeconds:  c.Warning,
		CriticalSeconds: c.Critical,
	}
}
