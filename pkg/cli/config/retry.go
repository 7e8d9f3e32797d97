package config

import (
	"time"

	"github.com/m-mizutani/ghrelease/pkg/infra/github"
	"github.com/m-mizutani/ghrelease/pkg/utils/retry"
	"github.com/urfave/cli/v3"
)

// Retry holds retry, timeout and upload concurrency configuration
type Retry struct {
	MaxRetries  int
	Delay       time.Duration
	MaxDelay    time.Duration
	Timeout     time.Duration
	Concurrency int
}

// Flags returns CLI flags for retry configuration
func (c *Retry) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:        "max-retries",
			Usage:       "Additional attempts after a transient failure",
			Value:       retry.DefaultPolicy.MaxRetries,
			Destination: &c.MaxRetries,
			Sources:     cli.EnvVars("GHRELEASE_MAX_RETRIES"),
		},
		&cli.DurationFlag{
			Name:        "retry-delay",
			Usage:       "Wait before the first retry, doubled for each further retry",
			Value:       retry.DefaultPolicy.InitialDelay,
			Destination: &c.Delay,
			Sources:     cli.EnvVars("GHRELEASE_RETRY_DELAY"),
		},
		&cli.DurationFlag{
			Name:        "retry-max-delay",
			Usage:       "Upper bound of the wait between retries",
			Value:       retry.DefaultPolicy.MaxDelay,
			Destination: &c.MaxDelay,
			Sources:     cli.EnvVars("GHRELEASE_RETRY_MAX_DELAY"),
		},
		&cli.DurationFlag{
			Name:        "timeout",
			Usage:       "Timeout of a single API call",
			Value:       github.DefaultTimeout,
			Destination: &c.Timeout,
			Sources:     cli.EnvVars("GHRELEASE_TIMEOUT"),
		},
		&cli.IntFlag{
			Name:        "upload-concurrency",
			Usage:       "Maximum uploads in flight, 0 uploads all assets at once",
			Destination: &c.Concurrency,
			Sources:     cli.EnvVars("GHRELEASE_UPLOAD_CONCURRENCY"),
		},
	}
}

// Policy returns the retry policy
func (c *Retry) Policy() retry.Policy {
	return retry.Policy{
		MaxRetries:      c.MaxRetries,
		InitialDelay:    c.Delay,
		MaxDelay:        c.MaxDelay,
		BackoffMultiple: retry.DefaultPolicy.BackoffMultiple,
	}
}
