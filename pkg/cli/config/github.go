package config

import (
	"os"

	"github.com/m-mizutani/ghrelease/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// GitHub holds GitHub connection configuration
type GitHub struct {
	Host           string
	Token          string `masq:"secret"`
	AppID          int64
	InstallationID int64
	PrivateKey     string `masq:"secret"`
	PrivateKeyFile string
}

// Flags returns CLI flags for GitHub configuration
func (c *GitHub) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "host",
			Usage:       "GitHub host; github.com uses the public API, other hosts the /api/v3 enterprise path",
			Destination: &c.Host,
			Sources:     cli.EnvVars("GHRELEASE_HOST"),
		},
		&cli.StringFlag{
			Name:        "token",
			Usage:       "GitHub token",
			Destination: &c.Token,
			Sources:     cli.EnvVars("GHRELEASE_TOKEN", "GITHUB_TOKEN"),
		},
		&cli.Int64Flag{
			Name:        "app-id",
			Usage:       "GitHub App ID, used when no token is given",
			Destination: &c.AppID,
			Sources:     cli.EnvVars("GHRELEASE_APP_ID"),
		},
		&cli.Int64Flag{
			Name:        "app-installation-id",
			Usage:       "GitHub App installation ID",
			Destination: &c.InstallationID,
			Sources:     cli.EnvVars("GHRELEASE_APP_INSTALLATION_ID"),
		},
		&cli.StringFlag{
			Name:        "app-private-key",
			Usage:       "GitHub App private key (PEM)",
			Destination: &c.PrivateKey,
			Sources:     cli.EnvVars("GHRELEASE_APP_PRIVATE_KEY"),
		},
		&cli.StringFlag{
			Name:        "app-private-key-file",
			Usage:       "Path to the GitHub App private key",
			Destination: &c.PrivateKeyFile,
			Sources:     cli.EnvVars("GHRELEASE_APP_PRIVATE_KEY_FILE"),
		},
	}
}

// Credentials builds the API credentials. Either a token or a complete
// GitHub App configuration is required.
func (c *GitHub) Credentials() (model.Credentials, error) {
	cred := model.Credentials{
		Token:          c.Token,
		AppID:          c.AppID,
		InstallationID: c.InstallationID,
		PrivateKey:     []byte(c.PrivateKey),
	}

	if len(cred.PrivateKey) == 0 && c.PrivateKeyFile != "" {
		key, err := os.ReadFile(c.PrivateKeyFile)
		if err != nil {
			return model.Credentials{}, goerr.Wrap(err, "failed to read GitHub App private key", goerr.V("path", c.PrivateKeyFile))
		}
		cred.PrivateKey = key
	}

	if cred.Empty() {
		return model.Credentials{}, goerr.New("GitHub token or GitHub App credentials are required")
	}

	return cred, nil
}
