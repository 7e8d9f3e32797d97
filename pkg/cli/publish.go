package cli

import (
	"context"
	"io"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/ghrelease/pkg/cli/config"
	"github.com/m-mizutani/ghrelease/pkg/infra/github"
	"github.com/m-mizutani/ghrelease/pkg/usecase"
	"github.com/m-mizutani/ghrelease/pkg/utils/retry"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdPublish(stdout io.Writer) *cli.Command {
	var (
		releaseCfg config.Release
		githubCfg  config.GitHub
		retryCfg   config.Retry
		configFile string
		output     string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "TOML file providing values for flags that are not set",
			Destination: &configFile,
			Sources:     cli.EnvVars("GHRELEASE_CONFIG"),
		},
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "Result format (text, json)",
			Value:       outputText,
			Destination: &output,
			Sources:     cli.EnvVars("GHRELEASE_OUTPUT"),
		},
	}
	flags = append(flags, releaseCfg.Flags()...)
	flags = append(flags, githubCfg.Flags()...)
	flags = append(flags, retryCfg.Flags()...)

	return &cli.Command{
		Name:    "publish",
		Aliases: []string{"p"},
		Usage:   "Create a release and upload the matching assets",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if configFile != "" {
				f, err := config.LoadFile(configFile)
				if err != nil {
					return err
				}
				f.Apply(c.IsSet, &releaseCfg, &githubCfg, &retryCfg)
			}

			printer, err := newPrinter(output, stdout)
			if err != nil {
				return err
			}

			req, err := releaseCfg.Build(&githubCfg)
			if err != nil {
				return err
			}

			ctxlog.From(ctx).Debug("Configuration",
				"release", releaseCfg,
				"github", githubCfg,
				"retry", retryCfg,
			)

			registry := github.NewRegistry(github.WithTimeout(retryCfg.Timeout))
			executor := retry.New(github.Classify, retryCfg.Policy())

			creator := usecase.NewReleaseCreator(registry, executor)
			uploader := usecase.NewAssetUploader(registry, executor, req.Credentials)
			orchestrator := usecase.NewUploadOrchestrator(uploader,
				usecase.WithConcurrency(retryCfg.Concurrency),
			)

			result, err := usecase.NewPublish(creator, orchestrator).Publish(ctx, req, releaseCfg.Assets)
			if err != nil {
				return err
			}

			if err := printer(result); err != nil {
				return goerr.Wrap(err, "failed to print result")
			}
			return nil
		},
	}
}
