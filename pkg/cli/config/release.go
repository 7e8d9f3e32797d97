package config

import (
	"os"

	"github.com/m-mizutani/ghrelease/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

const (
	DefaultTagNameTemplate     = model.VersionPlaceholder
	DefaultReleaseNameTemplate = "Release " + model.VersionPlaceholder
)

// Release holds the description of the release to publish
type Release struct {
	Owner               string
	Repo                string
	Repository          string
	Version             string
	TagNameTemplate     string
	ReleaseNameTemplate string
	Changelog           string
	ChangelogFile       string
	Prerelease          bool
	Draft               bool
	Assets              string
}

// Flags returns CLI flags for release configuration
func (c *Release) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "owner",
			Usage:       "Repository owner",
			Destination: &c.Owner,
			Sources:     cli.EnvVars("GHRELEASE_OWNER", "GITHUBR_OWNER"),
		},
		&cli.StringFlag{
			Name:        "repo",
			Usage:       "Repository name",
			Destination: &c.Repo,
			Sources:     cli.EnvVars("GHRELEASE_REPO", "GITHUBR_REPO"),
		},
		&cli.StringFlag{
			Name:        "repository",
			Usage:       "Repository as owner/name or clone URL; --owner and --repo take precedence",
			Destination: &c.Repository,
			Sources:     cli.EnvVars("GHRELEASE_REPOSITORY"),
		},
		&cli.StringFlag{
			Name:        "release-version",
			Usage:       "Version of the release",
			Destination: &c.Version,
			Sources:     cli.EnvVars("GHRELEASE_VERSION", "GITHUBR_VERSION"),
		},
		&cli.StringFlag{
			Name:        "tag-name",
			Usage:       "Tag name template, ${version} is replaced by the version",
			Value:       DefaultTagNameTemplate,
			Destination: &c.TagNameTemplate,
			Sources:     cli.EnvVars("GHRELEASE_TAG_NAME"),
		},
		&cli.StringFlag{
			Name:        "release-name",
			Usage:       "Release name template, ${version} is replaced by the version",
			Value:       DefaultReleaseNameTemplate,
			Destination: &c.ReleaseNameTemplate,
			Sources:     cli.EnvVars("GHRELEASE_RELEASE_NAME"),
		},
		&cli.StringFlag{
			Name:        "changelog",
			Usage:       "Release body",
			Destination: &c.Changelog,
			Sources:     cli.EnvVars("GHRELEASE_CHANGELOG"),
		},
		&cli.StringFlag{
			Name:        "changelog-file",
			Usage:       "File to read the release body from",
			Destination: &c.ChangelogFile,
			Sources:     cli.EnvVars("GHRELEASE_CHANGELOG_FILE"),
		},
		&cli.BoolFlag{
			Name:        "prerelease",
			Usage:       "Mark the release as a prerelease",
			Destination: &c.Prerelease,
			Sources:     cli.EnvVars("GHRELEASE_PRERELEASE"),
		},
		&cli.BoolFlag{
			Name:        "draft",
			Usage:       "Create the release as a draft",
			Destination: &c.Draft,
			Sources:     cli.EnvVars("GHRELEASE_DRAFT"),
		},
		&cli.StringFlag{
			Name:        "assets",
			Usage:       "Glob of files to upload, ** matches across directories",
			Destination: &c.Assets,
			Sources:     cli.EnvVars("GHRELEASE_ASSETS"),
		},
	}
}

// Build validates the configuration and produces the release request
func (c *Release) Build(gh *GitHub) (*model.ReleaseRequest, error) {
	req := &model.ReleaseRequest{
		Version:             c.Version,
		TagNameTemplate:     c.TagNameTemplate,
		ReleaseNameTemplate: c.ReleaseNameTemplate,
		Owner:               c.Owner,
		Repo:                c.Repo,
		Changelog:           c.Changelog,
		Prerelease:          c.Prerelease,
		Draft:               c.Draft,
		Host:                gh.Host,
	}

	if c.Repository != "" {
		repo, err := model.ParseRepository(c.Repository)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid --repository")
		}
		req.RepositoryHost = repo.Host
		if req.Owner == "" {
			req.Owner = repo.Owner
		}
		if req.Repo == "" {
			req.Repo = repo.Name
		}
	}

	if req.Owner == "" || req.Repo == "" {
		return nil, goerr.New("repository owner and name are required, set --owner and --repo or --repository")
	}
	if req.Version == "" {
		return nil, goerr.New("version is required", goerr.V("owner", req.Owner), goerr.V("repo", req.Repo))
	}
	if req.TagNameTemplate == "" {
		req.TagNameTemplate = DefaultTagNameTemplate
	}

	if c.ChangelogFile != "" {
		body, err := os.ReadFile(c.ChangelogFile)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read changelog file", goerr.V("path", c.ChangelogFile))
		}
		req.Changelog = string(body)
	}

	cred, err := gh.Credentials()
	if err != nil {
		return nil, err
	}
	req.Credentials = cred

	return req, nil
}
