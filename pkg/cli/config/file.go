package config

import (
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
)

// File is the layout of a TOML configuration file. Every key is optional.
type File struct {
	Owner             *string   `toml:"owner"`
	Repo              *string   `toml:"repo"`
	Repository        *string   `toml:"repository"`
	Version           *string   `toml:"version"`
	TagName           *string   `toml:"tag_name"`
	ReleaseName       *string   `toml:"release_name"`
	Changelog         *string   `toml:"changelog"`
	ChangelogFile     *string   `toml:"changelog_file"`
	Prerelease        *bool     `toml:"prerelease"`
	Draft             *bool     `toml:"draft"`
	Assets            *string   `toml:"assets"`
	Host              *string   `toml:"host"`
	AppID             *int64    `toml:"app_id"`
	InstallationID    *int64    `toml:"app_installation_id"`
	PrivateKeyFile    *string   `toml:"app_private_key_file"`
	MaxRetries        *int      `toml:"max_retries"`
	RetryDelay        *duration `toml:"retry_delay"`
	RetryMaxDelay     *duration `toml:"retry_max_delay"`
	Timeout           *duration `toml:"timeout"`
	UploadConcurrency *int      `toml:"upload_concurrency"`
}

type duration time.Duration

func (d *duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return goerr.Wrap(err, "invalid duration", goerr.V("value", string(b)))
	}
	*d = duration(v)
	return nil
}

// LoadFile reads a TOML configuration file
func LoadFile(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V("path", path))
	}

	var f File
	if err := toml.Unmarshal(raw, &f); err != nil {
		return nil, goerr.Wrap(err, "failed to parse config file", goerr.V("path", path))
	}
	return &f, nil
}

// Apply copies file values into the configs for every flag that isSet
// reports as not given on the command line or environment.
func (f *File) Apply(isSet func(name string) bool, rel *Release, gh *GitHub, rt *Retry) {
	fill(isSet, "owner", f.Owner, &rel.Owner)
	fill(isSet, "repo", f.Repo, &rel.Repo)
	fill(isSet, "repository", f.Repository, &rel.Repository)
	fill(isSet, "release-version", f.Version, &rel.Version)
	fill(isSet, "tag-name", f.TagName, &rel.TagNameTemplate)
	fill(isSet, "release-name", f.ReleaseName, &rel.ReleaseNameTemplate)
	fill(isSet, "changelog", f.Changelog, &rel.Changelog)
	fill(isSet, "changelog-file", f.ChangelogFile, &rel.ChangelogFile)
	fill(isSet, "prerelease", f.Prerelease, &rel.Prerelease)
	fill(isSet, "draft", f.Draft, &rel.Draft)
	fill(isSet, "assets", f.Assets, &rel.Assets)

	fill(isSet, "host", f.Host, &gh.Host)
	fill(isSet, "app-id", f.AppID, &gh.AppID)
	fill(isSet, "app-installation-id", f.InstallationID, &gh.InstallationID)
	fill(isSet, "app-private-key-file", f.PrivateKeyFile, &gh.PrivateKeyFile)

	fill(isSet, "max-retries", f.MaxRetries, &rt.MaxRetries)
	fillDuration(isSet, "retry-delay", f.RetryDelay, &rt.Delay)
	fillDuration(isSet, "retry-max-delay", f.RetryMaxDelay, &rt.MaxDelay)
	fillDuration(isSet, "timeout", f.Timeout, &rt.Timeout)
	fill(isSet, "upload-concurrency", f.UploadConcurrency, &rt.Concurrency)
}

func fill[T any](isSet func(string) bool, name string, v *T, dst *T) {
	if v == nil || isSet(name) {
		return
	}
	*dst = *v
}

func fillDuration(isSet func(string) bool, name string, v *duration, dst *time.Duration) {
	if v == nil || isSet(name) {
		return
	}
	*dst = time.Duration(*v)
}
