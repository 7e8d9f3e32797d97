package model

import (
	"strings"
	"time"
)

// VersionPlaceholder is replaced by the release version in tag and name templates
const VersionPlaceholder = "${version}"

// ReleaseRequest holds everything needed to create one release. It is built
// once by the caller and never modified afterwards.
type ReleaseRequest struct {
	Version             string // Version string substituted into templates
	TagNameTemplate     string // e.g. "v${version}"
	ReleaseNameTemplate string // e.g. "Release ${version}"
	Owner               string // Repository owner
	Repo                string // Repository name
	RepositoryHost      string // Host the repository reference was parsed from
	Changelog           string // Release body
	Prerelease          bool
	Draft               bool
	Host                string // Explicit API host, overrides RepositoryHost
	Credentials         Credentials
}

// EffectiveHost returns the host to talk to. An explicit Host wins, then the
// repository's own host, then the public default.
func (r *ReleaseRequest) EffectiveHost() string {
	switch {
	case r.Host != "":
		return r.Host
	case r.RepositoryHost != "":
		return r.RepositoryHost
	default:
		return DefaultHost
	}
}

// Repository returns the target repository on the effective host
func (r *ReleaseRequest) Repository() *Repository {
	return &Repository{
		Host:  r.EffectiveHost(),
		Owner: r.Owner,
		Name:  r.Repo,
	}
}

// TagName renders the tag name template with the request version
func (r *ReleaseRequest) TagName() string {
	return RenderTemplate(r.TagNameTemplate, r.Version)
}

// ReleaseName renders the release name template. An empty template falls back
// to the tag name.
func (r *ReleaseRequest) ReleaseName() string {
	if r.ReleaseNameTemplate == "" {
		return r.TagName()
	}
	return RenderTemplate(r.ReleaseNameTemplate, r.Version)
}

// RenderTemplate substitutes version into tmpl. The placeholder "${version}"
// is replaced everywhere. Templates written in the older positional style get
// their first "%s" replaced and "%%" unescaped. Only tmpl is scanned for
// markers; version is always inserted literally.
func RenderTemplate(tmpl, version string) string {
	var sb strings.Builder
	replaced := false
	for i := 0; i < len(tmpl); i++ {
		if strings.HasPrefix(tmpl[i:], VersionPlaceholder) {
			sb.WriteString(version)
			i += len(VersionPlaceholder) - 1
			continue
		}
		if tmpl[i] != '%' || i+1 >= len(tmpl) {
			sb.WriteByte(tmpl[i])
			continue
		}
		switch next := tmpl[i+1]; {
		case next == '%':
			sb.WriteByte('%')
			i++
		case next == 's' && !replaced:
			sb.WriteString(version)
			replaced = true
			i++
		default:
			sb.WriteByte('%')
		}
	}
	return sb.String()
}

// ReleaseRecord is the result of a successful create-release call. There is at
// most one per pipeline run and every asset upload of the run refers to it.
type ReleaseRecord struct {
	ID         int64     `json:"id"`
	TagName    string    `json:"tag_name"`
	Name       string    `json:"name"`
	HTMLURL    string    `json:"html_url"`
	UploadURL  string    `json:"upload_url"`
	Draft      bool      `json:"draft"`
	Prerelease bool      `json:"prerelease"`
	CreatedAt  time.Time `json:"created_at"`
	Host       string    `json:"host"`
}
