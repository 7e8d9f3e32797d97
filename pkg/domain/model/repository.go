package model

import (
	"net/url"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// DefaultHost is the public hosting service
const DefaultHost = "github.com"

// Repository identifies a repository and the host it lives on
type Repository struct {
	Host  string
	Owner string
	Name  string
}

// ParseRepository accepts "owner/name", "https://host/owner/name(.git)" and
// "git@host:owner/name(.git)". Host is empty for the short form.
func ParseRepository(ref string) (*Repository, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, goerr.New("empty repository reference")
	}

	var host, path string
	switch {
	case strings.Contains(ref, "://"):
		u, err := url.Parse(ref)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to parse repository URL", goerr.V("ref", ref))
		}
		host, path = u.Host, u.Path
	case strings.HasPrefix(ref, "git@"):
		rest := strings.TrimPrefix(ref, "git@")
		h, p, ok := strings.Cut(rest, ":")
		if !ok {
			return nil, goerr.New("invalid SSH repository reference", goerr.V("ref", ref))
		}
		host, path = h, p
	default:
		path = ref
	}

	path = strings.TrimSuffix(strings.Trim(path, "/"), ".git")
	owner, name, ok := strings.Cut(path, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return nil, goerr.New("repository reference must be owner/name", goerr.V("ref", ref))
	}

	return &Repository{
		Host:  host,
		Owner: owner,
		Name:  name,
	}, nil
}

// FullName returns "owner/name"
func (r *Repository) FullName() string {
	return r.Owner + "/" + r.Name
}
