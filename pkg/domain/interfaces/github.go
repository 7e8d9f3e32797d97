package interfaces

import (
	"context"
	"io"

	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/ghrelease/pkg/domain/model"
)

// ReleaseClient defines the release API calls the publisher needs
type ReleaseClient interface {
	// CreateRelease creates a tagged release entry
	CreateRelease(ctx context.Context, owner, repo string, release *github.RepositoryRelease) (*github.RepositoryRelease, error)

	// UploadAsset streams one file to the release upload target
	UploadAsset(ctx context.Context, uploadURL string, file io.Reader, name, contentType string, size int64) (*github.ReleaseAsset, error)
}

// ClientRegistry hands out one ReleaseClient per host for the life of the process
type ClientRegistry interface {
	// GetOrCreate returns the client for host, building it on first use.
	// Credentials passed after the first call for a host are ignored.
	GetOrCreate(host string, cred model.Credentials) ReleaseClient
}
