package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/ghrelease/pkg/domain/model"
	"github.com/m-mizutani/ghrelease/pkg/usecase"
)

func newReleaseRequest() *model.ReleaseRequest {
	return &model.ReleaseRequest{
		Version:             "1.2.3",
		TagNameTemplate:     "v${version}",
		ReleaseNameTemplate: "Release ${version}",
		Owner:               "octo",
		Repo:                "hello",
		Changelog:           "- fixed things",
		Prerelease:          true,
		Draft:               false,
		Credentials:         model.Credentials{Token: "token"},
	}
}

func TestReleaseCreator_Create_Success(t *testing.T) {
	ctx := context.Background()

	mockClient := &MockReleaseClient{
		createReleaseFunc: func(ctx context.Context, owner, repo string, release *github.RepositoryRelease) (*github.RepositoryRelease, error) {
			gt.Equal(t, owner, "octo")
			gt.Equal(t, repo, "hello")
			return createdRelease(release), nil
		},
	}
	registry := &MockRegistry{client: mockClient}

	uc := usecase.NewReleaseCreator(registry, newExecutor(2))
	record, err := uc.Create(ctx, newReleaseRequest())
	gt.NoError(t, err)

	gt.Equal(t, record.ID, int64(42))
	gt.Equal(t, record.TagName, "v1.2.3")
	gt.Equal(t, record.Name, "Release 1.2.3")
	gt.Equal(t, record.Host, "github.com")
	gt.True(t, record.Prerelease)
	gt.String(t, record.UploadURL).Contains("/releases/42/assets")

	calls := mockClient.CreateCalls()
	gt.Array(t, calls).Length(1)
	gt.Equal(t, calls[0].GetTagName(), "v1.2.3")
	gt.Equal(t, calls[0].GetBody(), "- fixed things")
	gt.True(t, calls[0].GetPrerelease())
	gt.False(t, calls[0].GetDraft())

	gt.Equal(t, registry.hosts, []string{"github.com"})
	gt.Equal(t, registry.creds[0].Token, "token")
}

func TestReleaseCreator_Create_HostResolution(t *testing.T) {
	ctx := context.Background()

	mockClient := &MockReleaseClient{
		createReleaseFunc: func(ctx context.Context, owner, repo string, release *github.RepositoryRelease) (*github.RepositoryRelease, error) {
			return createdRelease(release), nil
		},
	}

	t.Run("explicit host", func(t *testing.T) {
		registry := &MockRegistry{client: mockClient}
		req := newReleaseRequest()
		req.Host = "ghe.example.com"
		req.RepositoryHost = "github.com"

		record, err := usecase.NewReleaseCreator(registry, newExecutor(2)).Create(ctx, req)
		gt.NoError(t, err)
		gt.Equal(t, record.Host, "ghe.example.com")
		gt.Equal(t, registry.hosts, []string{"ghe.example.com"})
	})

	t.Run("repository host", func(t *testing.T) {
		registry := &MockRegistry{client: mockClient}
		req := newReleaseRequest()
		req.RepositoryHost = "git.example.org"

		_, err := usecase.NewReleaseCreator(registry, newExecutor(2)).Create(ctx, req)
		gt.NoError(t, err)
		gt.Equal(t, registry.hosts, []string{"git.example.org"})
	})
}

func TestReleaseCreator_Create_RetriesTransient(t *testing.T) {
	ctx := context.Background()

	attempts := 0
	mockClient := &MockReleaseClient{
		createReleaseFunc: func(ctx context.Context, owner, repo string, release *github.RepositoryRelease) (*github.RepositoryRelease, error) {
			attempts++
			if attempts < 3 {
				return nil, apiError(502)
			}
			return createdRelease(release), nil
		},
	}

	record, err := usecase.NewReleaseCreator(&MockRegistry{client: mockClient}, newExecutor(2)).Create(ctx, newReleaseRequest())
	gt.NoError(t, err)
	gt.Equal(t, record.TagName, "v1.2.3")
	gt.Equal(t, attempts, 3)
}

func TestReleaseCreator_Create_PermanentFailure(t *testing.T) {
	ctx := context.Background()

	mockClient := &MockReleaseClient{
		createReleaseFunc: func(ctx context.Context, owner, repo string, release *github.RepositoryRelease) (*github.RepositoryRelease, error) {
			return nil, apiError(422)
		},
	}

	record, err := usecase.NewReleaseCreator(&MockRegistry{client: mockClient}, newExecutor(2)).Create(ctx, newReleaseRequest())
	gt.Error(t, err)
	gt.Value(t, record).Nil()
	gt.Array(t, mockClient.CreateCalls()).Length(1)

	var creationErr *model.ReleaseCreationError
	gt.True(t, errors.As(err, &creationErr))
	gt.True(t, creationErr.Permanent)
	gt.Equal(t, creationErr.TagName, "v1.2.3")
	gt.String(t, creationErr.Reason).Contains("422 Unprocessable Entity")
}

func TestReleaseCreator_Create_RetriesExhausted(t *testing.T) {
	ctx := context.Background()

	mockClient := &MockReleaseClient{
		createReleaseFunc: func(ctx context.Context, owner, repo string, release *github.RepositoryRelease) (*github.RepositoryRelease, error) {
			return nil, apiError(500)
		},
	}

	_, err := usecase.NewReleaseCreator(&MockRegistry{client: mockClient}, newExecutor(2)).Create(ctx, newReleaseRequest())
	gt.Error(t, err)
	gt.Array(t, mockClient.CreateCalls()).Length(3)

	var creationErr *model.ReleaseCreationError
	gt.True(t, errors.As(err, &creationErr))
	gt.False(t, creationErr.Permanent)
	gt.String(t, creationErr.Error()).Contains("retries exhausted")

	var exhausted *model.RetriesExhaustedError
	gt.True(t, errors.As(err, &exhausted))
	gt.Equal(t, exhausted.Attempts, 3)
}

func TestTruncateLines(t *testing.T) {
	gt.Equal(t, usecase.TruncateLines("a\nb", 10), "a\nb")
	gt.Equal(t, usecase.TruncateLines("1\n2\n3\n4", 2), "1\n2\n...and 2 more")
	gt.Equal(t, usecase.TruncateLines("", 10), "")
}
