package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/ghrelease/pkg/domain/interfaces"
	"github.com/m-mizutani/ghrelease/pkg/domain/model"
	githubinfra "github.com/m-mizutani/ghrelease/pkg/infra/github"
	"github.com/m-mizutani/ghrelease/pkg/infra/github/githubtest"
	"github.com/m-mizutani/ghrelease/pkg/usecase"
)

func newPublish(registry interfaces.ClientRegistry, cred model.Credentials, opts ...usecase.UploadOption) interfaces.PublishUseCase {
	executor := newExecutor(2)
	creator := usecase.NewReleaseCreator(registry, executor)
	uploader := usecase.NewAssetUploader(registry, executor, cred)
	return usecase.NewPublish(creator, usecase.NewUploadOrchestrator(uploader, opts...))
}

func TestPublish_EndToEnd(t *testing.T) {
	srv := githubtest.NewServer()
	defer srv.Close()
	srv.UploadDelay = 100 * time.Millisecond

	dir := t.TempDir()
	writeAsset(t, dir, "tool_linux.zip", "linux-build")
	writeAsset(t, dir, "tool_darwin.zip", "darwin-build")

	cred := model.Credentials{Token: "secret"}
	req := &model.ReleaseRequest{
		Version:         "2.0.0",
		TagNameTemplate: "${version}",
		Owner:           "octo",
		Repo:            "hello",
		Host:            srv.Host(),
		Credentials:     cred,
	}

	result, err := newPublish(githubinfra.NewRegistry(), cred).Publish(context.Background(), req, filepath.Join(dir, "*.zip"))
	gt.NoError(t, err)

	gt.Value(t, result.RunID).NotEqual("")
	gt.Equal(t, result.Release.TagName, "2.0.0")
	gt.Equal(t, result.Release.Name, "2.0.0")
	gt.Value(t, result.Release.UploadURL).NotEqual("")
	gt.Array(t, result.Assets).Length(2)
	gt.Equal(t, result.Assets[0].Name, "tool_darwin.zip")
	gt.Equal(t, result.Assets[1].Name, "tool_linux.zip")

	gt.Equal(t, srv.CreateAttempts(), 1)
	uploads := srv.Uploads()
	gt.Array(t, uploads).Length(2)

	bodies := []string{string(uploads[0].Body), string(uploads[1].Body)}
	sort.Strings(bodies)
	gt.Equal(t, bodies, []string{"darwin-build", "linux-build"})
	for _, u := range uploads {
		gt.Equal(t, u.ReleaseID, result.Release.ID)
		gt.Equal(t, u.ContentType, "application/zip")
		gt.Equal(t, u.Authorization, "Bearer secret")
	}

	gt.Equal(t, srv.MaxConcurrentUploads(), 2)
}

func TestPublish_CreationFailureSkipsUploads(t *testing.T) {
	srv := githubtest.NewServer()
	defer srv.Close()
	srv.OnCreateRelease = func(int, *github.RepositoryRelease) githubtest.Fault {
		return githubtest.Fault{Status: http.StatusUnauthorized, Message: "Bad credentials"}
	}

	dir := t.TempDir()
	writeAsset(t, dir, "a.zip", "a")

	cred := model.Credentials{Token: "wrong"}
	req := &model.ReleaseRequest{
		Version:         "1.0.0",
		TagNameTemplate: "v${version}",
		Owner:           "octo",
		Repo:            "hello",
		Host:            srv.Host(),
		Credentials:     cred,
	}

	result, err := newPublish(githubinfra.NewRegistry(), cred).Publish(context.Background(), req, filepath.Join(dir, "*.zip"))
	gt.Error(t, err)
	gt.Value(t, result).Nil()
	gt.Equal(t, srv.CreateAttempts(), 1)
	gt.Equal(t, srv.TotalUploadAttempts(), 0)

	var creationErr *model.ReleaseCreationError
	gt.True(t, errors.As(err, &creationErr))
	gt.True(t, creationErr.Permanent)
	gt.String(t, creationErr.Reason).Contains("Bad credentials")
}

func TestPublish_TransientFailuresRecover(t *testing.T) {
	srv := githubtest.NewServer()
	defer srv.Close()
	srv.OnCreateRelease = func(attempt int, _ *github.RepositoryRelease) githubtest.Fault {
		if attempt < 3 {
			return githubtest.Fault{Status: http.StatusBadGateway}
		}
		return githubtest.Fault{}
	}
	srv.OnUpload = func(name string, attempt int) githubtest.Fault {
		if attempt == 1 {
			return githubtest.Fault{Status: http.StatusServiceUnavailable}
		}
		return githubtest.Fault{}
	}

	dir := t.TempDir()
	writeAsset(t, dir, "a.zip", "a")

	cred := model.Credentials{Token: "t"}
	req := &model.ReleaseRequest{
		Version:         "1.0.0",
		TagNameTemplate: "v${version}",
		Owner:           "octo",
		Repo:            "hello",
		Host:            srv.Host(),
		Credentials:     cred,
	}

	result, err := newPublish(githubinfra.NewRegistry(), cred).Publish(context.Background(), req, filepath.Join(dir, "*.zip"))
	gt.NoError(t, err)
	gt.Equal(t, srv.CreateAttempts(), 3)
	gt.Equal(t, srv.UploadAttempts("a.zip"), 2)
	gt.Array(t, result.Assets).Length(1)
}

func TestPublish_UploadFailure(t *testing.T) {
	srv := githubtest.NewServer()
	defer srv.Close()
	srv.OnUpload = func(name string, attempt int) githubtest.Fault {
		if name == "file2.zip" {
			return githubtest.Fault{Status: http.StatusUnprocessableEntity, Message: "already_exists"}
		}
		return githubtest.Fault{}
	}

	dir := t.TempDir()
	writeAsset(t, dir, "file1.zip", "1")
	writeAsset(t, dir, "file2.zip", "2")
	writeAsset(t, dir, "file3.zip", "3")

	cred := model.Credentials{Token: "t"}
	req := &model.ReleaseRequest{
		Version:         "1.0.0",
		TagNameTemplate: "v${version}",
		Owner:           "octo",
		Repo:            "hello",
		Host:            srv.Host(),
		Credentials:     cred,
	}

	_, err := newPublish(githubinfra.NewRegistry(), cred).Publish(context.Background(), req, filepath.Join(dir, "*.zip"))
	gt.Error(t, err)

	gt.Equal(t, srv.UploadAttempts("file1.zip"), 1)
	gt.Equal(t, srv.UploadAttempts("file2.zip"), 1)
	gt.Equal(t, srv.UploadAttempts("file3.zip"), 1)
	gt.Array(t, srv.Uploads()).Length(2)

	var aggregate *model.AggregateUploadError
	gt.True(t, errors.As(err, &aggregate))
	gt.Equal(t, aggregate.FailedNames(), []string{"file2.zip"})
}
