package usecase_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/go-github/v75/github"

	"github.com/m-mizutani/ghrelease/pkg/domain/interfaces"
	"github.com/m-mizutani/ghrelease/pkg/domain/model"
	githubinfra "github.com/m-mizutani/ghrelease/pkg/infra/github"
	"github.com/m-mizutani/ghrelease/pkg/utils/retry"
)

// MockReleaseClient is a mock implementation of ReleaseClient
type MockReleaseClient struct {
	createReleaseFunc func(ctx context.Context, owner, repo string, release *github.RepositoryRelease) (*github.RepositoryRelease, error)
	uploadAssetFunc   func(ctx context.Context, uploadURL string, body []byte, name, contentType string, size int64) (*github.ReleaseAsset, error)

	mu          sync.Mutex
	createCalls []*github.RepositoryRelease
	uploadCalls []MockUploadCall
}

type MockUploadCall struct {
	UploadURL   string
	Name        string
	ContentType string
	Size        int64
	Body        []byte
}

func (m *MockReleaseClient) CreateRelease(ctx context.Context, owner, repo string, release *github.RepositoryRelease) (*github.RepositoryRelease, error) {
	m.mu.Lock()
	m.createCalls = append(m.createCalls, release)
	m.mu.Unlock()

	if m.createReleaseFunc != nil {
		return m.createReleaseFunc(ctx, owner, repo, release)
	}
	return nil, errors.New("mock not configured")
}

func (m *MockReleaseClient) UploadAsset(ctx context.Context, uploadURL string, file io.Reader, name, contentType string, size int64) (*github.ReleaseAsset, error) {
	body, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.uploadCalls = append(m.uploadCalls, MockUploadCall{
		UploadURL:   uploadURL,
		Name:        name,
		ContentType: contentType,
		Size:        size,
		Body:        body,
	})
	m.mu.Unlock()

	if m.uploadAssetFunc != nil {
		return m.uploadAssetFunc(ctx, uploadURL, body, name, contentType, size)
	}
	return &github.ReleaseAsset{ID: github.Ptr(int64(1)), Name: github.Ptr(name)}, nil
}

func (m *MockReleaseClient) CreateCalls() []*github.RepositoryRelease {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*github.RepositoryRelease(nil), m.createCalls...)
}

func (m *MockReleaseClient) UploadCalls() []MockUploadCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MockUploadCall(nil), m.uploadCalls...)
}

func (m *MockReleaseClient) UploadCallsFor(name string) int {
	n := 0
	for _, c := range m.UploadCalls() {
		if c.Name == name {
			n++
		}
	}
	return n
}

// MockRegistry always returns the same client and records requested hosts
type MockRegistry struct {
	client interfaces.ReleaseClient

	mu    sync.Mutex
	hosts []string
	creds []model.Credentials
}

func (r *MockRegistry) GetOrCreate(host string, cred model.Credentials) interfaces.ReleaseClient {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hosts = append(r.hosts, host)
	r.creds = append(r.creds, cred)
	return r.client
}

// apiError builds the error go-github returns for a failed response
func apiError(code int) error {
	req, _ := http.NewRequest(http.MethodPost, "https://api.github.com/repos/o/r/releases", nil)
	return &github.ErrorResponse{
		Response: &http.Response{StatusCode: code, Request: req},
		Message:  http.StatusText(code),
	}
}

// newExecutor returns an executor that does not actually wait
func newExecutor(maxRetries int) *retry.Executor {
	return retry.New(githubinfra.Classify, retry.Policy{
		MaxRetries:      maxRetries,
		InitialDelay:    time.Millisecond,
		MaxDelay:        10 * time.Millisecond,
		BackoffMultiple: 2,
		Sleep:           func(ctx context.Context, d time.Duration) error { return nil },
	})
}

func createdRelease(release *github.RepositoryRelease) *github.RepositoryRelease {
	return &github.RepositoryRelease{
		ID:         github.Ptr(int64(42)),
		TagName:    release.TagName,
		Name:       release.Name,
		Draft:      release.Draft,
		Prerelease: release.Prerelease,
		HTMLURL:    github.Ptr("https://github.com/octo/hello/releases/tag/" + release.GetTagName()),
		UploadURL:  github.Ptr("https://uploads.github.com/repos/octo/hello/releases/42/assets{?name,label}"),
	}
}
