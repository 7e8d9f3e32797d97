package github

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/ghrelease/pkg/domain/interfaces"
	"github.com/m-mizutani/ghrelease/pkg/domain/model"
	"github.com/m-mizutani/ghrelease/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// DefaultTimeout bounds a single API call
const DefaultTimeout = 2 * time.Minute

// config holds internal client configuration
type config struct {
	timeout    time.Duration
	httpClient *http.Client
}

// Option is a functional option for client configuration
type Option func(*config)

// WithTimeout sets the per-call timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// WithHTTPClient sets the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *config) {
		c.httpClient = hc
	}
}

type client struct {
	host         string
	githubClient *github.Client
	timeout      time.Duration
	// initErr is kept until the first call so that construction never fails
	initErr error
}

// NewClient creates a release API client for host. Construction problems such
// as an unparsable host or a broken App key are returned by the first call.
func NewClient(host string, cred model.Credentials, opts ...Option) interfaces.ReleaseClient {
	cfg := &config{
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	c := &client{
		host:    host,
		timeout: cfg.timeout,
	}

	httpClient := cfg.httpClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	apiURL := APIBaseURL(host)
	if cred.UseApp() {
		base := httpClient.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		itr, err := ghinstallation.New(base, cred.AppID, cred.InstallationID, cred.PrivateKey)
		if err != nil {
			c.initErr = goerr.Wrap(err, "failed to create GitHub App transport",
				goerr.V("host", host),
				goerr.V("app_id", cred.AppID),
			)
			return c
		}
		itr.BaseURL = strings.TrimSuffix(apiURL, "/")
		httpClient = &http.Client{Transport: itr}
	}

	githubClient := github.NewClient(httpClient)
	if cred.Token != "" {
		githubClient = githubClient.WithAuthToken(cred.Token)
	}

	if host != model.DefaultHost {
		enterprise, err := githubClient.WithEnterpriseURLs(apiURL, UploadBaseURL(host))
		if err != nil {
			c.initErr = goerr.Wrap(err, "failed to set enterprise endpoints", goerr.V("host", host))
			return c
		}
		githubClient = enterprise
	}
	githubClient.UserAgent = types.UserAgent()

	c.githubClient = githubClient
	return c
}

func (c *client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

// CreateRelease creates a tagged release entry
func (c *client) CreateRelease(ctx context.Context, owner, repo string, release *github.RepositoryRelease) (*github.RepositoryRelease, error) {
	if c.initErr != nil {
		return nil, c.initErr
	}

	ctx, cancel := c.callContext(ctx)
	defer cancel()

	created, _, err := c.githubClient.Repositories.CreateRelease(ctx, owner, repo, release)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create release",
			goerr.V("host", c.host),
			goerr.V("owner", owner),
			goerr.V("repo", repo),
			goerr.V("tag_name", release.GetTagName()),
		)
	}

	return created, nil
}

// UploadAsset streams file to the upload target returned by CreateRelease
func (c *client) UploadAsset(ctx context.Context, uploadURL string, file io.Reader, name, contentType string, size int64) (*github.ReleaseAsset, error) {
	if c.initErr != nil {
		return nil, c.initErr
	}

	target, err := UploadTarget(uploadURL, name)
	if err != nil {
		return nil, err
	}

	ctx, cancel := c.callContext(ctx)
	defer cancel()

	req, err := c.githubClient.NewUploadRequest(target, file, size, contentType)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build upload request", goerr.V("url", target))
	}

	asset := new(github.ReleaseAsset)
	if _, err := c.githubClient.Do(ctx, req, asset); err != nil {
		return nil, goerr.Wrap(err, "failed to upload release asset",
			goerr.V("host", c.host),
			goerr.V("name", name),
			goerr.V("size", size),
		)
	}

	return asset, nil
}

// UploadTarget turns a release upload_url such as
// ".../releases/1/assets{?name,label}" into a concrete URL for name.
func UploadTarget(uploadURL, name string) (string, error) {
	if idx := strings.Index(uploadURL, "{"); idx >= 0 {
		uploadURL = uploadURL[:idx]
	}
	if uploadURL == "" {
		return "", goerr.New("release has no upload URL")
	}

	u, err := url.Parse(uploadURL)
	if err != nil {
		return "", goerr.Wrap(err, "failed to parse upload URL", goerr.V("upload_url", uploadURL))
	}

	q := u.Query()
	q.Set("name", name)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
