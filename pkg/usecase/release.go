package usecase

import (
	"context"

	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/ghrelease/pkg/domain/interfaces"
	"github.com/m-mizutani/ghrelease/pkg/domain/model"
	"github.com/m-mizutani/ghrelease/pkg/utils/retry"
)

// changelogPreviewLines bounds the changelog shown in debug logs
const changelogPreviewLines = 10

type releaseCreator struct {
	registry interfaces.ClientRegistry
	executor *retry.Executor
}

// NewReleaseCreator creates a new instance of ReleaseCreator
func NewReleaseCreator(registry interfaces.ClientRegistry, executor *retry.Executor) interfaces.ReleaseCreator {
	return &releaseCreator{
		registry: registry,
		executor: executor,
	}
}

// Create creates the release. A permanent failure or running out of retries
// is returned as *model.ReleaseCreationError.
func (uc *releaseCreator) Create(ctx context.Context, req *model.ReleaseRequest) (*model.ReleaseRecord, error) {
	host := req.EffectiveHost()
	tagName := req.TagName()
	name := req.ReleaseName()

	logger := ctxlog.From(ctx).With(
		"host", host,
		"owner", req.Owner,
		"repo", req.Repo,
		"tag_name", tagName,
	)
	ctx = ctxlog.With(ctx, logger)

	logger.Info("Creating release",
		"name", name,
		"prerelease", req.Prerelease,
		"draft", req.Draft,
	)
	logger.Debug("Release changelog", "body", truncateLines(req.Changelog, changelogPreviewLines))

	client := uc.registry.GetOrCreate(host, req.Credentials)
	created, err := retry.Do(ctx, uc.executor, func(ctx context.Context) (*github.RepositoryRelease, error) {
		return client.CreateRelease(ctx, req.Owner, req.Repo, &github.RepositoryRelease{
			TagName:    github.Ptr(tagName),
			Name:       github.Ptr(name),
			Body:       github.Ptr(req.Changelog),
			Prerelease: github.Ptr(req.Prerelease),
			Draft:      github.Ptr(req.Draft),
		})
	})
	if err != nil {
		reason, permanent := model.DescribeFailure(err)
		return nil, &model.ReleaseCreationError{
			TagName:   tagName,
			Reason:    reason,
			Permanent: permanent,
			Cause:     err,
		}
	}

	record := &model.ReleaseRecord{
		ID:         created.GetID(),
		TagName:    created.GetTagName(),
		Name:       created.GetName(),
		HTMLURL:    created.GetHTMLURL(),
		UploadURL:  created.GetUploadURL(),
		Draft:      created.GetDraft(),
		Prerelease: created.GetPrerelease(),
		CreatedAt:  created.GetCreatedAt().Time,
		Host:       host,
	}

	logger.Info("Created release",
		"id", record.ID,
		"url", record.HTMLURL,
	)

	return record, nil
}
