package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/ghrelease/pkg/domain/interfaces"
	"github.com/m-mizutani/ghrelease/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

type publishUseCase struct {
	creator      interfaces.ReleaseCreator
	orchestrator interfaces.UploadOrchestrator
}

// NewPublish creates a new instance of PublishUseCase
func NewPublish(creator interfaces.ReleaseCreator, orchestrator interfaces.UploadOrchestrator) interfaces.PublishUseCase {
	return &publishUseCase{
		creator:      creator,
		orchestrator: orchestrator,
	}
}

// Publish creates the release, then uploads the assets matching pattern.
// Uploads never start unless the release was created.
func (uc *publishUseCase) Publish(ctx context.Context, req *model.ReleaseRequest, pattern string) (*model.PublishResult, error) {
	runID := uuid.NewString()
	logger := ctxlog.From(ctx).With("run_id", runID)
	ctx = ctxlog.With(ctx, logger)

	repo := req.Repository()
	logger.Info("Publishing release",
		"repository", repo.FullName(),
		"host", repo.Host,
		"version", req.Version,
	)

	release, err := uc.creator.Create(ctx, req)
	if err != nil {
		return nil, goerr.Wrap(err, "release creation failed",
			goerr.V("run_id", runID),
			goerr.V("owner", req.Owner),
			goerr.V("repo", req.Repo),
			goerr.V("version", req.Version),
		)
	}

	uploaded, err := uc.orchestrator.UploadAll(ctx, release, pattern)
	if err != nil {
		return nil, goerr.Wrap(err, "asset upload failed",
			goerr.V("run_id", runID),
			goerr.V("release_id", release.ID),
			goerr.V("release_url", release.HTMLURL),
		)
	}

	logger.Info("Published release",
		"url", release.HTMLURL,
		"asset_count", len(uploaded),
	)

	return &model.PublishResult{
		RunID:   runID,
		Release: release,
		Assets:  uploaded,
	}, nil
}
