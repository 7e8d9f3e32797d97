package usecase

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/ghrelease/pkg/domain/interfaces"
	"github.com/m-mizutani/ghrelease/pkg/domain/model"
	"github.com/m-mizutani/ghrelease/pkg/infra/assets"
	"github.com/m-mizutani/ghrelease/pkg/utils/async"
	"github.com/m-mizutani/goerr/v2"
)

// Resolver expands an asset pattern to file paths
type Resolver func(pattern string) ([]string, error)

// uploadConfig holds internal orchestrator configuration
type uploadConfig struct {
	concurrency int
	resolve     Resolver
}

// UploadOption is a functional option for the upload orchestrator
type UploadOption func(*uploadConfig)

// WithConcurrency bounds the number of uploads in flight. Zero means all files at once.
func WithConcurrency(n int) UploadOption {
	return func(c *uploadConfig) {
		c.concurrency = n
	}
}

// WithResolver replaces the filesystem glob resolver
func WithResolver(resolve Resolver) UploadOption {
	return func(c *uploadConfig) {
		c.resolve = resolve
	}
}

type uploadOrchestrator struct {
	uploader    interfaces.AssetUploader
	concurrency int
	resolve     Resolver
}

// NewUploadOrchestrator creates a new instance of UploadOrchestrator
func NewUploadOrchestrator(uploader interfaces.AssetUploader, opts ...UploadOption) interfaces.UploadOrchestrator {
	cfg := &uploadConfig{
		resolve: assets.Resolve,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return &uploadOrchestrator{
		uploader:    uploader,
		concurrency: cfg.concurrency,
		resolve:     cfg.resolve,
	}
}

// UploadAll uploads every file matching pattern to release. An empty pattern
// or a pattern without matches succeeds with no assets. All uploads run to
// completion even when some fail; the failures are reported together as
// *model.AggregateUploadError ordered by path.
func (uc *uploadOrchestrator) UploadAll(ctx context.Context, release *model.ReleaseRecord, pattern string) ([]*model.UploadedAsset, error) {
	logger := ctxlog.From(ctx)

	if pattern == "" {
		logger.Debug("No asset pattern configured, skipping uploads")
		return []*model.UploadedAsset{}, nil
	}

	files, err := uc.resolve(pattern)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to resolve assets", goerr.V("pattern", pattern))
	}
	if len(files) == 0 {
		logger.Warn("No files matched asset pattern", "pattern", pattern)
		return []*model.UploadedAsset{}, nil
	}

	logger.Info("Uploading assets",
		"pattern", pattern,
		"file_count", len(files),
		"concurrency", uc.concurrency,
	)

	results := make([]*model.UploadedAsset, len(files))
	tasks := make([]async.Task, len(files))
	for i, path := range files {
		tasks[i] = func(ctx context.Context) error {
			asset, err := uc.uploader.Upload(ctx, &model.AssetUploadRequest{
				Release: release,
				Path:    path,
			})
			if err != nil {
				return err
			}
			results[i] = asset
			return nil
		}
	}

	errs := async.RunAll(ctx, uc.concurrency, tasks)

	var failures []*model.AssetUploadError
	for i, err := range errs {
		if err == nil {
			continue
		}
		var uploadErr *model.AssetUploadError
		if !errors.As(err, &uploadErr) {
			uploadErr = &model.AssetUploadError{
				Path:   files[i],
				Name:   filepath.Base(files[i]),
				Reason: err.Error(),
				Cause:  err,
			}
		}
		failures = append(failures, uploadErr)
	}

	if len(failures) > 0 {
		aggregate := &model.AggregateUploadError{
			Total:    len(files),
			Failures: failures,
		}
		logger.Error("Asset uploads failed",
			"failed", aggregate.FailedNames(),
			"failed_count", len(failures),
			"file_count", len(files),
		)
		return nil, aggregate
	}

	return results, nil
}
