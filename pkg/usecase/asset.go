package usecase

import (
	"context"
	"os"
	"path/filepath"

	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/ghrelease/pkg/domain/interfaces"
	"github.com/m-mizutani/ghrelease/pkg/domain/model"
	"github.com/m-mizutani/ghrelease/pkg/infra/assets"
	"github.com/m-mizutani/ghrelease/pkg/utils/retry"
	"github.com/m-mizutani/goerr/v2"
)

type assetUploader struct {
	registry    interfaces.ClientRegistry
	executor    *retry.Executor
	credentials model.Credentials
}

// NewAssetUploader creates a new instance of AssetUploader. credentials are
// only used if no client exists yet for the release host.
func NewAssetUploader(registry interfaces.ClientRegistry, executor *retry.Executor, credentials model.Credentials) interfaces.AssetUploader {
	return &assetUploader{
		registry:    registry,
		executor:    executor,
		credentials: credentials,
	}
}

// Upload uploads one file to the release in req. Each attempt measures and
// opens the file again, so a file replaced between attempts is sent as it is
// at that moment.
func (uc *assetUploader) Upload(ctx context.Context, req *model.AssetUploadRequest) (*model.UploadedAsset, error) {
	if req.Name == "" {
		req.Name = filepath.Base(req.Path)
	}
	if req.ContentType == "" {
		req.ContentType = assets.ContentType(req.Name)
	}

	logger := ctxlog.From(ctx).With(
		"asset", req.Name,
		"path", req.Path,
	)
	ctx = ctxlog.With(ctx, logger)

	client := uc.registry.GetOrCreate(req.Release.Host, uc.credentials)
	uploaded, err := retry.Do(ctx, uc.executor, func(ctx context.Context) (*github.ReleaseAsset, error) {
		return uc.uploadOnce(ctx, client, req)
	})
	if err != nil {
		reason, permanent := model.DescribeFailure(err)
		return nil, &model.AssetUploadError{
			Path:      req.Path,
			Name:      req.Name,
			Reason:    reason,
			Permanent: permanent,
			Cause:     err,
		}
	}

	asset := &model.UploadedAsset{
		ID:          uploaded.GetID(),
		Name:        req.Name,
		Path:        req.Path,
		ContentType: req.ContentType,
		Size:        req.Size,
		DownloadURL: uploaded.GetBrowserDownloadURL(),
	}

	logger.Info("Uploaded asset",
		"id", asset.ID,
		"size_bytes", asset.Size,
		"content_type", asset.ContentType,
	)

	return asset, nil
}

func (uc *assetUploader) uploadOnce(ctx context.Context, client interfaces.ReleaseClient, req *model.AssetUploadRequest) (*github.ReleaseAsset, error) {
	info, err := os.Stat(req.Path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to stat asset", goerr.V("path", req.Path))
	}
	req.Size = info.Size()

	f, err := os.Open(req.Path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open asset", goerr.V("path", req.Path))
	}
	defer f.Close()

	ctxlog.From(ctx).Debug("Uploading asset",
		"size_bytes", req.Size,
		"content_type", req.ContentType,
	)

	return client.UploadAsset(ctx, req.Release.UploadURL, f, req.Name, req.ContentType, req.Size)
}
