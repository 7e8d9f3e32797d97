package interfaces

import (
	"context"

	"github.com/m-mizutani/ghrelease/pkg/domain/model"
)

// ReleaseCreator creates the release entry
type ReleaseCreator interface {
	// Create creates the release described by req, retrying transient failures
	Create(ctx context.Context, req *model.ReleaseRequest) (*model.ReleaseRecord, error)
}

// AssetUploader uploads one asset to an existing release
type AssetUploader interface {
	// Upload uploads a single file, retrying transient failures
	Upload(ctx context.Context, req *model.AssetUploadRequest) (*model.UploadedAsset, error)
}

// UploadOrchestrator uploads every file matching a glob pattern
type UploadOrchestrator interface {
	// UploadAll resolves pattern and uploads all matches concurrently
	UploadAll(ctx context.Context, release *model.ReleaseRecord, pattern string) ([]*model.UploadedAsset, error)
}

// PublishUseCase runs the whole create-then-upload sequence
type PublishUseCase interface {
	// Publish creates the release and uploads assets matching pattern
	Publish(ctx context.Context, req *model.ReleaseRequest, pattern string) (*model.PublishResult, error)
}
