package model

// AssetUploadRequest describes one file to attach to a release. Retries of the
// same upload reuse the request; size and content are read again per attempt.
type AssetUploadRequest struct {
	Release     *ReleaseRecord
	Path        string // Local file path
	Name        string // Asset name, the base name of Path
	ContentType string
	Size        int64 // Size observed by the latest attempt
}

// UploadedAsset is the result of one successful asset upload
type UploadedAsset struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Path        string `json:"path"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	DownloadURL string `json:"browser_download_url"`
}

// PublishResult is what a successful pipeline run reports
type PublishResult struct {
	RunID   string           `json:"run_id"`
	Release *ReleaseRecord   `json:"release"`
	Assets  []*UploadedAsset `json:"assets"`
}
