package github

import (
	"strings"

	"github.com/m-mizutani/ghrelease/pkg/domain/model"
)

const (
	publicAPIURL    = "https://api.github.com/"
	publicUploadURL = "https://uploads.github.com/"
)

// APIBaseURL returns the REST endpoint for host. The public host maps to the
// canonical API endpoint, any other host to the enterprise "/api/v3/" path.
// A host may carry an explicit scheme such as "http://127.0.0.1:8080".
func APIBaseURL(host string) string {
	if host == model.DefaultHost {
		return publicAPIURL
	}
	return hostRoot(host) + "api/v3/"
}

// UploadBaseURL returns the asset upload endpoint for host
func UploadBaseURL(host string) string {
	if host == model.DefaultHost {
		return publicUploadURL
	}
	return hostRoot(host) + "api/uploads/"
}

func hostRoot(host string) string {
	root := host
	if !strings.Contains(root, "://") {
		root = "https://" + root
	}
	return strings.TrimSuffix(root, "/") + "/"
}
