package assets

import (
	"mime"
	"path/filepath"
	"strings"
)

// DefaultContentType is used when the extension is unknown
const DefaultContentType = "application/octet-stream"

// knownTypes covers the usual release artifacts, which the system MIME table
// often lacks or gets wrong. Compound suffixes are checked first.
var knownTypes = []struct {
	suffix      string
	contentType string
}{
	{".tar.gz", "application/gzip"},
	{".tar.xz", "application/x-xz"},
	{".tar.bz2", "application/x-bzip2"},
	{".tar.zst", "application/zstd"},
	{".tgz", "application/gzip"},
	{".gz", "application/gzip"},
	{".xz", "application/x-xz"},
	{".bz2", "application/x-bzip2"},
	{".zst", "application/zstd"},
	{".zip", "application/zip"},
	{".tar", "application/x-tar"},
	{".deb", "application/vnd.debian.binary-package"},
	{".rpm", "application/x-rpm"},
	{".apk", "application/vnd.android.package-archive"},
	{".dmg", "application/x-apple-diskimage"},
	{".pkg", "application/octet-stream"},
	{".msi", "application/x-msi"},
	{".exe", "application/vnd.microsoft.portable-executable"},
	{".sig", "application/pgp-signature"},
	{".asc", "application/pgp-signature"},
	{".sha256", "text/plain; charset=utf-8"},
	{".txt", "text/plain; charset=utf-8"},
	{".json", "application/json"},
	{".yaml", "application/yaml"},
	{".yml", "application/yaml"},
}

// ContentType infers the content type of name from its extension
func ContentType(name string) string {
	lower := strings.ToLower(filepath.Base(name))
	for _, k := range knownTypes {
		if strings.HasSuffix(lower, k.suffix) {
			return k.contentType
		}
	}

	if ext := filepath.Ext(lower); ext != "" {
		if t := mime.TypeByExtension(ext); t != "" {
			return t
		}
	}
	return DefaultContentType
}
