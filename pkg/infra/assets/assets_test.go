package assets_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/ghrelease/pkg/infra/assets"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	gt.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	gt.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.zip"), "b")
	writeFile(t, filepath.Join(dir, "a.zip"), "a")
	writeFile(t, filepath.Join(dir, "notes.txt"), "n")
	writeFile(t, filepath.Join(dir, "nested", "c.zip"), "c")
	gt.NoError(t, os.MkdirAll(filepath.Join(dir, "dir.zip"), 0755))

	t.Run("single level", func(t *testing.T) {
		files, err := assets.Resolve(filepath.Join(dir, "*.zip"))
		gt.NoError(t, err)
		gt.Equal(t, files, []string{
			filepath.Join(dir, "a.zip"),
			filepath.Join(dir, "b.zip"),
		})
	})

	t.Run("double star", func(t *testing.T) {
		files, err := assets.Resolve(filepath.Join(dir, "**", "*.zip"))
		gt.NoError(t, err)
		gt.Array(t, files).Length(3)
	})

	t.Run("no match", func(t *testing.T) {
		files, err := assets.Resolve(filepath.Join(dir, "*.dmg"))
		gt.NoError(t, err)
		gt.Array(t, files).Length(0)
	})

	t.Run("bad pattern", func(t *testing.T) {
		_, err := assets.Resolve(filepath.Join(dir, "[.zip"))
		gt.Error(t, err)
	})
}

func TestContentType(t *testing.T) {
	tests := map[string]string{
		"tool_linux_amd64.tar.gz": "application/gzip",
		"tool.ZIP":                "application/zip",
		"checksums.txt":           "text/plain; charset=utf-8",
		"tool.deb":                "application/vnd.debian.binary-package",
		"page.html":               "text/html; charset=utf-8",
		"tool":                    assets.DefaultContentType,
		"tool.unknownext":         assets.DefaultContentType,
	}

	for name, expected := range tests {
		t.Run(name, func(t *testing.T) {
			gt.Equal(t, assets.ContentType(name), expected)
		})
	}
}
