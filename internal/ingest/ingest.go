package ingest

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// File is one image ready to stage.
type File struct {
	Name string
	Path string
}

// CollectDir walks dir and returns every image file beneath it in lexical
// order. Unreadable entries are logged and skipped; hidden directories are
// not descended into.
func CollectDir(dir string) ([]File, error) {
	var files []File
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			slog.Warn("Skipping unreadable entry", "path", p, "error", err)
			return nil
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && p != dir {
				return fs.SkipDir
			}
			return nil
		}
		if isImageFile(p) {
			files = append(files, File{Name: d.Name(), Path: p})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", dir, err)
	}
	return files, nil
}

// FromPaths resolves explicit arguments: image files are taken as-is and
// directories are collected recursively.
func FromPaths(paths []string) ([]File, error) {
	files := make([]File, 0, len(paths))
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", p, err)
		}
		if info.IsDir() {
			inDir, err := CollectDir(p)
			if err != nil {
				return nil, err
			}
			files = append(files, inDir...)
			continue
		}
		if !isImageFile(p) {
			return nil, fmt.Errorf("%s is not a supported image type", p)
		}
		files = append(files, File{Name: filepath.Base(p), Path: p})
	}
	return files, nil
}

// isImageFile checks for common image file extensions.
func isImageFile(p string) bool {
	switch strings.ToLower(filepath.Ext(p)) {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
		return true
	}
	return false
}
