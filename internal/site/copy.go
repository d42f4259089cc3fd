package site

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// copyDirContents recursively copies the files under src on from into dst on
// to. skip is called with each path relative to src; skipped directories are
// not descended into.
func copyDirContents(from afero.Fs, src string, to afero.Fs, dst string, skip func(rel string, info os.FileInfo) bool) (int, error) {
	copied := 0
	err := afero.Walk(from, src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return fmt.Errorf("failed to get relative path for %s: %w", path, err)
		}
		if rel != "." && skip != nil && skip(rel, info) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() {
			return nil
		}
		if err := copyFile(from, path, to, filepath.Join(dst, rel)); err != nil {
			return fmt.Errorf("failed to copy file from %s: %w", path, err)
		}
		copied++
		return nil
	})
	return copied, err
}

// copyFile copies a single file, creating the destination directory and
// keeping the source permissions.
func copyFile(from afero.Fs, srcFile string, to afero.Fs, dstFile string) error {
	srcF, err := from.Open(srcFile)
	if err != nil {
		return fmt.Errorf("failed to open source file %s: %w", srcFile, err)
	}
	defer srcF.Close()

	info, err := srcF.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat source file %s: %w", srcFile, err)
	}

	if err := to.MkdirAll(filepath.Dir(dstFile), 0o755); err != nil {
		return fmt.Errorf("failed to create destination directory %s: %w", filepath.Dir(dstFile), err)
	}
	dstF, err := to.OpenFile(dstFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("failed to create destination file %s: %w", dstFile, err)
	}
	defer dstF.Close()

	if _, err := io.Copy(dstF, srcF); err != nil {
		return fmt.Errorf("failed to copy data to %s: %w", dstFile, err)
	}
	return nil
}
