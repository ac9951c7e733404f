// Package fsutil provides file system utility functions.
package fsutil

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FindFilesByExtension recursively searches the given root path for all files ending
// with the specified extension. It returns a slice of their full paths.
func FindFilesByExtension(rootPath string, extension string) ([]string, error) {
	if extension == "" {
		panic("extension must not be empty")
	}

	var files []string
	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), extension) {
			files = append(files, path)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	return files, nil
}

// Explode expands a reference that may contain glob characters into the list
// of matching paths relative to baseDir. A reference without glob characters,
// or one naming a remote location, is returned as-is so that resolution
// errors surface where the reference is actually used.
func Explode(baseDir string, ref string) ([]string, error) {
	if !strings.ContainsAny(ref, "*?[") {
		return []string{ref}, nil
	}

	matches, err := filepath.Glob(filepath.Join(baseDir, ref))
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", ref, err)
	}

	// Globs stay relative to baseDir so the caller can resolve them the same
	// way as plain references.
	refs := make([]string, 0, len(matches))
	for _, m := range matches {
		rel, err := filepath.Rel(baseDir, m)
		if err != nil {
			rel = m
		}
		refs = append(refs, filepath.ToSlash(rel))
	}
	return refs, nil
}

// ResetDir removes dir and everything beneath it, then recreates it empty.
func ResetDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to clear directory %s: %w", dir, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// CopyFile copies a single regular file, creating the destination's parent
// directories as needed. Copying over an identical existing file is allowed.
func CopyFile(src, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", dest, err)
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dest, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("failed to copy %s to %s: %w", src, dest, err)
	}
	return out.Close()
}
