// Package source models runnable sources: the directives embedded in their
// text, the graph of sibling sources they include, and the dialect-specific
// knowledge needed to compile them.
package source

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/javelin/internal/ctxlog"
)

// StdinMarker is the reference string selecting standard input.
const StdinMarker = "-"

// ResourceRef is the identity of one source location: the reference as the
// user wrote it plus the local file it resolved to. Two refs are equal iff
// they resolve to the same location; the source graph dedups on that.
type ResourceRef struct {
	// Original is the reference string as given: a path, a URL, or the
	// stdin marker. Empty for literal in-memory sources.
	Original string

	// File is the resolved local file backing the resource.
	File string
}

// FileRef creates a ref for a plain local file.
func FileRef(path string) ResourceRef {
	return ResourceRef{Original: path, File: path}
}

// IsStdin reports whether the ref denotes standard input.
func (r ResourceRef) IsStdin() bool {
	return r.Original == StdinMarker
}

// IsURL reports whether the ref's original reference is a remote URL.
func (r ResourceRef) IsURL() bool {
	return isURL(r.Original)
}

// Key returns the dedup key for graph membership.
func (r ResourceRef) Key() string {
	if r.File != "" {
		return filepath.Clean(r.File)
	}
	return r.Original
}

func isURL(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

// Loader resolves reference strings into backed ResourceRefs, fetching
// remote URLs into the cache, and constructs the dialect-appropriate Source
// for them.
type Loader struct {
	// URLCache is the directory remote sources are fetched into.
	URLCache string

	// Client is used for URL fetches. Defaults to http.DefaultClient.
	Client *http.Client

	// Replace substitutes ${property} references in directive payloads.
	// Nil means identity.
	Replace func(string) string

	// Stdin overrides os.Stdin for the stdin marker. Used by tests.
	Stdin io.Reader
}

// Resolve turns a reference string into a backed ResourceRef.
func (l *Loader) Resolve(ctx context.Context, resource string) (ResourceRef, error) {
	switch {
	case resource == StdinMarker:
		file, err := l.stashStdin()
		if err != nil {
			return ResourceRef{}, err
		}
		return ResourceRef{Original: StdinMarker, File: file}, nil
	case isURL(resource):
		file, err := l.fetchURL(ctx, resource)
		if err != nil {
			return ResourceRef{}, err
		}
		return ResourceRef{Original: resource, File: file}, nil
	default:
		abs, err := filepath.Abs(resource)
		if err != nil {
			return ResourceRef{}, fmt.Errorf("failed to resolve path %q: %w", resource, err)
		}
		if _, err := os.Stat(abs); err != nil {
			return ResourceRef{}, fmt.Errorf("source %q not found: %w", resource, err)
		}
		return ResourceRef{Original: resource, File: abs}, nil
	}
}

// Sibling resolves a reference relative to base's original location: URL
// references resolve against the base URL, paths against the base file's
// directory.
func (l *Loader) Sibling(ctx context.Context, base ResourceRef, resource string) (ResourceRef, error) {
	if base.IsURL() {
		baseURL, err := url.Parse(base.Original)
		if err != nil {
			return ResourceRef{}, fmt.Errorf("invalid base URL %q: %w", base.Original, err)
		}
		rel, err := url.Parse(resource)
		if err != nil {
			return ResourceRef{}, fmt.Errorf("invalid sibling reference %q: %w", resource, err)
		}
		return l.Resolve(ctx, baseURL.ResolveReference(rel).String())
	}

	if filepath.IsAbs(resource) || base.File == "" {
		return l.Resolve(ctx, resource)
	}
	return l.Resolve(ctx, filepath.Join(filepath.Dir(base.File), resource))
}

// fetchURL downloads a remote source into the URL cache, keyed by a content
// hash of the URL so repeated fetches of the same reference share a file.
func (l *Loader) fetchURL(ctx context.Context, rawURL string) (string, error) {
	logger := ctxlog.FromContext(ctx)

	sum := sha256.Sum256([]byte(rawURL))
	name := filepath.Base(rawURL)
	if name == "" || name == "." || name == "/" {
		name = "source.java"
	}
	dir := filepath.Join(l.URLCache, hex.EncodeToString(sum[:8]))
	file := filepath.Join(dir, name)
	if _, err := os.Stat(file); err == nil {
		logger.Debug("Using cached copy of remote source.", "url", rawURL, "file", file)
		return file, nil
	}

	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %s fetching %s", resp.Status, rawURL)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	out, err := os.Create(file)
	if err != nil {
		return "", err
	}
	defer out.Close()
	if _, err := io.Copy(out, resp.Body); err != nil {
		os.Remove(file)
		return "", fmt.Errorf("failed to fetch %s: %w", rawURL, err)
	}
	logger.Debug("Fetched remote source.", "url", rawURL, "file", file)
	return file, out.Close()
}

// stashStdin reads standard input into a cache file so the rest of the
// pipeline only ever deals with files.
func (l *Loader) stashStdin() (string, error) {
	in := l.Stdin
	if in == nil {
		in = os.Stdin
	}
	content, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}

	sum := sha256.Sum256(content)
	dir := filepath.Join(l.URLCache, "stdin")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	file := filepath.Join(dir, hex.EncodeToString(sum[:8])+".java")
	if err := os.WriteFile(file, content, 0o644); err != nil {
		return "", err
	}
	return file, nil
}
