package deps

import (
	"context"
	"path/filepath"
	"strings"
)

// Resolver turns declared coordinates into local artifact files. The concrete
// implementation (remote download, local cache layout) lives outside this
// module; builds only depend on this interface.
type Resolver interface {
	Resolve(ctx context.Context, repos []MavenRepo, coords []string) (*ClassPath, error)
}

// ClassPath is the resolved set of artifacts for one build.
type ClassPath struct {
	artifacts []Artifact
}

// NewClassPath wraps a list of resolved artifacts.
func NewClassPath(artifacts []Artifact) *ClassPath {
	return &ClassPath{artifacts: artifacts}
}

// Artifacts returns the resolved artifacts in declaration order.
func (cp *ClassPath) Artifacts() []Artifact {
	if cp == nil {
		return nil
	}
	return cp.artifacts
}

// String joins the artifact files with the platform's path list separator,
// ready for a -classpath argument.
func (cp *ClassPath) String() string {
	if cp == nil {
		return ""
	}
	files := make([]string, 0, len(cp.artifacts))
	for _, a := range cp.artifacts {
		files = append(files, a.File)
	}
	return strings.Join(files, string(filepath.ListSeparator))
}

// ManifestPath joins the artifact files with single spaces, the form a jar
// manifest's Class-Path attribute expects.
func (cp *ClassPath) ManifestPath() string {
	if cp == nil {
		return ""
	}
	files := make([]string, 0, len(cp.artifacts))
	for _, a := range cp.artifacts {
		files = append(files, filepath.ToSlash(a.File))
	}
	return strings.Join(files, " ")
}
