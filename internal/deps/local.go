package deps

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/javelin/internal/ctxlog"
)

// LocalResolver resolves coordinates against an already populated local
// Maven repository layout. It performs no downloads; remote resolution is a
// separate collaborator plugged in behind the Resolver interface.
type LocalResolver struct {
	// RepoDir is the repository root, typically ~/.m2/repository.
	RepoDir string
}

// NewLocalResolver creates a resolver over the default local repository.
func NewLocalResolver() (*LocalResolver, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to determine home directory: %w", err)
	}
	return &LocalResolver{RepoDir: filepath.Join(home, ".m2", "repository")}, nil
}

// Resolve maps every coordinate to its local repository file. A coordinate
// whose artifact is not present locally fails the resolution; repositories
// are accepted but unused since nothing is fetched.
func (r *LocalResolver) Resolve(ctx context.Context, repos []MavenRepo, coords []string) (*ClassPath, error) {
	logger := ctxlog.FromContext(ctx)
	if len(coords) > 0 && len(repos) > 0 {
		logger.Debug("Local resolution ignores declared repositories.", "repositories", len(repos))
	}

	artifacts := make([]Artifact, 0, len(coords))
	for _, ref := range coords {
		coord, err := Parse(ref)
		if err != nil {
			return nil, err
		}
		file := r.artifactPath(coord)
		if _, err := os.Stat(file); err != nil {
			return nil, fmt.Errorf("artifact %s not present in local repository (%s)", ref, file)
		}
		artifacts = append(artifacts, Artifact{Coord: ref, File: file})
	}
	return NewClassPath(artifacts), nil
}

// artifactPath is the standard repository layout path for a coordinate.
func (r *LocalResolver) artifactPath(c Coordinate) string {
	name := c.ArtifactID + "-" + c.Version
	if c.Classifier != "" {
		name += "-" + c.Classifier
	}
	ext := c.Type
	if ext == "" {
		ext = "jar"
	}
	return filepath.Join(r.RepoDir,
		filepath.FromSlash(strings.ReplaceAll(c.GroupID, ".", "/")),
		c.ArtifactID, c.Version, name+"."+ext)
}
