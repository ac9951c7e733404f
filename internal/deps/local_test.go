package deps

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedArtifact places an empty artifact file at its repository layout path.
func seedArtifact(t *testing.T, repoDir, group, artifact, version string) string {
	t.Helper()
	dir := filepath.Join(repoDir, filepath.FromSlash(strings.ReplaceAll(group, ".", "/")), artifact, version)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	file := filepath.Join(dir, artifact+"-"+version+".jar")
	require.NoError(t, os.WriteFile(file, []byte("jar"), 0o644))
	return file
}

func TestLocalResolver_Resolve(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	repoDir := t.TempDir()
	libFile := seedArtifact(t, repoDir, "org.example", "lib", "1.0")
	otherFile := seedArtifact(t, repoDir, "com.acme", "other", "2.1")
	r := &LocalResolver{RepoDir: repoDir}

	// --- Act ---
	cp, err := r.Resolve(context.Background(), nil, []string{"org.example:lib:1.0", "com.acme:other:2.1"})

	// --- Assert ---
	require.NoError(t, err)
	artifacts := cp.Artifacts()
	require.Len(t, artifacts, 2)
	assert.Equal(t, libFile, artifacts[0].File)
	assert.Equal(t, otherFile, artifacts[1].File)
	assert.Equal(t, libFile+string(filepath.ListSeparator)+otherFile, cp.String())
	assert.Equal(t, filepath.ToSlash(libFile)+" "+filepath.ToSlash(otherFile), cp.ManifestPath())
}

func TestLocalResolver_MissingArtifact(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	r := &LocalResolver{RepoDir: t.TempDir()}

	// --- Act ---
	_, err := r.Resolve(context.Background(), nil, []string{"org.example:absent:9.9"})

	// --- Assert ---
	require.Error(t, err)
	assert.Contains(t, err.Error(), "org.example:absent:9.9")
}

func TestClassPath_NilIsEmpty(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	var cp *ClassPath

	// --- Act / Assert ---
	assert.Empty(t, cp.String())
	assert.Empty(t, cp.ManifestPath())
	assert.Nil(t, cp.Artifacts())
}
