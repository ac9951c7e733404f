package jdk

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeZipArchive(t *testing.T, entries map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "jdk.zip")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, content := range entries {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return path
}

func makeTarGzArchive(t *testing.T, entries map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "jdk.tar.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	gz := gzip.NewWriter(f)
	tw := tar.NewWriter(gz)
	for name, content := range entries {
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name: name,
			Mode: 0o755,
			Size: int64(len(content)),
		}))
		_, err = tw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	return path
}

func TestUnpack_ZipStripsTopLevelDir(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	archive := makeZipArchive(t, map[string]string{
		"jdk-17.0.1+12/release":  "JAVA_VERSION=\"17.0.1\"\n",
		"jdk-17.0.1+12/bin/java": "#!/bin/sh\n",
	})
	dest := filepath.Join(t.TempDir(), "17")

	// --- Act ---
	err := unpack(archive, dest)

	// --- Assert ---
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dest, "release"))
	assert.FileExists(t, filepath.Join(dest, "bin", "java"))
}

func TestUnpack_TarGzStripsTopLevelDir(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	archive := makeTarGzArchive(t, map[string]string{
		"jdk-17.0.1+12/release":  "JAVA_VERSION=\"17.0.1\"\n",
		"jdk-17.0.1+12/bin/java": "#!/bin/sh\n",
	})
	dest := filepath.Join(t.TempDir(), "17")

	// --- Act ---
	err := unpack(archive, dest)

	// --- Assert ---
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dest, "release"))
	assert.FileExists(t, filepath.Join(dest, "bin", "java"))
}

func TestUnpack_RejectsPathEscape(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	base := t.TempDir()
	archive := makeZipArchive(t, map[string]string{
		"jdk/../../escaped.txt": "nope",
		"jdk/release":           "ok",
	})
	dest := filepath.Join(base, "unpacked", "17")
	require.NoError(t, os.MkdirAll(filepath.Dir(dest), 0o755))

	// --- Act ---
	err := unpack(archive, dest)

	// --- Assert ---
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dest, "release"))
	assert.NoFileExists(t, filepath.Join(base, "escaped.txt"))
	assert.NoFileExists(t, filepath.Join(base, "unpacked", "escaped.txt"))
}
