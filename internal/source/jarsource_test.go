package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/javelin/internal/jar"
)

// makeJar packs an empty tree with the given manifest attributes.
func makeJar(t *testing.T, attrs map[string]string) string {
	t.Helper()
	manifest := jar.NewManifest()
	for k, v := range attrs {
		manifest.Set(k, v)
	}
	dir := t.TempDir()
	out := filepath.Join(t.TempDir(), "artifact.jar")
	require.NoError(t, jar.Create(out, dir, manifest))
	return out
}

func TestPrepareJar_RecoversMetadata(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	jarFile := makeJar(t, map[string]string{
		jar.AttrMainClass:   "demo.Hello",
		jar.AttrBuildJdk:    "17",
		jar.AttrJavaOptions: "-Xmx1g '-Dmsg=hello world'",
	})

	// --- Act ---
	j, err := PrepareJar(jarFile)

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, "demo.Hello", j.MainClass())
	assert.Equal(t, "17", j.JavaVersion())
	assert.Equal(t, []string{"-Xmx1g", "-Dmsg=hello world"}, j.JavaOptions())
}

func TestPrepareJar_OptionWithSingleQuoteRoundTrips(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// The embedded value is the portable escape of -Dmsg=it's fine, exactly
	// as a build writes it into the metadata.
	jarFile := makeJar(t, map[string]string{
		jar.AttrBuildJdk:    "17",
		jar.AttrJavaOptions: `'-Dmsg=it'\''s fine' -Xmx1g`,
	})

	// --- Act ---
	j, err := PrepareJar(jarFile)

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, []string{"-Dmsg=it's fine", "-Xmx1g"}, j.JavaOptions())
}

func TestPrepareJar_NotAJar(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	path := filepath.Join(t.TempDir(), "garbage.jar")
	require.NoError(t, os.WriteFile(path, []byte("not a zip"), 0o644))

	// --- Act ---
	_, err := PrepareJar(path)

	// --- Assert ---
	require.Error(t, err)
}

func TestIsUpToDate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("no recorded build version is stale", func(t *testing.T) {
		t.Parallel()

		// --- Arrange ---
		j, err := PrepareJar(makeJar(t, map[string]string{jar.AttrMainClass: "demo.Hello"}))
		require.NoError(t, err)

		// --- Act / Assert ---
		assert.False(t, j.IsUpToDate(ctx))
	})

	t.Run("recorded version without classpath is fresh", func(t *testing.T) {
		t.Parallel()

		// --- Arrange ---
		j, err := PrepareJar(makeJar(t, map[string]string{jar.AttrBuildJdk: "11"}))
		require.NoError(t, err)

		// --- Act / Assert ---
		assert.True(t, j.IsUpToDate(ctx))
	})

	t.Run("every classpath entry must still exist", func(t *testing.T) {
		t.Parallel()

		// --- Arrange ---
		present := filepath.Join(t.TempDir(), "dep.jar")
		require.NoError(t, os.WriteFile(present, []byte("x"), 0o644))
		missing := filepath.Join(t.TempDir(), "gone.jar")

		fresh, err := PrepareJar(makeJar(t, map[string]string{
			jar.AttrBuildJdk:  "11",
			jar.AttrClassPath: present,
		}))
		require.NoError(t, err)
		stale, err := PrepareJar(makeJar(t, map[string]string{
			jar.AttrBuildJdk:  "11",
			jar.AttrClassPath: present + " " + missing,
		}))
		require.NoError(t, err)

		// --- Act / Assert ---
		assert.True(t, fresh.IsUpToDate(ctx))
		assert.False(t, stale.IsUpToDate(ctx))
	})
}
