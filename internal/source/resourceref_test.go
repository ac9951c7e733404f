package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_LocalFile(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	dir := t.TempDir()
	path := writeScript(t, dir, "Hello.java", "class Hello {}\n")
	l := &Loader{}

	// --- Act ---
	ref, err := l.Resolve(context.Background(), path)

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, path, ref.File)
	assert.False(t, ref.IsStdin())
	assert.False(t, ref.IsURL())
}

func TestResolve_MissingFile(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	l := &Loader{}

	// --- Act ---
	_, err := l.Resolve(context.Background(), filepath.Join(t.TempDir(), "Nope.java"))

	// --- Assert ---
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestResolve_URLFetchedAndCached(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte("class Remote {}\n"))
	}))
	defer server.Close()
	l := &Loader{URLCache: t.TempDir(), Client: server.Client()}
	url := server.URL + "/Remote.java"

	// --- Act ---
	first, err := l.Resolve(context.Background(), url)
	require.NoError(t, err)
	second, err := l.Resolve(context.Background(), url)

	// --- Assert ---
	require.NoError(t, err)
	assert.True(t, first.IsURL())
	assert.Equal(t, first.File, second.File)
	assert.Equal(t, 1, hits, "the second resolve must come from the cache")

	content, readErr := os.ReadFile(first.File)
	require.NoError(t, readErr)
	assert.Equal(t, "class Remote {}\n", string(content))
}

func TestResolve_URLErrorStatus(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()
	l := &Loader{URLCache: t.TempDir(), Client: server.Client()}

	// --- Act ---
	_, err := l.Resolve(context.Background(), server.URL+"/Gone.java")

	// --- Assert ---
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestSibling_RelativePath(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	dir := t.TempDir()
	base := FileRef(writeScript(t, dir, "Main.java", "class Main {}\n"))
	writeScript(t, dir, "Helper.java", "class Helper {}\n")
	l := &Loader{}

	// --- Act ---
	ref, err := l.Sibling(context.Background(), base, "Helper.java")

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Helper.java"), ref.File)
}

func TestSibling_URLResolvesAgainstBase(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/pkg/Helper.java" {
			w.Write([]byte("class Helper {}\n"))
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()
	l := &Loader{URLCache: t.TempDir(), Client: server.Client()}
	base := ResourceRef{Original: server.URL + "/pkg/Main.java", File: "ignored"}

	// --- Act ---
	ref, err := l.Sibling(context.Background(), base, "Helper.java")

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, server.URL+"/pkg/Helper.java", ref.Original)
}

func TestRefKey_DedupsOnResolvedLocation(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	a := ResourceRef{Original: "x/../Hello.java", File: "/tmp/pkg/../Hello.java"}
	b := ResourceRef{Original: "Hello.java", File: "/tmp/Hello.java"}

	// --- Act / Assert ---
	assert.Equal(t, a.Key(), b.Key())
}
