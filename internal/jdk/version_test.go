package jdk

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckRequestedVersion(t *testing.T) {
	t.Parallel()

	assert.True(t, CheckRequestedVersion("17"))
	assert.True(t, CheckRequestedVersion("8+"))
	assert.False(t, CheckRequestedVersion("17.0.1"))
	assert.False(t, CheckRequestedVersion("+17"))
	assert.False(t, CheckRequestedVersion("latest"))
	assert.False(t, CheckRequestedVersion(""))
}

func TestMinRequestedVersion(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		in   string
		want int
	}{
		{"17", 17},
		{"17+", 17},
		{"17.0.1", 17},
		{"1.8", 8},
		{"1.8.0_302", 8},
		{"bogus", 0},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, MinRequestedVersion(tc.in))
		})
	}
}

func TestCompareRequested(t *testing.T) {
	t.Parallel()

	// --- Act / Assert ---
	assert.Positive(t, CompareRequested("17", "11"))
	assert.Negative(t, CompareRequested("11+", "17"))
	assert.Zero(t, CompareRequested("17+", "17+"))
	// On a numeric tie the concrete requirement is the stronger constraint.
	assert.Positive(t, CompareRequested("17", "17+"))
	assert.Negative(t, CompareRequested("17+", "17"))
}

func TestSatisfies(t *testing.T) {
	t.Parallel()

	assert.True(t, Satisfies(17, "11+"))
	assert.True(t, Satisfies(11, "11+"))
	assert.False(t, Satisfies(8, "11+"))
	assert.True(t, Satisfies(11, "11"))
	assert.False(t, Satisfies(17, "11"))
}

func TestDetermineJavaVersion_FromReleaseFile(t *testing.T) {
	// Not parallel: mutates the process environment.

	// --- Arrange ---
	home := t.TempDir()
	release := "IMPLEMENTOR=\"Eclipse Adoptium\"\nJAVA_VERSION=\"17.0.1\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(home, "release"), []byte(release), 0o644))
	t.Setenv("JAVA_HOME", home)

	// --- Act / Assert ---
	assert.Equal(t, 17, DetermineJavaVersion())
	assert.Equal(t, 17, JavaVersion(""), "an empty requirement falls back to the current JDK")
	assert.Equal(t, 11, JavaVersion("11+"))
}

func TestDetermineJavaVersion_NoHome(t *testing.T) {
	// Not parallel: mutates the process environment.

	// --- Arrange ---
	t.Setenv("JAVA_HOME", "")

	// --- Act / Assert ---
	assert.Zero(t, DetermineJavaVersion())
}
