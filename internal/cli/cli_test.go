package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_AllFlags(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	args := []string{
		"--fresh",
		"--native",
		"--main", "demo.Hello",
		"--java", "17+",
		"--log-format", "json",
		"--log-level", "debug",
		"Hello.java",
	}
	out := &bytes.Buffer{}

	// --- Act ---
	config, shouldExit, err := Parse(args, out)

	// --- Assert ---
	require.NoError(t, err)
	assert.False(t, shouldExit)
	require.NotNil(t, config)
	assert.Equal(t, "Hello.java", config.ScriptPath)
	assert.True(t, config.Fresh)
	assert.True(t, config.Native)
	assert.Equal(t, "demo.Hello", config.MainClass)
	assert.Equal(t, "17+", config.JavaVersion)
	assert.Equal(t, "json", config.LogFormat)
	assert.Equal(t, "debug", config.LogLevel)
}

func TestParse_Defaults(t *testing.T) {
	t.Parallel()

	// --- Act ---
	config, shouldExit, err := Parse([]string{"Hello.java"}, &bytes.Buffer{})

	// --- Assert ---
	require.NoError(t, err)
	assert.False(t, shouldExit)
	assert.False(t, config.Fresh)
	assert.False(t, config.Native)
	assert.Empty(t, config.MainClass)
	assert.Empty(t, config.JavaVersion)
	assert.Equal(t, "text", config.LogFormat)
	assert.Equal(t, "info", config.LogLevel)
}

func TestParse_MainShorthand(t *testing.T) {
	t.Parallel()

	// --- Act ---
	config, _, err := Parse([]string{"-m", "demo.Hello", "Hello.java"}, &bytes.Buffer{})

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, "demo.Hello", config.MainClass)
}

func TestParse_ExtraDeps(t *testing.T) {
	t.Parallel()

	// --- Act ---
	config, _, err := Parse([]string{"--deps", "a:b:1, c:d:2,", "Hello.java"}, &bytes.Buffer{})

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, []string{"a:b:1", "c:d:2"}, config.ExtraDeps)
}

func TestParse_NoArgumentsPrintsUsage(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	out := &bytes.Buffer{}

	// --- Act ---
	config, shouldExit, err := Parse(nil, out)

	// --- Assert ---
	require.NoError(t, err)
	assert.True(t, shouldExit)
	assert.Nil(t, config)
	assert.Contains(t, out.String(), "Usage:")
}

func TestParse_HelpFlag(t *testing.T) {
	t.Parallel()

	// --- Act ---
	config, shouldExit, err := Parse([]string{"-h"}, &bytes.Buffer{})

	// --- Assert ---
	require.NoError(t, err)
	assert.True(t, shouldExit)
	assert.Nil(t, config)
}

func TestParse_UnknownFlag(t *testing.T) {
	t.Parallel()

	// --- Act ---
	_, _, err := Parse([]string{"--bogus"}, &bytes.Buffer{})

	// --- Assert ---
	require.Error(t, err)
	exitErr, ok := err.(*ExitError)
	require.True(t, ok, "parse failures surface as ExitError")
	assert.Equal(t, 2, exitErr.Code)
}

func TestParse_InvalidLogLevel(t *testing.T) {
	t.Parallel()

	// --- Act ---
	_, _, err := Parse([]string{"--log-level", "verbose", "Hello.java"}, &bytes.Buffer{})

	// --- Assert ---
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log-level")
}

func TestParse_InvalidLogFormat(t *testing.T) {
	t.Parallel()

	// --- Act ---
	_, _, err := Parse([]string{"--log-format", "yaml", "Hello.java"}, &bytes.Buffer{})

	// --- Assert ---
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log-format")
}

func TestParse_InvalidJavaVersion(t *testing.T) {
	t.Parallel()

	// --- Act ---
	_, _, err := Parse([]string{"--java", "seventeen", "Hello.java"}, &bytes.Buffer{})

	// --- Assert ---
	require.Error(t, err)
	exitErr, ok := err.(*ExitError)
	require.True(t, ok)
	assert.Equal(t, 2, exitErr.Code)
	assert.Contains(t, exitErr.Message, "invalid java version")
}
