package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	t.Parallel()

	// --- Act ---
	config, err := NewConfig(Config{ScriptPath: "Hello.java", JavaVersion: "17+"})

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, "Hello.java", config.ScriptPath)
	assert.Equal(t, "17+", config.JavaVersion)
}

func TestNewConfig_RequiresScriptPath(t *testing.T) {
	t.Parallel()

	// --- Act ---
	_, err := NewConfig(Config{})

	// --- Assert ---
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ScriptPath")
}

func TestNewConfig_RejectsMalformedJavaVersion(t *testing.T) {
	t.Parallel()

	// --- Act ---
	_, err := NewConfig(Config{ScriptPath: "Hello.java", JavaVersion: "17.0.1"})

	// --- Assert ---
	require.Error(t, err)
	assert.Contains(t, err.Error(), "java version")
}
