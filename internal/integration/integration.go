// Package integration defines the post-compile hook contract and an
// implementation that shells out to an external command.
package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"

	"github.com/specialistvlad/javelin/internal/ctxlog"
	"github.com/specialistvlad/javelin/internal/deps"
)

// Request carries everything a hook may inspect: the declared repositories,
// the resolved dependency artifacts, the compiled scratch directory, the
// rendered descriptor, the root source and the native-mode flag.
type Request struct {
	Repositories []deps.MavenRepo `json:"repositories"`
	Artifacts    []deps.Artifact  `json:"artifacts"`
	BuildDir     string           `json:"build_dir"`
	PomPath      string           `json:"pom_path,omitempty"`
	SourcePath   string           `json:"source_path"`
	NativeImage  bool             `json:"native_image"`
}

// Result is what a hook may contribute back to the build.
type Result struct {
	MainClass       string   `json:"main_class,omitempty"`
	JavaArgs        []string `json:"java_args,omitempty"`
	NativeImagePath string   `json:"native_image_path,omitempty"`
}

// Manager runs the integration step after compilation and before packaging.
type Manager interface {
	Run(ctx context.Context, req Request) (*Result, error)
}

// Noop is the Manager used when no hook is configured.
type Noop struct{}

// Run returns an empty result.
func (Noop) Run(context.Context, Request) (*Result, error) {
	return &Result{}, nil
}

// ExecManager runs an external hook command, passing the request as JSON on
// stdin and parsing the result from stdout. Stderr is inherited so hook
// diagnostics stay visible.
type ExecManager struct {
	// Command is the hook executable.
	Command string

	// Env holds ambient configuration made visible to the hook for the
	// duration of the call. The caller is responsible for scoping it (see
	// WithProcessEnv).
	Env map[string]string
}

// Run invokes the hook and decodes its result. A non-zero exit or an
// interrupted wait is a fatal build error.
func (m *ExecManager) Run(ctx context.Context, req Request) (*Result, error) {
	logger := ctxlog.FromContext(ctx)

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode integration request: %w", err)
	}

	cmd := exec.CommandContext(ctx, m.Command)
	cmd.Stdin = bytes.NewReader(payload)
	cmd.Stderr = os.Stderr
	cmd.Env = os.Environ()
	for k, v := range m.Env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}

	var out bytes.Buffer
	cmd.Stdout = &out

	logger.Debug("Running integration hook.", "command", m.Command)
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("integration hook failed: %w", err)
	}

	result := &Result{}
	if out.Len() > 0 {
		if err := json.Unmarshal(out.Bytes(), result); err != nil {
			return nil, fmt.Errorf("integration hook produced invalid output: %w", err)
		}
	}
	logger.Debug("Integration hook finished.", "main_class", result.MainClass, "java_args", len(result.JavaArgs))
	return result, nil
}

// WithProcessEnv applies env to the process environment, runs fn, and
// restores the previous values on every exit path. Hooks consult ambient
// process state; this keeps them from leaking configuration into the rest
// of the run.
func WithProcessEnv(env map[string]string, fn func() error) error {
	saved := make(map[string]*string, len(env))
	for k, v := range env {
		if old, ok := os.LookupEnv(k); ok {
			saved[k] = &old
		} else {
			saved[k] = nil
		}
		os.Setenv(k, v)
	}
	defer func() {
		for k, old := range saved {
			if old == nil {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, *old)
			}
		}
	}()

	return fn()
}
