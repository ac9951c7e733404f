// Package build decides whether a previously built artifact can be reused
// and, when it cannot, drives the compile/package pipeline that produces a
// fresh one.
package build

import (
	"github.com/specialistvlad/javelin/internal/deps"
	"github.com/specialistvlad/javelin/internal/jdk"
	"github.com/specialistvlad/javelin/internal/source"
)

// Options are the caller's requests for one build invocation.
type Options struct {
	// Fresh forces a rebuild regardless of artifact state.
	Fresh bool

	// Native requests an ahead-of-time native image in addition to the jar.
	Native bool

	// ForcedMain pins the entry point, skipping discovery.
	ForcedMain string

	// JavaVersion is the requested toolchain version ("17" or "17+").
	// Empty defers to the source graph's //JAVA declarations.
	JavaVersion string

	// ExtraDeps are additional dependency coordinates requested on the
	// command line, appended to the source graph's declared ones.
	ExtraDeps []string

	// RuntimeOptions are externally supplied persistent runtime options.
	// They are appended after directive-declared ones so they take
	// precedence.
	RuntimeOptions []string

	// Properties is ambient configuration handed to the integration hook
	// for the duration of its call.
	Properties map[string]string
}

// Context accumulates the state of one build invocation: what the caller
// requested plus everything the pipeline discovers along the way. A reused
// artifact imports its recorded metadata here instead.
type Context struct {
	Options

	MainClass       string
	PreMainClass    string
	AgentMainClass  string
	BuildJdk        int
	IntegrationArgs []string
	ClassPath       *deps.ClassPath

	// ImportedJavaOptions are the merged runtime options recovered from a
	// reused artifact's metadata.
	ImportedJavaOptions []string

	// ImportedClassPath is the recorded manifest classpath recovered from a
	// reused artifact's metadata.
	ImportedClassPath string
}

// NewContext creates a build context for the given options.
func NewContext(opts Options) *Context {
	c := &Context{Options: opts}
	c.MainClass = opts.ForcedMain
	return c
}

// RuntimeOptionsMerged combines the source's declared runtime options with
// the externally supplied persistent ones, persistent last so they win.
func (c *Context) RuntimeOptionsMerged(src *source.ScriptSource) []string {
	merged := append([]string{}, src.RuntimeOptions()...)
	return append(merged, c.RuntimeOptions...)
}

// ImportJarMetadata adopts a previous build's recorded metadata, making a
// reused artifact indistinguishable from a fresh one downstream.
func (c *Context) ImportJarMetadata(j *source.JarSource) {
	if c.MainClass == "" {
		c.MainClass = j.MainClass()
	}
	c.BuildJdk = jdk.MinRequestedVersion(j.JavaVersion())
	c.ImportedJavaOptions = j.JavaOptions()
	c.ImportedClassPath = j.ClassPath()
}
