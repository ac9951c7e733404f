package source

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/specialistvlad/javelin/internal/classfile"
)

// MainFinder recognizes a dialect's runnable entry-point signature on a
// compiled class.
type MainFinder func(c *classfile.Class) bool

// ToolResolver locates toolchain binaries and homes for a requested Java
// version. Satisfied by jdk.Manager.
type ToolResolver interface {
	ResolveInJavaHome(ctx context.Context, cmd, requestedVersion string) string
	CurrentJdk(ctx context.Context, requestedVersion string) (string, error)
}

// dialect is the closed set of per-language capabilities a Source variant
// supplies. Dispatch happens once, by file extension, when the source is
// loaded.
type dialect interface {
	name() string
	mainExtension() string
	compileOptionsCategory() string
	compilerBinary(ctx context.Context, tools ToolResolver, requestedJavaVersion string) string
	// compileEnv returns environment variables to pin and to remove for the
	// compiler invocation.
	compileEnv(ctx context.Context, tools ToolResolver, requestedJavaVersion string) (map[string]string, []string)
	mainFinder() MainFinder
	suggestedMainSuffix() string
}

// dialectFor selects the dialect from the original reference's extension.
func dialectFor(original string) dialect {
	switch strings.ToLower(filepath.Ext(original)) {
	case ".kt":
		return kotlinDialect{}
	case ".groovy":
		return groovyDialect{}
	case ".md":
		return markdownDialect{}
	default:
		return javaDialect{}
	}
}

// mainMethodDescriptor is the JVM descriptor of a String[]-arg main method.
const mainMethodDescriptor = "([Ljava/lang/String;)V"

func hasStringArrayMain(c *classfile.Class) bool {
	return c.HasMethod("main", mainMethodDescriptor)
}

type javaDialect struct{}

func (javaDialect) name() string                   { return "java" }
func (javaDialect) mainExtension() string          { return ".java" }
func (javaDialect) compileOptionsCategory() string { return "JAVAC_OPTIONS" }
func (javaDialect) suggestedMainSuffix() string    { return "" }

func (javaDialect) compilerBinary(ctx context.Context, tools ToolResolver, requestedJavaVersion string) string {
	return tools.ResolveInJavaHome(ctx, "javac", requestedJavaVersion)
}

func (javaDialect) compileEnv(context.Context, ToolResolver, string) (map[string]string, []string) {
	return nil, nil
}

func (javaDialect) mainFinder() MainFinder { return hasStringArrayMain }

// markdownDialect is the literate flavor: the loader extracts the fenced
// java blocks into a generated .java file, after which compilation behaves
// like plain java.
type markdownDialect struct{ javaDialect }

func (markdownDialect) name() string { return "markdown" }

type kotlinDialect struct{}

func (kotlinDialect) name() string                   { return "kotlin" }
func (kotlinDialect) mainExtension() string          { return ".kt" }
func (kotlinDialect) compileOptionsCategory() string { return "COMPILE_OPTIONS" }

// suggestedMainSuffix reflects kotlinc's FooKt naming for top-level mains.
func (kotlinDialect) suggestedMainSuffix() string { return "Kt" }

func (kotlinDialect) compilerBinary(ctx context.Context, tools ToolResolver, requestedJavaVersion string) string {
	return resolveInHome("KOTLIN_HOME", "kotlinc")
}

func (kotlinDialect) compileEnv(context.Context, ToolResolver, string) (map[string]string, []string) {
	return nil, nil
}

func (kotlinDialect) mainFinder() MainFinder { return hasStringArrayMain }

type groovyDialect struct{}

func (groovyDialect) name() string                   { return "groovy" }
func (groovyDialect) mainExtension() string          { return ".groovy" }
func (groovyDialect) compileOptionsCategory() string { return "COMPILE_OPTIONS" }
func (groovyDialect) suggestedMainSuffix() string    { return "" }

func (groovyDialect) compilerBinary(ctx context.Context, tools ToolResolver, requestedJavaVersion string) string {
	return resolveInHome("GROOVY_HOME", "groovyc")
}

// compileEnv pins JAVA_HOME to the resolved JDK and removes GROOVY_HOME so
// groovyc does not pick up a conflicting runtime from the environment.
func (groovyDialect) compileEnv(ctx context.Context, tools ToolResolver, requestedJavaVersion string) (map[string]string, []string) {
	env := map[string]string{}
	if home, err := tools.CurrentJdk(ctx, requestedJavaVersion); err == nil && home != "" {
		env["JAVA_HOME"] = home
	}
	return env, []string{"GROOVY_HOME"}
}

func (groovyDialect) mainFinder() MainFinder { return hasStringArrayMain }

// resolveInHome locates a tool under an environment-variable-named home's
// bin directory, falling back to the bare command for PATH lookup.
func resolveInHome(envVar, cmd string) string {
	if runtime.GOOS == "windows" {
		cmd += ".bat"
	}
	if home := os.Getenv(envVar); home != "" {
		return filepath.Join(home, "bin", cmd)
	}
	return cmd
}
