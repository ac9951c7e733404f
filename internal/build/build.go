package build

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/specialistvlad/javelin/internal/ctxlog"
	"github.com/specialistvlad/javelin/internal/deps"
	"github.com/specialistvlad/javelin/internal/fsutil"
	"github.com/specialistvlad/javelin/internal/integration"
	"github.com/specialistvlad/javelin/internal/jar"
	"github.com/specialistvlad/javelin/internal/jdk"
	"github.com/specialistvlad/javelin/internal/settings"
	"github.com/specialistvlad/javelin/internal/source"
)

// Builder drives builds for one configured environment. External
// collaborators (dependency resolution, the integration hook) come in as
// interfaces; the builder owns the staleness decision and the pipeline.
type Builder struct {
	Jdks        *jdk.Manager
	Resolver    deps.Resolver
	Integration integration.Manager
	Settings    *settings.Settings
}

// Result describes the artifact a build produced or reused.
type Result struct {
	JarFile   string
	ImageFile string
	Reused    bool
}

// ImageName is the native image path derived from a jar path.
func ImageName(outJar string) string {
	if runtime.GOOS == "windows" {
		return outJar + ".exe"
	}
	return outJar + ".bin"
}

// BuildIfNeeded applies the staleness decision and rebuilds only when one
// of its branches demands it. The branches are ordered; each later check
// assumes the earlier ones were false.
func (b *Builder) BuildIfNeeded(ctx context.Context, src *source.ScriptSource, bctx *Context) (*Result, error) {
	logger := ctxlog.FromContext(ctx)

	jarsDir, err := b.Settings.Cache(settings.CacheJars)
	if err != nil {
		return nil, err
	}
	outJar := src.JarFile(jarsDir)

	requestedJavaVersion := bctx.JavaVersion
	if requestedJavaVersion == "" {
		requestedJavaVersion, err = src.JavaVersion(ctx)
		if err != nil {
			return nil, err
		}
	}

	nativeBuildRequired := bctx.Native && !exists(ImageName(outJar))

	buildRequired := false
	switch {
	case bctx.Fresh:
		logger.Debug("Building as fresh build explicitly requested.")
		buildRequired = true
	case nativeBuildRequired:
		// Native mode always repackages so the integration hook gets a
		// chance to produce the image.
		logger.Debug("Building as native build required.")
		buildRequired = true
	case !readable(outJar):
		logger.Debug("Building as previous artifact not readable or not found.", "jar", outJar)
		buildRequired = true
	default:
		jarSrc, err := source.PrepareJar(outJar)
		switch {
		case err != nil:
			logger.Debug("Building as previous artifact is not a valid build record.", "error", err)
			buildRequired = true
		case !jarSrc.IsUpToDate(ctx):
			logger.Debug("Building as previous artifact or its dependencies are not up to date.")
			buildRequired = true
		case jdk.JavaVersion(requestedJavaVersion) < jdk.MinRequestedVersion(jarSrc.JavaVersion()):
			logger.Debug("Building as requested Java version is below the version of the last build.",
				"requested", requestedJavaVersion, "recorded", jarSrc.JavaVersion())
			buildRequired = true
		default:
			logger.Debug("No build required, reusing artifact.", "jar", outJar)
			bctx.ImportJarMetadata(jarSrc)
			result := &Result{JarFile: outJar, Reused: true}
			if bctx.Native {
				result.ImageFile = ImageName(outJar)
			}
			return result, nil
		}
	}

	var integrationResult *integration.Result
	if buildRequired {
		// The scratch directory belongs to this invocation alone; it is
		// reset before use and removed on every exit path.
		tmpDir := outJar + ".tmp"
		if err := fsutil.ResetDir(tmpDir); err != nil {
			return nil, err
		}
		defer os.RemoveAll(tmpDir)

		integrationResult, err = b.buildJar(ctx, src, bctx, tmpDir, outJar, requestedJavaVersion)
		if err != nil {
			return nil, err
		}
	}

	result := &Result{JarFile: outJar}
	if nativeBuildRequired {
		image := ImageName(outJar)
		if integrationResult != nil && integrationResult.NativeImagePath != "" {
			if err := os.Rename(integrationResult.NativeImagePath, image); err != nil {
				return nil, fmt.Errorf("failed to move native image into place: %w", err)
			}
		} else if err := b.buildNative(ctx, bctx, outJar, requestedJavaVersion); err != nil {
			return nil, err
		}
		result.ImageFile = image
	}
	return result, nil
}

// buildJar runs the compile/package pipeline into tmpDir and assembles the
// artifact at outJar. Any step's failure aborts the remainder.
func (b *Builder) buildJar(ctx context.Context, src *source.ScriptSource, bctx *Context, tmpDir, outJar, requestedJavaVersion string) (*integration.Result, error) {
	logger := ctxlog.FromContext(ctx)

	args := []string{b.compilerBinary(ctx, src, requestedJavaVersion)}
	args = append(args, src.CompileOptions()...)

	repos, err := src.Repositories(ctx)
	if err != nil {
		return nil, err
	}
	coords, err := src.Dependencies(ctx)
	if err != nil {
		return nil, err
	}
	coords = append(coords, bctx.ExtraDeps...)
	classPath, err := b.Resolver.Resolve(ctx, repos, coords)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve dependencies: %w", err)
	}
	bctx.ClassPath = classPath
	if cp := classPath.String(); cp != "" {
		args = append(args, "-classpath", cp)
	}
	args = append(args, "-d", tmpDir)

	args = append(args, src.Ref().File)
	members, err := src.AllSources(ctx)
	if err != nil {
		return nil, err
	}
	for _, m := range members {
		args = append(args, m.Ref().File)
	}

	if err := src.CopyFilesTo(ctx, tmpDir); err != nil {
		return nil, err
	}

	pomPath, err := b.generatePom(ctx, src, bctx, tmpDir)
	if err != nil {
		return nil, err
	}

	logger.Info("Building jar...")
	logger.Debug("Compiler invocation assembled.", "args", args)

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = compileEnviron(ctx, src, b.Jdks, requestedJavaVersion)
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("error during compile: %w", err)
	}

	// Future staleness checks compare against the version used right here.
	bctx.BuildJdk = jdk.JavaVersion(requestedJavaVersion)

	req := integration.Request{
		Repositories: repos,
		Artifacts:    classPath.Artifacts(),
		BuildDir:     tmpDir,
		PomPath:      pomPath,
		SourcePath:   src.Ref().File,
		NativeImage:  bctx.Native,
	}
	var integrationResult *integration.Result
	err = integration.WithProcessEnv(bctx.Properties, func() error {
		var err error
		integrationResult, err = b.Integration.Run(ctx, req)
		return err
	})
	if err != nil {
		return nil, err
	}

	if bctx.MainClass == "" {
		if integrationResult.MainClass != "" {
			bctx.MainClass = integrationResult.MainClass
		} else if err := searchForMain(ctx, src, bctx, tmpDir); err != nil {
			return nil, err
		}
	}
	bctx.IntegrationArgs = integrationResult.JavaArgs

	if err := b.createJarFile(ctx, src, bctx, tmpDir, outJar); err != nil {
		return nil, err
	}
	return integrationResult, nil
}

// compilerBinary resolves the dialect's compiler for the requested version.
func (b *Builder) compilerBinary(ctx context.Context, src *source.ScriptSource, requestedJavaVersion string) string {
	return src.CompilerBinary(ctx, b.Jdks, requestedJavaVersion)
}

// compileEnviron applies the dialect's environment pinning to the inherited
// environment.
func compileEnviron(ctx context.Context, src *source.ScriptSource, tools source.ToolResolver, requestedJavaVersion string) []string {
	set, unset := src.CompileEnv(ctx, tools, requestedJavaVersion)
	if len(set) == 0 && len(unset) == 0 {
		return nil // inherit as-is
	}

	removed := map[string]bool{}
	for _, k := range unset {
		removed[k] = true
	}
	for k := range set {
		removed[k] = true
	}

	var env []string
	for _, kv := range os.Environ() {
		name, _, _ := strings.Cut(kv, "=")
		if !removed[name] {
			env = append(env, kv)
		}
	}
	for k, v := range set {
		env = append(env, k+"="+v)
	}
	return env
}

// createJarFile assembles the artifact's metadata block and packs the
// scratch tree into the jar.
func (b *Builder) createJarFile(ctx context.Context, src *source.ScriptSource, bctx *Context, tmpDir, outJar string) error {
	manifest := jar.NewManifest()
	if bctx.MainClass != "" {
		manifest.Set(jar.AttrMainClass, bctx.MainClass)
	}

	isAgent, err := src.IsAgent(ctx)
	if err != nil {
		return err
	}
	if isAgent {
		if bctx.PreMainClass != "" {
			manifest.Set(jar.AttrPremainClass, bctx.PreMainClass)
		}
		if bctx.AgentMainClass != "" {
			manifest.Set(jar.AttrAgentClass, bctx.AgentMainClass)
		}
		agentOptions, err := src.AgentOptions(ctx)
		if err != nil {
			return err
		}
		for _, kv := range agentOptions {
			if kv.Key == "" {
				continue
			}
			manifest.Set(kv.Key, kv.ManifestValue())
		}
		if cp := bctx.ClassPath.ManifestPath(); cp != "" {
			manifest.Set(jar.AttrBootClassPath, cp)
		}
	} else if cp := bctx.ClassPath.ManifestPath(); cp != "" {
		manifest.Set(jar.AttrClassPath, cp)
	}

	// Metadata must stay host-independent, so the merged runtime options
	// use the portable quoting form regardless of platform.
	rtArgs := bctx.RuntimeOptionsMerged(src)
	if opts := strings.Join(EscapeArguments(rtArgs), " "); opts != "" {
		manifest.Set(jar.AttrJavaOptions, opts)
	}
	if bctx.BuildJdk > 0 {
		val := fmt.Sprintf("%d", bctx.BuildJdk)
		if bctx.BuildJdk < 9 {
			val = "1." + val
		}
		manifest.Set(jar.AttrBuildJdk, val)
	}

	return jar.Create(outJar, tmpDir, manifest)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func readable(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	f.Close()
	return true
}
