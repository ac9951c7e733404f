package build

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/specialistvlad/javelin/internal/ctxlog"
)

// buildNative produces the ahead-of-time native image from the packaged
// artifact. The compiler's standard output goes to a log file; everything
// else is inherited for visibility.
func (b *Builder) buildNative(ctx context.Context, bctx *Context, outJar, requestedJavaVersion string) error {
	logger := ctxlog.FromContext(ctx)

	args := []string{resolveInGraalVMHome(ctx, b, requestedJavaVersion)}
	args = append(args, "-H:+ReportExceptionStackTraces")
	args = append(args, "--enable-https")
	if cp := bctx.ClassPath.String(); cp != "" {
		args = append(args, "--class-path="+cp)
	}
	args = append(args, "-jar", outJar)
	args = append(args, ImageName(outJar))

	log, err := os.CreateTemp("", "javelin-native-image-*.log")
	if err != nil {
		return fmt.Errorf("failed to create native-image log file: %w", err)
	}
	defer log.Close()

	logger.Debug("Native image invocation assembled.", "args", args)
	logger.Info("Native image build log.", "log", log.Name())

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = log
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("error during native-image: %w", err)
	}
	return nil
}

// resolveInGraalVMHome prefers a GRAALVM_HOME installation's native-image
// and falls back to the requested JDK home.
func resolveInGraalVMHome(ctx context.Context, b *Builder, requestedJavaVersion string) string {
	cmd := "native-image"
	if runtime.GOOS == "windows" {
		cmd += ".exe"
	}
	if home := os.Getenv("GRAALVM_HOME"); home != "" {
		return filepath.Join(home, "bin", cmd)
	}
	return b.Jdks.ResolveInJavaHome(ctx, "native-image", requestedJavaVersion)
}
