package source

import (
	"context"
	"os"
	"strings"

	"github.com/specialistvlad/javelin/internal/ctxlog"
	"github.com/specialistvlad/javelin/internal/jar"
)

// JarSource reinterprets a previously built artifact as its own
// completed-build record, recovered entirely from the embedded metadata.
// The staleness oracle consults it to decide whether a rebuild is needed,
// and a reused build imports its metadata from here.
type JarSource struct {
	file        string
	mainClass   string
	javaOptions []string
	buildJdk    string
	classPath   string
}

// PrepareJar reads an existing artifact's metadata. An unreadable or
// metadata-less artifact yields an error; callers treat that as a rebuild
// signal, not a failure.
func PrepareJar(jarFile string) (*JarSource, error) {
	attrs, err := jar.ReadManifest(jarFile)
	if err != nil {
		return nil, err
	}

	j := &JarSource{
		file:      jarFile,
		mainClass: attrs[jar.AttrMainClass],
		buildJdk:  attrs[jar.AttrBuildJdk],
		classPath: attrs[jar.AttrClassPath],
	}
	if opts := attrs[jar.AttrJavaOptions]; opts != "" {
		j.javaOptions = portableQuotedList(opts)
	}
	return j, nil
}

// File is the artifact's path.
func (j *JarSource) File() string { return j.file }

// MainClass is the recorded entry point, empty if none was embedded.
func (j *JarSource) MainClass() string { return j.mainClass }

// JavaOptions are the recorded merged runtime options.
func (j *JarSource) JavaOptions() []string { return j.javaOptions }

// ClassPath is the recorded manifest classpath string.
func (j *JarSource) ClassPath() string { return j.classPath }

// JavaVersion is the recorded build toolchain version, in its manifest
// encoding ("11", or "1.8" for legacy single-digit versions).
func (j *JarSource) JavaVersion() string { return j.buildJdk }

// IsUpToDate reports whether the record still matches current dependency
// state: a build version must have been recorded and every classpath entry
// must still exist on disk.
func (j *JarSource) IsUpToDate(ctx context.Context) bool {
	logger := ctxlog.FromContext(ctx)
	if j.buildJdk == "" {
		logger.Debug("Previous artifact records no build JDK.", "jar", j.file)
		return false
	}
	if j.classPath == "" {
		return true
	}
	for _, entry := range strings.Fields(j.classPath) {
		if _, err := os.Stat(entry); err != nil {
			logger.Debug("Recorded classpath entry no longer present.", "entry", entry)
			return false
		}
	}
	return true
}
