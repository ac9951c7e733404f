package source

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/specialistvlad/javelin/internal/ctxlog"
	"github.com/specialistvlad/javelin/internal/deps"
	"github.com/specialistvlad/javelin/internal/fsutil"
	"github.com/specialistvlad/javelin/internal/jdk"
)

const (
	depsPrefix        = "//DEPS "
	filesPrefix       = "//FILES "
	sourcesPrefix     = "//SOURCES "
	descriptionPrefix = "//DESCRIPTION "
	gavPrefix         = "//GAV "
	reposPrefix       = "//REPOS "

	depsAnnotPrefix  = "@Grab("
	reposAnnotPrefix = "@GrabResolver("
)

var (
	annotPairs       = regexp.MustCompile(`(\w+)\s*=\s*"(.*?)"`)
	depsAnnotSingle  = regexp.MustCompile(`@Grab\(\s*"(.*)"\s*\)`)
	reposAnnotSingle = regexp.MustCompile(`@GrabResolver\(\s*"(.*)"\s*\)`)
	lineSplitter     = regexp.MustCompile(`\r?\n`)
)

// ErrMalformedDirective marks user-authoring errors in directive lines.
// These are always fatal; recovering silently would produce a wrong build.
var ErrMalformedDirective = errors.New("malformed directive")

// ScriptSource is the canonical Source variant: a script file whose build
// metadata lives in //-prefixed directive lines. It carries no information
// that cannot be re-derived from its backing text, and every derived
// collection is computed once and cached for the life of the instance.
type ScriptSource struct {
	ref     ResourceRef
	script  string
	replace func(string) string
	dia     dialect
	loader  *Loader

	// Memoized derived state. Each field is computed at most once; the done
	// flags distinguish "not yet computed" from legitimately empty results.
	lines []string

	dependencies []string
	depsErr      error
	depsDone     bool

	repositories []deps.MavenRepo
	reposErr     error
	reposDone    bool

	fileRefs  []RefTarget
	filesErr  error
	filesDone bool

	sources     []*ScriptSource
	sourcesErr  error
	sourcesDone bool

	agentOptions []KeyValue
	agentErr     error
	agentDone    bool

	description string
	descDone    bool

	gav     string
	gavSet  bool
	gavErr  error
	gavDone bool

	javaVersion     string
	javaVersionErr  error
	javaVersionDone bool
}

// newScriptSource wires a source to its loader and dialect. The replace
// function substitutes ${property} references in directive payloads.
func newScriptSource(ref ResourceRef, script string, dia dialect, loader *Loader) *ScriptSource {
	replace := loader.Replace
	if replace == nil {
		replace = func(s string) string { return s }
	}
	return &ScriptSource{ref: ref, script: script, replace: replace, dia: dia, loader: loader}
}

// FromText creates an in-memory java source, mainly for tests and literal
// input. replace may be nil.
func FromText(script string, replace func(string) string) *ScriptSource {
	l := &Loader{Replace: replace}
	return newScriptSource(ResourceRef{}, script, javaDialect{}, l)
}

// Load resolves a reference string and constructs the dialect-appropriate
// source for it.
func (l *Loader) Load(ctx context.Context, resource string) (*ScriptSource, error) {
	ref, err := l.Resolve(ctx, resource)
	if err != nil {
		return nil, err
	}
	return l.ForRef(ctx, ref)
}

// ForRef reads a resolved resource and constructs its source. Markdown
// resources have their fenced java blocks extracted into a generated .java
// file first, after which they compile like plain java.
func (l *Loader) ForRef(ctx context.Context, ref ResourceRef) (*ScriptSource, error) {
	content, err := os.ReadFile(ref.File)
	if err != nil {
		return nil, fmt.Errorf("could not read source %s: %w", ref.File, err)
	}

	dia := dialectFor(ref.Original)
	if _, ok := dia.(markdownDialect); ok {
		file, err := l.extractMarkdown(ref, content)
		if err != nil {
			return nil, err
		}
		ref.File = file
		content, err = os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("could not read extracted source %s: %w", file, err)
		}
	}
	return newScriptSource(ref, string(content), dia, l), nil
}

// Ref returns the backing resource identity.
func (s *ScriptSource) Ref() ResourceRef { return s.ref }

// Text returns the raw script text.
func (s *ScriptSource) Text() string { return s.script }

// Lines splits the script lazily; the split is cached.
func (s *ScriptSource) Lines() []string {
	if s.lines == nil && s.script != "" {
		s.lines = lineSplitter.Split(s.script, -1)
	}
	return s.lines
}

// StableID is a content hash of the raw text: same text, same ID, forever.
func (s *ScriptSource) StableID() string {
	sum := sha256.Sum256([]byte(s.script))
	return hex.EncodeToString(sum[:])
}

// JarFile is the deterministic output artifact path under jarsDir. Any text
// change moves the path; a prior build of the same name is never clobbered.
func (s *ScriptSource) JarFile(jarsDir string) string {
	name := filepath.Base(s.ref.File)
	return filepath.Join(jarsDir, name+"."+s.StableID()+".jar")
}

// SuggestedMain derives an entry-point name hint from the backing file name.
// Stdin-backed sources have none.
func (s *ScriptSource) SuggestedMain() string {
	if s.ref.IsStdin() || s.ref.File == "" {
		return ""
	}
	base := strings.TrimSuffix(filepath.Base(s.ref.File), filepath.Ext(s.ref.File))
	return base + s.dia.suggestedMainSuffix()
}

// MainExtension is the dialect's main source file extension.
func (s *ScriptSource) MainExtension() string { return s.dia.mainExtension() }

// MainFinder is the dialect's entry-point signature predicate.
func (s *ScriptSource) MainFinder() MainFinder { return s.dia.mainFinder() }

// CompilerBinary resolves the dialect's compiler for a requested version.
func (s *ScriptSource) CompilerBinary(ctx context.Context, tools ToolResolver, requestedJavaVersion string) string {
	return s.dia.compilerBinary(ctx, tools, requestedJavaVersion)
}

// CompileEnv returns environment variables to pin and remove for the
// compiler process.
func (s *ScriptSource) CompileEnv(ctx context.Context, tools ToolResolver, requestedJavaVersion string) (map[string]string, []string) {
	return s.dia.compileEnv(ctx, tools, requestedJavaVersion)
}

// Dependencies aggregates //DEPS declarations across the whole source graph
// in first-discovery order. Duplicates are kept; downstream resolution owns
// dedup semantics.
func (s *ScriptSource) Dependencies(ctx context.Context) ([]string, error) {
	if !s.depsDone {
		s.dependencies, s.depsErr = collectAll(ctx, s, (*ScriptSource).collectDependencies)
		s.depsDone = true
	}
	return s.dependencies, s.depsErr
}

func (s *ScriptSource) collectDependencies(ctx context.Context) ([]string, error) {
	for _, line := range s.Lines() {
		if strings.HasPrefix(line, "// DEPS") {
			return nil, fmt.Errorf("dependencies must be declared with the line prefix //DEPS: %w", ErrMalformedDirective)
		}
	}

	var out []string
	for _, line := range s.Lines() {
		if strings.HasPrefix(line, depsPrefix) {
			for _, tok := range directivePayload(line) {
				out = append(out, s.replace(tok))
			}
			continue
		}
		if strings.Contains(line, depsAnnotPrefix) {
			for _, dep := range extractAnnotation(line, depsAnnotPrefix, depsAnnotSingle, assembleGrabCoordinate) {
				out = append(out, s.replace(dep))
			}
		}
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

// assembleGrabCoordinate reassembles key="value" pairs into the colon-joined
// group:artifact:version[:classifier][@type] coordinate form.
func assembleGrabCoordinate(args map[string]string) string {
	segments := make([]string, 0, 4)
	for _, key := range []string{"group", "module", "version", "classifier"} {
		if v, ok := args[key]; ok {
			segments = append(segments, v)
		}
	}
	gav := strings.Join(segments, ":")
	if ext, ok := args["ext"]; ok {
		gav += "@" + ext
	}
	return gav
}

// Repositories aggregates //REPOS and @GrabResolver declarations across the
// graph.
func (s *ScriptSource) Repositories(ctx context.Context) ([]deps.MavenRepo, error) {
	if !s.reposDone {
		s.repositories, s.reposErr = collectAll(ctx, s, (*ScriptSource).collectRepositories)
		s.reposDone = true
	}
	return s.repositories, s.reposErr
}

func (s *ScriptSource) collectRepositories(ctx context.Context) ([]deps.MavenRepo, error) {
	out := []deps.MavenRepo{}
	for _, line := range s.Lines() {
		if strings.HasPrefix(line, reposPrefix) {
			for _, tok := range directivePayload(line) {
				out = append(out, deps.ToMavenRepo(s.replace(tok)))
			}
			continue
		}
		if strings.Contains(line, reposAnnotPrefix) {
			for _, repo := range extractAnnotation(line, reposAnnotPrefix, reposAnnotSingle, assembleResolverRepo) {
				out = append(out, deps.ToMavenRepo(s.replace(repo)))
			}
		}
	}
	return out, nil
}

// assembleResolverRepo turns @GrabResolver key/value pairs into the
// "name=root" repository form.
func assembleResolverRepo(args map[string]string) string {
	name, ok := args["name"]
	if !ok {
		name = args["root"]
	}
	return name + "=" + args["root"]
}

// extractAnnotation handles the annotation form shared by the dependency and
// repository categories: skip lines where the marker sits inside a line
// comment, collect key="value" pairs via assemble, or fall back to the bare
// quoted-string sub-form emitted verbatim.
func extractAnnotation(line, marker string, single *regexp.Regexp, assemble func(map[string]string) string) []string {
	commentOrEnd := strings.Index(line, "//")
	if commentOrEnd < 0 {
		commentOrEnd = len(line)
	}
	if strings.Index(line, marker) > commentOrEnd {
		return nil
	}

	args := map[string]string{}
	for _, m := range annotPairs.FindAllStringSubmatch(line, -1) {
		args[m[1]] = m[2]
	}
	if len(args) > 0 {
		return []string{assemble(args)}
	}
	if m := single.FindStringSubmatch(line); m != nil {
		return []string{m[1]}
	}
	return nil
}

// Files aggregates //FILES declarations across the graph. References are
// relative to the declaring source's own location.
func (s *ScriptSource) Files(ctx context.Context) ([]RefTarget, error) {
	if !s.filesDone {
		s.fileRefs, s.filesErr = collectAll(ctx, s, (*ScriptSource).collectFiles)
		s.filesDone = true
	}
	return s.fileRefs, s.filesErr
}

func (s *ScriptSource) collectFiles(ctx context.Context) ([]RefTarget, error) {
	out := []RefTarget{}
	for _, line := range s.Lines() {
		if !strings.HasPrefix(line, filesPrefix) {
			continue
		}
		for _, tok := range directivePayload(line) {
			out = append(out, NewRefTarget(s.baseDir(), s.replace(tok)))
		}
	}
	return out, nil
}

// CopyFilesTo copies every declared extra file into dest.
func (s *ScriptSource) CopyFilesTo(ctx context.Context, dest string) error {
	files, err := s.Files(ctx)
	if err != nil {
		return err
	}
	for _, f := range files {
		if err := f.Copy(dest); err != nil {
			return err
		}
	}
	return nil
}

// baseDir is the directory sibling and file references resolve against: the
// backing file's directory, or the working directory for literal sources.
func (s *ScriptSource) baseDir() string {
	if s.ref.File != "" {
		return filepath.Dir(s.ref.File)
	}
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

// AllSources returns every source transitively included via //SOURCES,
// excluding the root itself, each distinct resolved location exactly once,
// in first-discovery order. Traversal uses an explicit visited set, so
// directive cycles terminate.
func (s *ScriptSource) AllSources(ctx context.Context) ([]*ScriptSource, error) {
	if s.sourcesDone {
		return s.sources, s.sourcesErr
	}
	s.sourcesDone = true

	// The root's own ref seeds the visited set so it never re-enters the
	// graph, but it is not part of its own result.
	visited := map[string]bool{s.ref.Key(): true}
	result := []*ScriptSource{}

	type frame struct {
		siblings []*ScriptSource
		next     int
	}

	rootSiblings, err := s.collectSources(ctx)
	if err != nil {
		s.sourcesErr = err
		return nil, err
	}
	stack := []frame{{siblings: rootSiblings}}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next >= len(top.siblings) {
			stack = stack[:len(stack)-1]
			continue
		}
		sib := top.siblings[top.next]
		top.next++

		if visited[sib.ref.Key()] {
			continue
		}
		visited[sib.ref.Key()] = true
		result = append(result, sib)

		children, err := sib.collectSources(ctx)
		if err != nil {
			s.sourcesErr = err
			return nil, err
		}
		stack = append(stack, frame{siblings: children})
	}

	s.sources = result
	return s.sources, nil
}

// collectSources resolves this source's direct //SOURCES references into
// sibling sources, expanding glob patterns relative to the original
// reference's location.
func (s *ScriptSource) collectSources(ctx context.Context) ([]*ScriptSource, error) {
	sources := []*ScriptSource{}
	for _, line := range s.Lines() {
		if !strings.HasPrefix(line, sourcesPrefix) {
			continue
		}
		for _, tok := range directivePayload(line) {
			refs, err := fsutil.Explode(s.baseDir(), s.replace(tok))
			if err != nil {
				return nil, err
			}
			for _, ref := range refs {
				sib, err := s.sibling(ctx, ref)
				if err != nil {
					return nil, err
				}
				sources = append(sources, sib)
			}
		}
	}
	return sources, nil
}

func (s *ScriptSource) sibling(ctx context.Context, resource string) (*ScriptSource, error) {
	ref, err := s.loader.Sibling(ctx, s.ref, resource)
	if err != nil {
		return nil, err
	}
	return s.loader.ForRef(ctx, ref)
}

// AgentOptions aggregates //JAVAAGENT key/value declarations across the
// graph.
func (s *ScriptSource) AgentOptions(ctx context.Context) ([]KeyValue, error) {
	if !s.agentDone {
		s.agentOptions, s.agentErr = collectAll(ctx, s, (*ScriptSource).collectAgentOptions)
		s.agentDone = true
	}
	return s.agentOptions, s.agentErr
}

func (s *ScriptSource) collectAgentOptions(ctx context.Context) ([]KeyValue, error) {
	out := []KeyValue{}
	for _, raw := range s.collectRawOptions("JAVAAGENT") {
		for _, tok := range strings.Fields(raw) {
			kv, err := ParseKeyValue(tok)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrMalformedDirective, err)
			}
			out = append(out, kv)
		}
	}
	return out, nil
}

// IsAgent reports whether the source declares any agent options, making the
// artifact an agent-style one.
func (s *ScriptSource) IsAgent(ctx context.Context) (bool, error) {
	opts, err := s.AgentOptions(ctx)
	if err != nil {
		return false, err
	}
	return len(opts) > 0, nil
}

// Description joins //DESCRIPTION lines of this source, if any.
func (s *ScriptSource) Description() (string, bool) {
	if !s.descDone {
		var parts []string
		for _, line := range s.Lines() {
			if strings.HasPrefix(line, descriptionPrefix) {
				parts = append(parts, strings.TrimPrefix(line, descriptionPrefix))
			}
		}
		s.description = strings.Join(parts, "\n")
		s.descDone = true
	}
	return s.description, s.description != ""
}

// Gav returns the declared fixed artifact identity. With multiple //GAV
// lines the first wins with a warning; a malformed value is a fatal
// directive error.
func (s *ScriptSource) Gav(ctx context.Context) (string, bool, error) {
	if !s.gavDone {
		s.gavDone = true
		var gavs []string
		for _, line := range s.Lines() {
			if strings.HasPrefix(line, gavPrefix) {
				gavs = append(gavs, strings.TrimSpace(strings.TrimPrefix(line, gavPrefix)))
			}
		}
		if len(gavs) > 0 {
			if len(gavs) > 1 {
				ctxlog.FromContext(ctx).Warn("Multiple //GAV lines found, only one should be defined in a source file. Using the first.")
			}
			if !deps.LooksLikeAGav(deps.GavWithVersion(gavs[0])) {
				s.gavErr = fmt.Errorf("//GAV line has wrong format, should be '//GAV groupid:artifactid[:version]': %w", ErrMalformedDirective)
			} else {
				s.gav = gavs[0]
				s.gavSet = true
			}
		}
	}
	return s.gav, s.gavSet, s.gavErr
}

// CompileOptions are this source's compiler options, shell-tokenized.
func (s *ScriptSource) CompileOptions() []string {
	return s.collectOptions(s.dia.compileOptionsCategory())
}

// RuntimeOptions are this source's declared runtime options, shell-tokenized.
func (s *ScriptSource) RuntimeOptions() []string {
	return s.collectOptions("JAVA_OPTIONS")
}

// EnableCDS reports whether a //CDS directive is present.
func (s *ScriptSource) EnableCDS() bool {
	return len(s.collectRawOptions("CDS")) > 0
}

// JavaVersion selects, among //JAVA declarations across the whole graph, the
// maximum well-formed requirement. Empty when none is declared.
func (s *ScriptSource) JavaVersion(ctx context.Context) (string, error) {
	if !s.javaVersionDone {
		s.javaVersionDone = true
		versions, err := collectAll(ctx, s, func(ss *ScriptSource, _ context.Context) ([]string, error) {
			return ss.collectOptions("JAVA"), nil
		})
		if err != nil {
			s.javaVersionErr = err
		} else {
			best := ""
			for _, v := range versions {
				if !jdk.CheckRequestedVersion(v) {
					continue
				}
				if best == "" || jdk.CompareRequested(v, best) > 0 {
					best = v
				}
			}
			s.javaVersion = best
		}
	}
	return s.javaVersion, s.javaVersionErr
}

// collectOptions gathers a category's raw strings and tokenizes them the
// way a shell would, so quoted option values survive.
func (s *ScriptSource) collectOptions(category string) []string {
	raw := s.collectRawOptions(category)
	return QuotedStringToList(strings.Join(raw, " "))
}

// collectRawOptions gathers every //<category> line's payload, then appends
// the JBANG_<category> environment variable when set.
func (s *ScriptSource) collectRawOptions(category string) []string {
	prefix := "//" + category

	var options []string
	for _, line := range s.Lines() {
		line, _, _ = strings.Cut(line, " // ")
		if strings.HasPrefix(line, prefix+" ") || strings.HasPrefix(line, prefix+"\t") || line == prefix {
			options = append(options, strings.TrimSpace(strings.TrimPrefix(line, prefix)))
		}
	}
	if env := os.Getenv("JBANG_" + category); env != "" {
		options = append(options, env)
	}
	return options
}

// collectAll is the generic graph aggregator: the root's own extraction
// result concatenated with every graph member's, in discovery order.
func collectAll[T any](ctx context.Context, s *ScriptSource, f func(*ScriptSource, context.Context) ([]T, error)) ([]T, error) {
	result, err := f(s, ctx)
	if err != nil {
		return nil, err
	}
	members, err := s.AllSources(ctx)
	if err != nil {
		return nil, err
	}
	for _, m := range members {
		part, err := f(m, ctx)
		if err != nil {
			return nil, err
		}
		result = append(result, part...)
	}
	return result, nil
}
