// Package deps models Maven-style dependency coordinates and repositories.
// Actual resolution against remote repositories is delegated to a Resolver
// implementation; this package only owns the coordinate grammar.
package deps

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultVersion is used when a coordinate omits its version segment.
const DefaultVersion = "999-SNAPSHOT"

// gavPattern matches group:artifact:version[:classifier][@type] where the
// version may be a range or the special LATEST/RELEASE markers.
var gavPattern = regexp.MustCompile(`^[^:@]+:[^:@]+:[^:@]+(:[^:@]+)?(@[^:@]+)?$`)

// fullGavPattern additionally accepts a missing version (group:artifact).
var fullGavPattern = regexp.MustCompile(`^[^:@]+:[^:@]+(:[^:@]+)?(:[^:@]+)?(@[^:@]+)?$`)

// Artifact is one resolved coordinate: the original GAV plus the local file
// it was resolved to.
type Artifact struct {
	Coord string
	File  string
}

// MavenRepo is a named repository root declared via //REPOS or an
// annotation-form directive.
type MavenRepo struct {
	ID  string
	URL string
}

// wellKnownRepos maps the aliases accepted in //REPOS lines to their roots.
var wellKnownRepos = map[string]string{
	"central":      "https://repo1.maven.org/maven2/",
	"jbossorg":     "https://repository.jboss.org/nexus/content/groups/public/",
	"google":       "https://maven.google.com/",
	"jitpack":      "https://jitpack.io/",
	"sponge":       "https://repo.spongepowered.org/maven",
	"mavencentral": "https://repo1.maven.org/maven2/",
}

// ToMavenRepo parses a repository reference of the form "id=url", a bare
// well-known alias, or a bare URL (which becomes its own ID).
func ToMavenRepo(ref string) MavenRepo {
	if id, url, ok := strings.Cut(ref, "="); ok {
		return MavenRepo{ID: id, URL: url}
	}
	if url, ok := wellKnownRepos[strings.ToLower(ref)]; ok {
		return MavenRepo{ID: strings.ToLower(ref), URL: url}
	}
	return MavenRepo{ID: ref, URL: ref}
}

// LooksLikeAGav reports whether ref has the shape of a fully versioned
// coordinate.
func LooksLikeAGav(ref string) bool {
	return gavPattern.MatchString(ref)
}

// GavWithVersion returns ref with the default version appended when the
// version segment is missing.
func GavWithVersion(ref string) string {
	if fullGavPattern.MatchString(ref) && strings.Count(strings.Split(ref, "@")[0], ":") == 1 {
		return ref + ":" + DefaultVersion
	}
	return ref
}

// Coordinate is a parsed GAV.
type Coordinate struct {
	GroupID    string
	ArtifactID string
	Version    string
	Classifier string
	Type       string
}

// Parse splits a group:artifact:version[:classifier][@type] string into its
// segments.
func Parse(ref string) (Coordinate, error) {
	gav := GavWithVersion(ref)
	if !LooksLikeAGav(gav) {
		return Coordinate{}, fmt.Errorf("invalid dependency coordinate %q", ref)
	}

	var c Coordinate
	if base, typ, ok := strings.Cut(gav, "@"); ok {
		c.Type = typ
		gav = base
	}
	parts := strings.Split(gav, ":")
	c.GroupID, c.ArtifactID, c.Version = parts[0], parts[1], parts[2]
	if len(parts) > 3 {
		c.Classifier = parts[3]
	}
	return c, nil
}
