package deps

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLooksLikeAGav(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		ref  string
		want bool
	}{
		{"org.example:lib:1.0", true},
		{"org.example:lib:1.0:linux", true},
		{"org.example:lib:1.0:linux@zip", true},
		{"org.example:lib:LATEST", true},
		{"org.example:lib", false},
		{"org.example", false},
		{"", false},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.ref, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, LooksLikeAGav(tc.ref))
		})
	}
}

func TestGavWithVersion(t *testing.T) {
	t.Parallel()

	// --- Act / Assert ---
	assert.Equal(t, "org.example:lib:"+DefaultVersion, GavWithVersion("org.example:lib"))
	assert.Equal(t, "org.example:lib:1.0", GavWithVersion("org.example:lib:1.0"), "an explicit version is untouched")
}

func TestParse(t *testing.T) {
	t.Parallel()

	// --- Act ---
	full, err := Parse("org.example:lib:1.0:linux@zip")
	require.NoError(t, err)
	defaulted, err2 := Parse("org.example:lib")
	require.NoError(t, err2)
	_, badErr := Parse("nonsense")

	// --- Assert ---
	want := Coordinate{
		GroupID:    "org.example",
		ArtifactID: "lib",
		Version:    "1.0",
		Classifier: "linux",
		Type:       "zip",
	}
	assert.Empty(t, cmp.Diff(want, full))
	assert.Equal(t, DefaultVersion, defaulted.Version)
	require.Error(t, badErr)
}

func TestToMavenRepo(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		ref  string
		want MavenRepo
	}{
		{
			name: "id=url form",
			ref:  "acme=https://repo.acme.com/maven",
			want: MavenRepo{ID: "acme", URL: "https://repo.acme.com/maven"},
		},
		{
			name: "well-known alias",
			ref:  "central",
			want: MavenRepo{ID: "central", URL: "https://repo1.maven.org/maven2/"},
		},
		{
			name: "alias lookup is case-insensitive",
			ref:  "JitPack",
			want: MavenRepo{ID: "jitpack", URL: "https://jitpack.io/"},
		},
		{
			name: "bare url becomes its own id",
			ref:  "https://repo.spring.io/release",
			want: MavenRepo{ID: "https://repo.spring.io/release", URL: "https://repo.spring.io/release"},
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, ToMavenRepo(tc.ref))
		})
	}
}
