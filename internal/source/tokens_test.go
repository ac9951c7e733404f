package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDirectivePayload(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		line string
		want []string
	}{
		{
			name: "spaces separate tokens",
			line: "//DEPS a:b:1 c:d:2",
			want: []string{"a:b:1", "c:d:2"},
		},
		{
			name: "mixed separators collapse",
			line: "//DEPS a:b:1;;c:d:2,,e:f:3",
			want: []string{"a:b:1", "c:d:2", "e:f:3"},
		},
		{
			name: "inline comment truncates",
			line: "//DEPS a:b:1 // c:d:2 is commentary",
			want: []string{"a:b:1"},
		},
		{
			name: "keyword only",
			line: "//DEPS",
			want: nil,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, directivePayload(tc.line))
		})
	}
}

func TestQuotedStringToList(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "plain words",
			input: "-Xmx1g -parameters",
			want:  []string{"-Xmx1g", "-parameters"},
		},
		{
			name:  "double quotes group",
			input: `-Dmsg="hello world" -ea`,
			want:  []string{"-Dmsg=hello world", "-ea"},
		},
		{
			name:  "single quotes group",
			input: "-Dmsg='hello world'",
			want:  []string{"-Dmsg=hello world"},
		},
		{
			name:  "tabs separate too",
			input: "-Xms512m\t-Xmx1g",
			want:  []string{"-Xms512m", "-Xmx1g"},
		},
		{
			name:  "empty input",
			input: "",
			want:  nil,
		},
		{
			name:  "empty quoted argument survives",
			input: `"" -ea`,
			want:  []string{"", "-ea"},
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, QuotedStringToList(tc.input))
		})
	}
}

func TestPortableQuotedList(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "plain words",
			input: "-Xmx1g -parameters",
			want:  []string{"-Xmx1g", "-parameters"},
		},
		{
			name:  "quotes group",
			input: "'-Dmsg=hello world' -ea",
			want:  []string{"-Dmsg=hello world", "-ea"},
		},
		{
			name:  "spliced single quote is one argument",
			input: `'-Dmsg=it'\''s fine'`,
			want:  []string{"-Dmsg=it's fine"},
		},
		{
			name:  "escaped space joins",
			input: `a\ b c`,
			want:  []string{"a b", "c"},
		},
		{
			name:  "empty input",
			input: "",
			want:  nil,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, portableQuotedList(tc.input))
		})
	}
}
