package source

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// codeFenceLanguages are the fenced-block languages whose contents
// participate in a literate markdown source.
var codeFenceLanguages = map[string]bool{
	"java":           true,
	"jsh":            true,
	"jshelllanguage": true,
}

// extractMarkdown pulls the java code fences out of a markdown resource and
// writes them, concatenated, to a generated .java file in the cache. The
// generated file keeps the markdown's base name so entry-point suggestion
// still works.
func (l *Loader) extractMarkdown(ref ResourceRef, content []byte) (string, error) {
	code := ExtractMarkdownCode(string(content))

	sum := sha256.Sum256(content)
	base := strings.TrimSuffix(filepath.Base(ref.File), filepath.Ext(ref.File))
	dir := filepath.Join(l.URLCache, "markdown", hex.EncodeToString(sum[:8]))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to prepare markdown extraction dir: %w", err)
	}
	file := filepath.Join(dir, base+".java")
	if err := os.WriteFile(file, []byte(code), 0o644); err != nil {
		return "", fmt.Errorf("failed to write extracted markdown source: %w", err)
	}
	return file, nil
}

// ExtractMarkdownCode returns the concatenated contents of all java-flavored
// code fences in a markdown document.
func ExtractMarkdownCode(markdown string) string {
	var out []string
	inFence := false
	for _, line := range lineSplitter.Split(markdown, -1) {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			if inFence {
				inFence = false
				continue
			}
			lang := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(trimmed, "```")))
			inFence = codeFenceLanguages[lang]
			continue
		}
		if inFence {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n") + "\n"
}
