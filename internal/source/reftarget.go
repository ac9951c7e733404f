package source

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/javelin/internal/fsutil"
)

// RefTarget is one declared extra file: where it comes from relative to the
// declaring source, and where it lands inside the build scratch directory.
type RefTarget struct {
	// Source is the file reference relative to the declaring source's
	// directory (or absolute).
	Source string

	// Dest is the relative path inside the scratch directory.
	Dest string
}

// NewRefTarget parses a //FILES token. The plain form "ref" keeps the
// reference as its destination; "dest=ref" places ref at an explicit
// destination.
func NewRefTarget(baseDir, token string) RefTarget {
	dest, src, ok := strings.Cut(token, "=")
	if !ok {
		src = token
		dest = token
	}
	if !filepath.IsAbs(src) {
		src = filepath.Join(baseDir, src)
	}
	return RefTarget{Source: src, Dest: filepath.FromSlash(dest)}
}

// Copy places the referenced file at its destination under destRoot.
// Copying the same target twice is idempotent.
func (r RefTarget) Copy(destRoot string) error {
	dest := filepath.Join(destRoot, r.Dest)
	if err := fsutil.CopyFile(r.Source, dest); err != nil {
		return fmt.Errorf("failed to copy declared file %s: %w", r.Source, err)
	}
	return nil
}
