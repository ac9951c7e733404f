package build

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/specialistvlad/javelin/internal/ctxlog"
	"github.com/specialistvlad/javelin/internal/deps"
	"github.com/specialistvlad/javelin/internal/source"
)

// pomTemplateName is looked up in the settings template directory.
const pomTemplateName = "pom.xml"

// pomData is the rendering input for the descriptor template.
type pomData struct {
	BaseName     string
	Group        string
	Artifact     string
	Version      string
	Description  string
	Dependencies []deps.Artifact
}

// generatePom renders the packaging descriptor into the scratch directory.
// This is best effort: a missing template is a warning, not a build
// failure. Returns the rendered path, empty when skipped.
func (b *Builder) generatePom(ctx context.Context, src *source.ScriptSource, bctx *Context, tmpDir string) (string, error) {
	logger := ctxlog.FromContext(ctx)

	templatePath := filepath.Join(b.Settings.Templates(), pomTemplateName)
	tmpl, err := template.ParseFiles(templatePath)
	if err != nil {
		logger.Warn("Could not locate pom.xml template, skipping descriptor.", "path", templatePath)
		return "", nil
	}

	baseName := strings.TrimSuffix(filepath.Base(src.Ref().File), filepath.Ext(src.Ref().File))
	data := pomData{
		BaseName: baseName,
		Group:    "group",
		Artifact: baseName,
		Version:  deps.DefaultVersion,
	}
	if gav, ok, err := src.Gav(ctx); err != nil {
		return "", err
	} else if ok {
		coord, err := deps.Parse(gav)
		if err != nil {
			return "", err
		}
		data.Group = coord.GroupID
		data.Artifact = coord.ArtifactID
		data.Version = coord.Version
	}
	if desc, ok := src.Description(); ok {
		data.Description = desc
	}
	data.Dependencies = bctx.ClassPath.Artifacts()

	pomPath := filepath.Join(tmpDir, "META-INF", "maven",
		filepath.FromSlash(strings.ReplaceAll(data.Group, ".", "/")), "pom.xml")
	if err := os.MkdirAll(filepath.Dir(pomPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create descriptor directory: %w", err)
	}
	out, err := os.Create(pomPath)
	if err != nil {
		return "", fmt.Errorf("failed to create descriptor file: %w", err)
	}
	defer out.Close()
	if err := tmpl.Execute(out, data); err != nil {
		return "", fmt.Errorf("failed to render descriptor: %w", err)
	}
	return pomPath, out.Close()
}
