// Package settings loads javelin's persistent configuration and owns the
// on-disk cache directory layout.
package settings

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/javelin/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// CacheClass names one subdirectory of the cache.
type CacheClass string

const (
	CacheJars CacheClass = "jars"
	CacheJdks CacheClass = "jdks"
	CacheURLs CacheClass = "urls"
)

// ConfigFileName is the settings file looked up inside the config directory.
const ConfigFileName = "config.hcl"

// Settings is the decoded persistent configuration plus the resolved
// directory layout.
type Settings struct {
	// configDir is where the settings file lives, by default ~/.javelin.
	configDir string

	CacheDir       string   `hcl:"cache_dir,optional"`
	JavaHome       string   `hcl:"java_home,optional"`
	IntegrationCmd string   `hcl:"integration_cmd,optional"`
	TemplateDir    string   `hcl:"template_dir,optional"`
	RuntimeOptions []string `hcl:"runtime_options,optional"`

	Properties map[string]string

	Remain hcl.Body `hcl:",remain"`
}

// propertiesRoot decodes the optional properties block out of the remaining
// body. Its attributes are free-form, so they are evaluated as cty values
// and converted to strings afterwards.
type propertiesRoot struct {
	Properties *struct {
		Body hcl.Body `hcl:",remain"`
	} `hcl:"properties,block"`
	Remain hcl.Body `hcl:",remain"`
}

// Load reads the settings file from the config directory (JAVELIN_DIR or
// ~/.javelin). A missing file yields defaults, not an error.
func Load(ctx context.Context) (*Settings, error) {
	dir := os.Getenv("JAVELIN_DIR")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to determine home directory: %w", err)
		}
		dir = filepath.Join(home, ".javelin")
	}
	return LoadFrom(ctx, dir)
}

// LoadFrom reads the settings file from an explicit config directory.
func LoadFrom(ctx context.Context, configDir string) (*Settings, error) {
	logger := ctxlog.FromContext(ctx)

	s := &Settings{
		configDir:  configDir,
		Properties: map[string]string{},
	}

	file := filepath.Join(configDir, ConfigFileName)
	if _, err := os.Stat(file); os.IsNotExist(err) {
		logger.Debug("No settings file found, using defaults.", "path", file)
		return s, nil
	}

	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCLFile(file)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse settings file %s: %w", file, diags)
	}

	diags = gohcl.DecodeBody(hclFile.Body, nil, s)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode settings file %s: %w", file, diags)
	}

	var root propertiesRoot
	diags = gohcl.DecodeBody(s.Remain, nil, &root)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode settings file %s: %w", file, diags)
	}
	if root.Properties != nil {
		attrs, diags := root.Properties.Body.JustAttributes()
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to read properties in %s: %w", file, diags)
		}
		for name, attr := range attrs {
			val, diags := attr.Expr.Value(nil)
			if diags.HasErrors() {
				return nil, fmt.Errorf("failed to evaluate property %q in %s: %w", name, file, diags)
			}
			str, err := convert.Convert(val, cty.String)
			if err != nil {
				return nil, fmt.Errorf("property %q in %s is not convertible to a string: %w", name, file, err)
			}
			s.Properties[name] = str.AsString()
		}
	}

	logger.Debug("Settings loaded.", "path", file, "properties", len(s.Properties))
	return s, nil
}

// ConfigDir returns the directory the settings were loaded from.
func (s *Settings) ConfigDir() string {
	return s.configDir
}

// Cache returns the path of one cache subdirectory, creating it if needed.
// The base is the cache_dir setting, the JAVELIN_CACHE_DIR environment
// variable, or <configDir>/cache, in that order of precedence.
func (s *Settings) Cache(class CacheClass) (string, error) {
	base := s.CacheDir
	if env := os.Getenv("JAVELIN_CACHE_DIR"); env != "" {
		base = env
	}
	if base == "" {
		base = filepath.Join(s.configDir, "cache")
	}
	dir := filepath.Join(base, string(class))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create cache directory %s: %w", dir, err)
	}
	return dir, nil
}

// Templates returns the directory searched for descriptor templates.
func (s *Settings) Templates() string {
	if s.TemplateDir != "" {
		return s.TemplateDir
	}
	return filepath.Join(s.configDir, "templates")
}

// PropertyReplacer returns a function substituting ${name} references in
// directive payloads with configured properties. Unknown names are left
// untouched so the authoring error stays visible downstream.
func (s *Settings) PropertyReplacer() func(string) string {
	return func(in string) string {
		return os.Expand(in, func(name string) string {
			if v, ok := s.Properties[name]; ok {
				return v
			}
			return "${" + name + "}"
		})
	}
}
