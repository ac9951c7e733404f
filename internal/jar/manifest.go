// Package jar writes and reads jar archives and their manifests.
package jar

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Standard main-attribute names used by javelin artifacts.
const (
	AttrManifestVersion = "Manifest-Version"
	AttrMainClass       = "Main-Class"
	AttrClassPath       = "Class-Path"
	AttrPremainClass    = "Premain-Class"
	AttrAgentClass      = "Agent-Class"
	AttrBootClassPath   = "Boot-Class-Path"
	AttrBuildJdk        = "Build-Jdk"
	AttrJavaOptions     = "JBang-Java-Options"
)

// ManifestPath is the archive entry holding the manifest.
const ManifestPath = "META-INF/MANIFEST.MF"

// Manifest is an ordered set of main attributes.
type Manifest struct {
	order  []string
	values map[string]string
}

// NewManifest creates a manifest carrying the format version marker.
func NewManifest() *Manifest {
	m := &Manifest{values: map[string]string{}}
	m.Set(AttrManifestVersion, "1.0")
	return m
}

// Set adds or replaces an attribute, preserving first-set order.
func (m *Manifest) Set(name, value string) {
	if _, ok := m.values[name]; !ok {
		m.order = append(m.order, name)
	}
	m.values[name] = value
}

// Get returns an attribute value, empty when absent.
func (m *Manifest) Get(name string) string {
	return m.values[name]
}

// WriteTo renders the manifest in jar format: 72-byte lines with
// space-prefixed continuations and a terminating blank line.
func (m *Manifest) WriteTo(w io.Writer) (int64, error) {
	var sb strings.Builder
	for _, name := range m.order {
		line := name + ": " + m.values[name]
		for len(line) > 70 {
			sb.WriteString(line[:70])
			sb.WriteString("\r\n")
			line = " " + line[70:]
		}
		sb.WriteString(line)
		sb.WriteString("\r\n")
	}
	sb.WriteString("\r\n")
	n, err := io.WriteString(w, sb.String())
	return int64(n), err
}

// ParseManifest reads a manifest's main attribute section, folding
// continuation lines back together.
func ParseManifest(r io.Reader) (map[string]string, error) {
	attrs := map[string]string{}
	scanner := bufio.NewScanner(r)

	var name, value string
	flush := func() {
		if name != "" {
			attrs[name] = value
		}
		name, value = "", ""
	}

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			break // end of main section
		}
		if strings.HasPrefix(line, " ") {
			value += line[1:]
			continue
		}
		flush()
		n, v, ok := strings.Cut(line, ": ")
		if !ok {
			return nil, fmt.Errorf("invalid manifest line %q", line)
		}
		name, value = n, v
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return attrs, nil
}
