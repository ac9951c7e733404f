package jar

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// Create packs dir's full file tree into a jar at outPath, manifest entry
// first. The jar is written to a temporary file and renamed into place so a
// failed build never leaves a half-written artifact behind.
func Create(outPath, dir string, manifest *Manifest) error {
	tmp, err := os.CreateTemp(filepath.Dir(outPath), ".jar-*")
	if err != nil {
		return fmt.Errorf("failed to create jar staging file: %w", err)
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	zw := zip.NewWriter(tmp)

	mw, err := zw.Create(ManifestPath)
	if err != nil {
		return err
	}
	if _, err := manifest.WriteTo(mw); err != nil {
		return err
	}

	var files []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to walk build output %s: %w", dir, err)
	}
	sort.Strings(files)

	for _, file := range files {
		rel, err := filepath.Rel(dir, file)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)
		if name == ManifestPath {
			continue
		}
		w, err := zw.Create(name)
		if err != nil {
			return err
		}
		in, err := os.Open(file)
		if err != nil {
			return err
		}
		_, err = io.Copy(w, in)
		in.Close()
		if err != nil {
			return fmt.Errorf("failed to add %s to jar: %w", name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), outPath); err != nil {
		return fmt.Errorf("failed to move jar into place: %w", err)
	}
	return nil
}

// ReadManifest opens a jar and parses its manifest's main attributes.
func ReadManifest(jarPath string) (map[string]string, error) {
	zr, err := zip.OpenReader(jarPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open jar %s: %w", jarPath, err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.Name != ManifestPath {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return ParseManifest(rc)
	}
	return nil, fmt.Errorf("jar %s has no manifest", jarPath)
}
