package build

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/javelin/internal/classfile"
	"github.com/specialistvlad/javelin/internal/ctxlog"
	"github.com/specialistvlad/javelin/internal/fsutil"
	"github.com/specialistvlad/javelin/internal/source"
)

// Lifecycle method descriptors for agent-style artifacts.
const (
	agentDescriptorFull  = "(Ljava/lang/String;Ljava/lang/instrument/Instrumentation;)V"
	agentDescriptorShort = "(Ljava/lang/String;)V"
)

// searchForMain scans the compiled output for entry-point candidates and
// records the chosen one in the build context. With multiple remaining
// candidates a warning lists them all and the first one wins.
func searchForMain(ctx context.Context, src *source.ScriptSource, bctx *Context, tmpDir string) error {
	logger := ctxlog.FromContext(ctx)

	index, err := indexClasses(tmpDir)
	if err != nil {
		return err
	}

	finder := src.MainFinder()
	var mains []*classfile.Class
	for _, c := range index {
		if finder(c) {
			mains = append(mains, c)
		}
	}

	if suggested := src.SuggestedMain(); len(mains) > 1 && suggested != "" {
		var narrowed []*classfile.Class
		for _, c := range mains {
			if c.SimpleName() == suggested {
				narrowed = append(narrowed, c)
			}
		}
		if len(narrowed) > 0 {
			mains = narrowed
		}
	}

	if len(mains) > 0 {
		bctx.MainClass = mains[0].Name
		if len(mains) > 1 {
			names := make([]string, len(mains))
			for i, c := range mains {
				names[i] = c.Name
			}
			logger.Warn("Could not locate unique main() method. Use --main to specify one explicitly. Falling back to the first found.",
				"candidates", strings.Join(names, ","))
		}
	}

	isAgent, err := src.IsAgent(ctx)
	if err != nil {
		return err
	}
	if isAgent {
		for _, c := range index {
			if bctx.AgentMainClass == "" && hasLifecycleMethod(c, "agentmain") {
				bctx.AgentMainClass = c.Name
			}
			if bctx.PreMainClass == "" && hasLifecycleMethod(c, "premain") {
				bctx.PreMainClass = c.Name
			}
		}
	}
	return nil
}

// indexClasses scans every top-level class file under dir. Synthetic and
// nested classes (names containing '$') are excluded.
func indexClasses(dir string) ([]*classfile.Class, error) {
	files, err := fsutil.FindFilesByExtension(dir, ".class")
	if err != nil {
		return nil, fmt.Errorf("failed to scan compiled output: %w", err)
	}

	var index []*classfile.Class
	for _, file := range files {
		if strings.Contains(filepath.Base(file), "$") {
			continue
		}
		f, err := os.Open(file)
		if err != nil {
			return nil, err
		}
		c, err := classfile.Parse(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read class file %s: %w", file, err)
		}
		index = append(index, c)
	}
	return index, nil
}

func hasLifecycleMethod(c *classfile.Class, name string) bool {
	return c.HasMethod(name, agentDescriptorFull) || c.HasMethod(name, agentDescriptorShort)
}
