package file

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-sif/tabula"
)

// Loader reads one file's contents into a Table
type Loader func(r io.Reader) (*tabula.Table, error)

// Load reads every file matching glob with load, and concatenates the results in lexical
// path order. Every file must produce the same columns.
func Load(glob string, load Loader) (*tabula.Table, error) {
	matches, err := filepath.Glob(glob)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("glob %s produced 0 files", glob)
	}
	sort.Strings(matches)
	tables := make([]*tabula.Table, 0, len(matches))
	for _, path := range matches {
		t, err := loadFile(path, load)
		if err != nil {
			return nil, fmt.Errorf("Unable to load file %s: %w", path, err)
		}
		tables = append(tables, t)
	}
	return tabula.Transform(tables[0], tabula.Fail, tabula.Concatenate(tables[1:]...))
}

func loadFile(path string, load Loader) (*tabula.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return load(f)
}
