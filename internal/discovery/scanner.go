package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var specName = regexp.MustCompile(`^scenario-(\d+)\.spec\.(?:js|ts|mjs)$`)

// SpecFile is a generated scenario spec found on disk
type SpecFile struct {
	ScenarioID int
	Path       string // relative to the scanned root
}

// Scanner scans a test directory for scenario spec files
type Scanner struct {
	skipDirs map[string]bool
}

// NewScanner creates a new Scanner with the given directories to skip
func NewScanner(skipDirs []string) *Scanner {
	skipMap := make(map[string]bool)
	for _, dir := range skipDirs {
		skipMap[dir] = true
	}
	return &Scanner{skipDirs: skipMap}
}

// Scan finds all scenario-<id>.spec files under root, ordered by id. When
// several files claim the same id the first in walk order wins.
func (s *Scanner) Scan(root string) ([]SpecFile, error) {
	root = filepath.Clean(root)
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("test path does not exist: %s", root)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("test path is not a directory: %s", root)
	}

	seen := make(map[int]bool)
	var specs []SpecFile
	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			name := d.Name()
			if path != root && (strings.HasPrefix(name, ".") || s.skipDirs[name]) {
				return filepath.SkipDir
			}
			return nil
		}

		m := specName.FindStringSubmatch(d.Name())
		if m == nil {
			return nil
		}
		id, err := strconv.Atoi(m[1])
		if err != nil || id <= 0 || seen[id] {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		seen[id] = true
		specs = append(specs, SpecFile{ScenarioID: id, Path: rel})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(specs, func(i, j int) bool { return specs[i].ScenarioID < specs[j].ScenarioID })
	return specs, nil
}
