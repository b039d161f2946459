package report

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"psr/internal/domain"
)

// History lists the past report snapshots of a scenario
type History struct{}

// List returns the .html files of dir except index.html, newest first.
// Files with the same modification time are ordered by name, descending.
// A missing directory has no history.
func (History) List(dir string) ([]domain.HistoryEntry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []domain.HistoryEntry{}, nil
		}
		return nil, fmt.Errorf("read history %s: %w", dir, err)
	}

	history := make([]domain.HistoryEntry, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.EqualFold(filepath.Ext(name), ".html") || name == indexFile {
			continue
		}
		info, err := e.Info()
		if err != nil {
			// removed between ReadDir and Info
			continue
		}
		history = append(history, domain.HistoryEntry{
			Filename:  name,
			Path:      filepath.Join(dir, name),
			Timestamp: info.ModTime(),
		})
	}

	sort.Slice(history, func(i, j int) bool {
		if !history[i].Timestamp.Equal(history[j].Timestamp) {
			return history[i].Timestamp.After(history[j].Timestamp)
		}
		return history[i].Filename > history[j].Filename
	})
	return history, nil
}
