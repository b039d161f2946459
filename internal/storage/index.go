package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"psr/internal/domain"
)

// IndexDocument is the dashboard data file of a product
type IndexDocument struct {
	Product   string              `json:"product"`
	UpdatedAt time.Time           `json:"updatedAt"`
	Scenarios []domain.IndexEntry `json:"scenarios"`
}

// ScenarioIndex maintains the master list of scenario summaries
type ScenarioIndex struct {
	lockTimeout time.Duration
	staleAge    time.Duration
	log         Logger
}

// NewScenarioIndex creates a new ScenarioIndex
func NewScenarioIndex(lockTimeout, staleAge time.Duration, log Logger) *ScenarioIndex {
	if log == nil {
		log = nopLogger{}
	}
	return &ScenarioIndex{lockTimeout: lockTimeout, staleAge: staleAge, log: log}
}

// Update replaces the entry of one scenario and returns the new document
func (x *ScenarioIndex) Update(path, product string, entry domain.IndexEntry, now time.Time) (IndexDocument, error) {
	lock := NewFileLock(path, x.lockTimeout, x.staleAge)
	if err := lock.Acquire(); err != nil {
		return IndexDocument{}, fmt.Errorf("lock index: %w", err)
	}
	defer lock.Release()

	doc, err := x.Load(path)
	if err != nil {
		return IndexDocument{}, err
	}
	doc.Product = product
	doc.UpdatedAt = now

	replaced := false
	for i := range doc.Scenarios {
		if doc.Scenarios[i].ScenarioID == entry.ScenarioID {
			doc.Scenarios[i] = entry
			replaced = true
		}
	}
	if !replaced {
		doc.Scenarios = append(doc.Scenarios, entry)
	}
	sort.Slice(doc.Scenarios, func(i, j int) bool { return doc.Scenarios[i].ScenarioID < doc.Scenarios[j].ScenarioID })

	if err := writeJSON(path, doc); err != nil {
		return IndexDocument{}, fmt.Errorf("write index: %w", err)
	}
	return doc, nil
}

// Load reads the index; a missing or corrupted file is an empty index
func (x *ScenarioIndex) Load(path string) (IndexDocument, error) {
	var doc IndexDocument
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return doc, nil
		}
		return doc, fmt.Errorf("read index: %w", err)
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		x.log.Warnf("index %s is corrupted, rebuilding: %v", path, err)
		return IndexDocument{}, nil
	}
	return doc, nil
}
