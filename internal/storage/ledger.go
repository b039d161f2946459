package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"psr/internal/domain"
)

// MergeAndPersist writes result under both of its keys, keeping every other
// valid entry and dropping invalid ones. The read-modify-write runs under
// the ledger lock.
func (l *JSONLedger) MergeAndPersist(path, product string, result domain.ScenarioResult) error {
	lock := NewFileLock(path, l.lockTimeout, l.staleAge)
	if err := lock.Acquire(); err != nil {
		return fmt.Errorf("lock ledger: %w", err)
	}
	defer lock.Release()

	entries, err := l.read(path, product)
	if err != nil {
		return err
	}
	for _, key := range domain.LedgerKeys(product, result.ScenarioID) {
		entries[key] = result
	}

	if err := writeJSON(path, entries); err != nil {
		return fmt.Errorf("write ledger: %w", err)
	}
	return nil
}

// Load returns the healed ledger. A missing file is an empty ledger.
func (l *JSONLedger) Load(path, product string) (map[string]domain.ScenarioResult, error) {
	return l.read(path, product)
}

// Get looks a scenario up by either of its keys
func (l *JSONLedger) Get(path, product string, scenarioID int) (domain.ScenarioResult, bool, error) {
	entries, err := l.read(path, product)
	if err != nil {
		return domain.ScenarioResult{}, false, err
	}
	for _, key := range domain.LedgerKeys(product, scenarioID) {
		if r, ok := entries[key]; ok {
			return r, true, nil
		}
	}
	if r, ok := entries[fmt.Sprint(scenarioID)]; ok {
		return r, true, nil
	}
	return domain.ScenarioResult{}, false, nil
}

// Results returns one result per scenario ordered by id. The product key
// wins over the short alias when both exist.
func (l *JSONLedger) Results(path, product string) ([]domain.ScenarioResult, error) {
	entries, err := l.read(path, product)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	// longest first so "<product>-scenario-N" is seen before "scenario-N"
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	byID := make(map[int]domain.ScenarioResult)
	for _, k := range keys {
		r := entries[k]
		if _, seen := byID[r.ScenarioID]; !seen {
			byID[r.ScenarioID] = r
		}
	}

	results := make([]domain.ScenarioResult, 0, len(byID))
	for _, r := range byID {
		results = append(results, r)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ScenarioID < results[j].ScenarioID })
	return results, nil
}

// read parses the ledger, healing what it can: an unparsable document is
// treated as empty, and keys that fail validation or values that do not
// decode are dropped.
func (l *JSONLedger) read(path, product string) (map[string]domain.ScenarioResult, error) {
	entries := make(map[string]domain.ScenarioResult)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return entries, nil
		}
		return nil, fmt.Errorf("read ledger: %w", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		l.log.Warnf("ledger %s is corrupted, starting over: %v", path, err)
		return entries, nil
	}

	pattern := domain.LedgerKeyPattern(product)
	dropped := 0
	for key, value := range raw {
		if !pattern.MatchString(key) {
			dropped++
			continue
		}
		var r domain.ScenarioResult
		if err := json.Unmarshal(value, &r); err != nil {
			dropped++
			continue
		}
		entries[key] = r
	}
	if dropped > 0 {
		l.log.Warnf("dropped %d invalid ledger entr(ies) from %s", dropped, path)
	}
	return entries, nil
}
