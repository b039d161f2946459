package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
	"time"

	"psr/internal/domain"
)

func sampleResult(id int, status domain.OverallStatus) domain.ScenarioResult {
	start := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	stepEnd := start.Add(500 * time.Millisecond)
	return domain.ScenarioResult{
		ScenarioID:        id,
		Product:           "product",
		Title:             fmt.Sprintf("Scenario %d", id),
		OverallStatus:     status,
		DurationMs:        800,
		DurationFormatted: domain.FormatDuration(800),
		StartTime:         start,
		EndTime:           start.Add(800 * time.Millisecond),
		Steps: []domain.StepResult{
			{Name: "A", Status: domain.StatusPass, DurationMs: 500, StartTime: &start, EndTime: &stepEnd},
			{Name: "B", Status: domain.StatusFail, DurationMs: 300, Error: "boom", ErrorKind: domain.ErrorKindException},
		},
	}
}

func newLedger() *JSONLedger {
	return NewJSONLedger(5*time.Second, time.Minute, nil)
}

func TestJSONLedger_RoundTripBothAliases(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom-reports", "scenario-results.json")
	ledger := newLedger()
	result := sampleResult(7, domain.OverallFail)

	if err := ledger.MergeAndPersist(path, "product", result); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries, err := ledger.Load(path, "product")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	for _, key := range []string{"product-scenario-7", "scenario-7"} {
		got, ok := entries[key]
		if !ok {
			t.Fatalf("missing key %s", key)
		}
		if !reflect.DeepEqual(got, result) {
			t.Errorf("key %s: expected %+v, got %+v", key, result, got)
		}
	}

	got, ok, err := ledger.Get(path, "product", 7)
	if err != nil || !ok || !reflect.DeepEqual(got, result) {
		t.Errorf("Get: expected result, got %+v ok=%v err=%v", got, ok, err)
	}
}

func TestJSONLedger_PrettyPrinted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.json")
	if err := newLedger().MergeAndPersist(path, "product", sampleResult(1, domain.OverallPass)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(data) < 4 || string(data[:4]) != "{\n  " {
		t.Errorf("expected 2-space indented JSON, got %q", string(data[:min(len(data), 20)]))
	}
	if _, err := os.Stat(path + ".lock"); !os.IsNotExist(err) {
		t.Error("lock file should be released")
	}
}

func TestJSONLedger_SelfHealing(t *testing.T) {
	tests := []struct {
		name    string
		content func(t *testing.T) string
		keep    []string
		drop    []string
	}{
		{
			name: "invalid key dropped, valid key kept",
			content: func(t *testing.T) string {
				valid, _ := json.Marshal(sampleResult(3, domain.OverallPass))
				return fmt.Sprintf(`{"scenario-3": %s, "{\"scenarioId\":3}": %s}`, valid, valid)
			},
			keep: []string{"scenario-3", "product-scenario-9", "scenario-9"},
			drop: []string{`{"scenarioId":3}`},
		},
		{
			name: "other product key dropped",
			content: func(t *testing.T) string {
				valid, _ := json.Marshal(sampleResult(4, domain.OverallPass))
				return fmt.Sprintf(`{"other-scenario-4": %s, "4": %s}`, valid, valid)
			},
			keep: []string{"4", "scenario-9"},
			drop: []string{"other-scenario-4"},
		},
		{
			name: "undecodable value dropped",
			content: func(t *testing.T) string {
				return `{"scenario-5": "not an object"}`
			},
			keep: []string{"scenario-9"},
			drop: []string{"scenario-5"},
		},
		{
			name:    "unparsable document starts over",
			content: func(t *testing.T) string { return `{"scenario-1": {` },
			keep:    []string{"scenario-9"},
			drop:    []string{"scenario-1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "ledger.json")
			if err := os.WriteFile(path, []byte(tt.content(t)), 0644); err != nil {
				t.Fatalf("seed: %v", err)
			}
			ledger := newLedger()
			if err := ledger.MergeAndPersist(path, "product", sampleResult(9, domain.OverallPass)); err != nil {
				t.Fatalf("merge: %v", err)
			}

			var raw map[string]json.RawMessage
			data, _ := os.ReadFile(path)
			if err := json.Unmarshal(data, &raw); err != nil {
				t.Fatalf("ledger not valid JSON after merge: %v", err)
			}
			for _, k := range tt.keep {
				if _, ok := raw[k]; !ok {
					t.Errorf("expected key %q to be kept", k)
				}
			}
			for _, k := range tt.drop {
				if _, ok := raw[k]; ok {
					t.Errorf("expected key %q to be dropped", k)
				}
			}
		})
	}
}

func TestJSONLedger_SupersedesPreviousRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.json")
	ledger := newLedger()
	ledger.MergeAndPersist(path, "product", sampleResult(2, domain.OverallFail))
	latest := sampleResult(2, domain.OverallPass)
	latest.Steps = latest.Steps[:1]
	if err := ledger.MergeAndPersist(path, "product", latest); err != nil {
		t.Fatalf("merge: %v", err)
	}

	got, _, _ := ledger.Get(path, "product", 2)
	if got.OverallStatus != domain.OverallPass || len(got.Steps) != 1 {
		t.Errorf("expected the latest run to replace the previous one, got %+v", got)
	}
}

func TestJSONLedger_Results(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.json")
	ledger := newLedger()
	for _, id := range []int{3, 1, 2} {
		if err := ledger.MergeAndPersist(path, "product", sampleResult(id, domain.OverallPass)); err != nil {
			t.Fatalf("merge: %v", err)
		}
	}
	results, err := ledger.Results(path, "product")
	if err != nil {
		t.Fatalf("results: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, r := range results {
		if r.ScenarioID != i+1 {
			t.Errorf("expected id %d at %d, got %d", i+1, i, r.ScenarioID)
		}
	}
}

func TestJSONLedger_MissingFileIsEmpty(t *testing.T) {
	entries, err := newLedger().Load(filepath.Join(t.TempDir(), "none.json"), "product")
	if err != nil || len(entries) != 0 {
		t.Errorf("expected empty ledger, got %v err=%v", entries, err)
	}
	_, ok, err := newLedger().Get(filepath.Join(t.TempDir(), "none.json"), "product", 1)
	if ok || err != nil {
		t.Errorf("expected not found, got ok=%v err=%v", ok, err)
	}
}

// Without the lock, concurrent read-modify-write cycles lose updates. With
// it, every scenario written concurrently survives.
func TestJSONLedger_ConcurrentMergesKeepEveryScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.json")
	const writers = 12

	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 1; i <= writers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			errs <- newLedger().MergeAndPersist(path, "product", sampleResult(id, domain.OverallPass))
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("merge: %v", err)
		}
	}

	entries, err := newLedger().Load(path, "product")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(entries) != writers*2 {
		t.Errorf("expected %d keys, got %d", writers*2, len(entries))
	}
}
