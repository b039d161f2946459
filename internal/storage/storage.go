package storage

import (
	"time"

	"psr/internal/domain"
)

// Store persists the latest scenario results of a product (the ledger)
type Store interface {
	MergeAndPersist(path, product string, result domain.ScenarioResult) error
	Load(path, product string) (map[string]domain.ScenarioResult, error)
	Get(path, product string, scenarioID int) (domain.ScenarioResult, bool, error)
	Results(path, product string) ([]domain.ScenarioResult, error)
}

// Logger receives recoverable problems such as healed corruption
type Logger interface {
	Warnf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Warnf(string, ...any) {}

// JSONLedger stores results in a pretty-printed JSON object keyed by
// "<product>-scenario-<id>" and "scenario-<id>".
type JSONLedger struct {
	lockTimeout time.Duration
	staleAge    time.Duration
	log         Logger
}

// NewJSONLedger returns a Store backed by a JSON file per product
func NewJSONLedger(lockTimeout, staleAge time.Duration, log Logger) *JSONLedger {
	if log == nil {
		log = nopLogger{}
	}
	return &JSONLedger{lockTimeout: lockTimeout, staleAge: staleAge, log: log}
}
