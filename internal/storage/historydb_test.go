package storage

import (
	"context"
	"testing"

	"psr/internal/config"
)

func TestNewRecorder_DisabledIsNop(t *testing.T) {
	rec, err := NewRecorder(context.Background(), config.DBConfig{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := rec.(NopRecorder); !ok {
		t.Errorf("expected NopRecorder, got %T", rec)
	}
	if err := rec.Record(context.Background(), sampleResult(1, "pass")); err != nil {
		t.Errorf("nop record: %v", err)
	}
}

func TestOpenHistoryDB_RejectsUnsafeName(t *testing.T) {
	_, err := OpenHistoryDB(context.Background(), config.DBConfig{Host: "127.0.0.1", Port: "1", Name: "x`; DROP"})
	if err == nil {
		t.Error("expected error for unsafe database name")
	}
}

func TestIsValidDatabaseName(t *testing.T) {
	tests := []struct {
		name     string
		expected bool
	}{
		{"psr_results", true},
		{"Results2026", true},
		{"", false},
		{"bad-name", false},
		{"x'y", false},
	}
	for _, tt := range tests {
		if got := isValidDatabaseName(tt.name); got != tt.expected {
			t.Errorf("isValidDatabaseName(%q): expected %v, got %v", tt.name, tt.expected, got)
		}
	}
}
