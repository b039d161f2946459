package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"psr/internal/config"
	"psr/internal/domain"
	"psr/internal/storage"
)

const (
	indexFile      = "index.html"
	snapshotLayout = "20060102-150405"
)

// Writer writes rendered reports into a product's report tree. It is the
// single report strategy for every product; products differ only by profile.
type Writer struct {
	renderer *Renderer
	history  History
	index    *storage.ScenarioIndex
}

// NewWriter creates a new Writer
func NewWriter(renderer *Renderer, index *storage.ScenarioIndex) *Writer {
	if renderer == nil {
		renderer = NewRenderer()
	}
	return &Writer{renderer: renderer, index: index}
}

// Save renders the scenario report into dir as index.html and as a
// report-YYYYMMDD-HHMMSS.html snapshot.
func (w *Writer) Save(dir string, profile config.ProductProfile, result domain.ScenarioResult, now time.Time) (domain.ReportArtifact, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return domain.ReportArtifact{}, fmt.Errorf("create report dir: %w", err)
	}

	snapshot, err := snapshotPath(dir, now)
	if err != nil {
		return domain.ReportArtifact{}, err
	}
	history, err := w.history.List(dir)
	if err != nil {
		return domain.ReportArtifact{}, err
	}
	// the snapshot being written heads the list
	history = append([]domain.HistoryEntry{{Filename: filepath.Base(snapshot), Path: snapshot, Timestamp: now}}, history...)

	html, err := w.renderer.Render(result.ScenarioID, result, profile, now, history)
	if err != nil {
		return domain.ReportArtifact{}, err
	}

	if err := storage.WriteFileAtomic(snapshot, []byte(html)); err != nil {
		return domain.ReportArtifact{}, fmt.Errorf("write snapshot: %w", err)
	}
	htmlPath := filepath.Join(dir, indexFile)
	if err := storage.WriteFileAtomic(htmlPath, []byte(html)); err != nil {
		return domain.ReportArtifact{}, fmt.Errorf("write report: %w", err)
	}

	return domain.ReportArtifact{
		ScenarioID:   result.ScenarioID,
		HTMLPath:     htmlPath,
		SnapshotPath: snapshot,
		RenderedAt:   now,
	}, nil
}

// Rewrite re-renders index.html of a scenario without taking a snapshot
func (w *Writer) Rewrite(dir string, profile config.ProductProfile, result domain.ScenarioResult, now time.Time) (domain.ReportArtifact, error) {
	history, err := w.history.List(dir)
	if err != nil {
		return domain.ReportArtifact{}, err
	}
	html, err := w.renderer.Render(result.ScenarioID, result, profile, now, history)
	if err != nil {
		return domain.ReportArtifact{}, err
	}
	htmlPath := filepath.Join(dir, indexFile)
	if err := storage.WriteFileAtomic(htmlPath, []byte(html)); err != nil {
		return domain.ReportArtifact{}, fmt.Errorf("write report: %w", err)
	}
	return domain.ReportArtifact{ScenarioID: result.ScenarioID, HTMLPath: htmlPath, RenderedAt: now}, nil
}

// UpdateIndex records the result in the index file and re-renders the
// product dashboard at <reportsRoot>/index.html.
func (w *Writer) UpdateIndex(reportsRoot, indexPath string, profile config.ProductProfile, result domain.ScenarioResult, now time.Time) (string, error) {
	entry := domain.IndexEntry{
		ScenarioID:        result.ScenarioID,
		Title:             result.Title,
		Status:            result.OverallStatus,
		DurationFormatted: result.DurationFormatted,
		LastRun:           result.EndTime,
		ReportPath:        fmt.Sprintf("scenario-%d/%s", result.ScenarioID, indexFile),
	}
	doc, err := w.index.Update(indexPath, profile.Key, entry, now)
	if err != nil {
		return "", err
	}
	return w.WriteDashboard(reportsRoot, profile, doc, now)
}

// WriteDashboard renders doc to <reportsRoot>/index.html
func (w *Writer) WriteDashboard(reportsRoot string, profile config.ProductProfile, doc storage.IndexDocument, now time.Time) (string, error) {
	html, err := w.renderer.RenderDashboard(profile, doc, now)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(reportsRoot, 0755); err != nil {
		return "", fmt.Errorf("create reports dir: %w", err)
	}
	path := filepath.Join(reportsRoot, indexFile)
	if err := storage.WriteFileAtomic(path, []byte(html)); err != nil {
		return "", fmt.Errorf("write dashboard: %w", err)
	}
	return path, nil
}

// snapshotPath picks report-<timestamp>.html, adding a counter when a run in
// the same second already claimed the name.
func snapshotPath(dir string, now time.Time) (string, error) {
	base := "report-" + now.Format(snapshotLayout)
	path := filepath.Join(dir, base+".html")
	for n := 2; ; n++ {
		_, err := os.Stat(path)
		if os.IsNotExist(err) {
			return path, nil
		}
		if err != nil {
			return "", fmt.Errorf("check snapshot name: %w", err)
		}
		path = filepath.Join(dir, fmt.Sprintf("%s-%d.html", base, n))
	}
}
