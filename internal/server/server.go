package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"psr/internal/config"
	"psr/internal/domain"
	"psr/internal/report"
	"psr/internal/storage"
)

var reportFile = regexp.MustCompile(`^(?:index|report-[0-9]{8}-[0-9]{6}(?:-[0-9]+)?)\.html$`)

// Server serves a product's report tree and ledger over HTTP
type Server struct {
	cfg      *config.Config
	profile  config.ProductProfile
	ledger   storage.Store
	index    *storage.ScenarioIndex
	renderer *report.Renderer
	history  report.History
	now      func() time.Time
}

// New creates a new Server
func New(cfg *config.Config, profile config.ProductProfile, ledger storage.Store, index *storage.ScenarioIndex) *Server {
	return &Server{
		cfg:      cfg,
		profile:  profile,
		ledger:   ledger,
		index:    index,
		renderer: report.NewRenderer(),
		now:      time.Now,
	}
}

// Handler returns the router
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/", s.dashboard).Methods("GET")
	r.HandleFunc("/api/scenarios", s.listScenarios).Methods("GET")
	r.HandleFunc("/api/scenarios/{id:[0-9]+}", s.getScenario).Methods("GET")
	r.HandleFunc("/scenarios/{id:[0-9]+}", s.scenarioReport).Methods("GET")
	r.HandleFunc("/scenarios/{id:[0-9]+}/history", s.scenarioHistory).Methods("GET")
	r.HandleFunc("/scenarios/{id:[0-9]+}/history/{file}", s.historyFile).Methods("GET")
	// relative links inside the rendered reports
	r.HandleFunc("/scenario-{id:[0-9]+}/{file}", s.historyFile).Methods("GET")
	return r
}

// ListenAndServe serves until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	doc, err := s.index.Load(s.cfg.IndexPath(s.profile))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	html, err := s.renderer.RenderDashboard(s.profile, doc, s.now())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(html))
}

func (s *Server) listScenarios(w http.ResponseWriter, r *http.Request) {
	doc, err := s.index.Load(s.cfg.IndexPath(s.profile))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if doc.Scenarios == nil {
		doc.Scenarios = []domain.IndexEntry{}
	}
	writeJSON(w, doc)
}

func (s *Server) getScenario(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	result, ok, err := s.ledger.Get(s.cfg.LedgerPath(s.profile), s.profile.Key, id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	writeJSON(w, result)
}

func (s *Server) scenarioReport(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	http.Redirect(w, r, "/scenario-"+id+"/index.html", http.StatusFound)
}

type historyItem struct {
	Filename  string    `json:"filename"`
	URL       string    `json:"url"`
	Timestamp time.Time `json:"timestamp"`
}

func (s *Server) scenarioHistory(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	entries, err := s.history.List(s.cfg.ScenarioReportDir(s.profile, id))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	items := make([]historyItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, historyItem{
			Filename:  e.Filename,
			URL:       fmt.Sprintf("/scenarios/%d/history/%s", id, e.Filename),
			Timestamp: e.Timestamp,
		})
	}
	writeJSON(w, items)
}

func (s *Server) historyFile(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, _ := strconv.Atoi(vars["id"])
	file := vars["file"]
	// only rendered reports, never a path
	if !reportFile.MatchString(file) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	f, err := os.Open(filepath.Join(s.cfg.ScenarioReportDir(s.profile, id), file))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	http.ServeContent(w, r, file, info.ModTime(), f)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
