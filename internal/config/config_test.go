package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.ProjectPath != DefaultProjectPath {
		t.Errorf("expected ProjectPath %s, got %s", DefaultProjectPath, cfg.ProjectPath)
	}

	if cfg.Product != DefaultProduct {
		t.Errorf("expected Product %s, got %s", DefaultProduct, cfg.Product)
	}

	if len(cfg.RunnerCommand) != len(DefaultRunnerCommand) {
		t.Errorf("expected %d runner args, got %d", len(DefaultRunnerCommand), len(cfg.RunnerCommand))
	}

	if _, err := cfg.Profile(); err != nil {
		t.Errorf("default profile should resolve: %v", err)
	}
}

func TestConfig_Paths(t *testing.T) {
	cfg := New()
	cfg.ProjectPath = "/project"
	p := ProductProfile{Key: "shop", Root: "shop", TestDir: "e2e"}

	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{"product root", cfg.ProductRoot(p), "/project/shop"},
		{"reports root", cfg.ReportsRoot(p), "/project/shop/custom-reports"},
		{"ledger", cfg.LedgerPath(p), "/project/shop/custom-reports/scenario-results.json"},
		{"index", cfg.IndexPath(p), "/project/shop/custom-reports/scenarios.json"},
		{"scenario dir", cfg.ScenarioReportDir(p, 7), "/project/shop/custom-reports/scenario-7"},
		{"artifact", cfg.ArtifactPath(p, 7), "/project/shop/test-results/scenario-7.json"},
		{"default test file", cfg.TestFilePath(p, Scenario{ID: 7}), "/project/shop/e2e/scenario-7.spec.js"},
		{"named test file", cfg.TestFilePath(p, Scenario{ID: 7, File: "login.spec.js"}), "/project/shop/e2e/login.spec.js"},
		{"absolute test file", cfg.TestFilePath(p, Scenario{ID: 7, File: "/abs/x.spec.js"}), "/abs/x.spec.js"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, tt.got)
			}
		})
	}
}

func TestLoad_ProductsFile(t *testing.T) {
	dir := t.TempDir()
	content := `products:
  - key: shop
    name: Shop Admin
    primary_color: "#ff0000"
    explicit_failure_takes_precedence: false
    exclude_labels: ["Sidebar"]
    scenarios:
      - id: 2
        title: Checkout
        steps: ["open", "pay"]
      - id: 1
        title: Login
`
	if err := os.WriteFile(filepath.Join(dir, DefaultConfigFile), []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(Flags{ProjectPath: dir})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Product != "shop" {
		t.Errorf("single product should be selected, got %s", cfg.Product)
	}
	p, err := cfg.Profile()
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if p.Name != "Shop Admin" || p.PrimaryColor != "#ff0000" {
		t.Errorf("unexpected profile: %+v", p)
	}
	if p.SecondaryColor == "" || p.Icon == "" {
		t.Errorf("defaults should fill missing branding: %+v", p)
	}
	if p.Root != "shop" {
		t.Errorf("expected root to default to key, got %s", p.Root)
	}
	if p.ExplicitFailureTakesPrecedence() {
		t.Errorf("expected policy false")
	}
	labels := p.Labels()
	if labels[len(labels)-1] != "Sidebar" {
		t.Errorf("expected profile labels appended, got %v", labels)
	}
	sorted := p.SortedScenarios()
	if sorted[0].ID != 1 || sorted[1].ID != 2 {
		t.Errorf("expected scenarios sorted by id, got %+v", sorted)
	}
	if s, ok := p.Scenario(2); !ok || len(s.Steps) != 2 {
		t.Errorf("expected scenario 2 with 2 steps, got %+v", s)
	}
	if s, ok := p.Scenario(99); ok || s.Title != "Scenario 99" {
		t.Errorf("expected placeholder for unknown scenario, got %+v", s)
	}
}

func TestLoad_MissingFileKeepsDefaults(t *testing.T) {
	cfg, err := Load(Flags{ProjectPath: t.TempDir()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := cfg.Products[DefaultProduct]; !ok {
		t.Errorf("expected default product, got %v", cfg.ProductKeys())
	}
}

func TestLoad_InvalidFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "products: [\n"},
		{"missing key", "products:\n  - name: x\n"},
		{"duplicate key", "products:\n  - key: a\n  - key: a\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			os.WriteFile(filepath.Join(dir, DefaultConfigFile), []byte(tt.content), 0644)
			if _, err := Load(Flags{ProjectPath: dir}); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	env := "PSR_RUNNER=node run.js\nRESULTS_DB_HOST=db.local\n"
	if err := os.WriteFile(filepath.Join(dir, DefaultEnvFile), []byte(env), 0644); err != nil {
		t.Fatalf("write env: %v", err)
	}
	// registered so the variables godotenv sets are cleared afterwards
	t.Setenv(EnvRunner, "")
	t.Setenv(EnvDBHost, "")
	os.Unsetenv(EnvRunner)
	os.Unsetenv(EnvDBHost)

	cfg, err := Load(Flags{ProjectPath: dir, Product: "default"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.RunnerCommand) != 2 || cfg.RunnerCommand[0] != "node" {
		t.Errorf("expected runner from .env, got %v", cfg.RunnerCommand)
	}
	if !cfg.DB.Enabled() {
		t.Fatalf("expected db enabled")
	}
	if got, want := cfg.DB.DSN(), "root:@tcp(db.local:3306)/psr_results?parseTime=true"; got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestConfig_UnknownProduct(t *testing.T) {
	cfg := New()
	cfg.Product = "nope"
	if _, err := cfg.Profile(); err == nil {
		t.Error("expected error for unknown product")
	}
}
