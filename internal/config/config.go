package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	// Project settings
	ProjectPath string
	ConfigFile  string
	Product     string

	// Layout under each product root
	ReportsDir  string
	LedgerFile  string
	IndexFile   string
	ArtifactDir string

	// Execution settings
	RunnerCommand []string

	// Ledger locking
	LockTimeout  time.Duration
	StaleLockAge time.Duration

	// Dashboard server
	ServeAddr string

	// Optional run history database
	DB DBConfig

	// Loaded product profiles keyed by product key
	Products map[string]ProductProfile

	// Command flags
	Flags Flags
}

// Flags holds command-line flags
type Flags struct {
	Product     string
	ConfigFile  string
	ProjectPath string
	Verbose     bool
	ReportOnly  bool
	Addr        string
	All         bool
	Filter      string
	Parallel    int
	FailFast    bool
}

// New creates a new Config with defaults
func New() *Config {
	cfg := &Config{
		ProjectPath:  DefaultProjectPath,
		ConfigFile:   DefaultConfigFile,
		Product:      DefaultProduct,
		ReportsDir:   DefaultReportsDir,
		LedgerFile:   DefaultLedgerFile,
		IndexFile:    DefaultIndexFile,
		ArtifactDir:  DefaultArtifactDir,
		LockTimeout:  DefaultLockTimeout,
		StaleLockAge: DefaultStaleLockAge,
		ServeAddr:    DefaultServeAddr,
	}
	cfg.RunnerCommand = make([]string, len(DefaultRunnerCommand))
	copy(cfg.RunnerCommand, DefaultRunnerCommand)
	def := DefaultProfile()
	cfg.Products = map[string]ProductProfile{def.Key: def}
	return cfg
}

// Load builds a config from the project's .env, the profiles file and flags.
// Flags win over the environment, which wins over defaults.
func Load(flags Flags) (*Config, error) {
	cfg := New()
	cfg.Flags = flags
	if flags.ProjectPath != "" {
		cfg.ProjectPath = flags.ProjectPath
	}

	LoadEnv(filepath.Join(cfg.ProjectPath, DefaultEnvFile))
	cfg.applyEnv()

	if flags.ConfigFile != "" {
		cfg.ConfigFile = flags.ConfigFile
	}
	if flags.Product != "" {
		cfg.Product = flags.Product
	}
	if flags.Addr != "" {
		cfg.ServeAddr = flags.Addr
	}

	products, err := LoadProducts(cfg.configPath())
	if err != nil {
		return nil, err
	}
	if len(products) > 0 {
		cfg.Products = products
		if flags.Product == "" && os.Getenv(EnvProduct) == "" && len(products) == 1 {
			for key := range products {
				cfg.Product = key
			}
		}
	}

	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvProduct); v != "" {
		c.Product = v
	}
	if v := os.Getenv(EnvConfigFile); v != "" {
		c.ConfigFile = v
	}
	if v := strings.Fields(os.Getenv(EnvRunner)); len(v) > 0 {
		c.RunnerCommand = v
	}
	if v := os.Getenv(EnvServeAddr); v != "" {
		c.ServeAddr = v
	}
	c.DB = DBConfigFromEnv()
}

func (c *Config) configPath() string {
	if filepath.IsAbs(c.ConfigFile) {
		return c.ConfigFile
	}
	return filepath.Join(c.ProjectPath, c.ConfigFile)
}

// Profile returns the selected product profile
func (c *Config) Profile() (ProductProfile, error) {
	p, ok := c.Products[c.Product]
	if !ok {
		return ProductProfile{}, fmt.Errorf("unknown product %q (configured: %s)", c.Product, strings.Join(c.ProductKeys(), ", "))
	}
	return p, nil
}

// ProductKeys lists the configured product keys in sorted order
func (c *Config) ProductKeys() []string {
	keys := make([]string, 0, len(c.Products))
	for k := range c.Products {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ProductRoot returns the absolute root directory of a product
func (c *Config) ProductRoot(p ProductProfile) string {
	root := p.Root
	if root == "" {
		root = "."
	}
	if !filepath.IsAbs(root) {
		root = filepath.Join(c.ProjectPath, root)
	}
	if abs, err := filepath.Abs(root); err == nil {
		return abs
	}
	return root
}

// ReportsRoot returns <product-root>/custom-reports
func (c *Config) ReportsRoot(p ProductProfile) string {
	return filepath.Join(c.ProductRoot(p), c.ReportsDir)
}

// LedgerPath returns the ledger file of a product
func (c *Config) LedgerPath(p ProductProfile) string {
	return filepath.Join(c.ReportsRoot(p), c.LedgerFile)
}

// IndexPath returns the dashboard data file of a product
func (c *Config) IndexPath(p ProductProfile) string {
	return filepath.Join(c.ReportsRoot(p), c.IndexFile)
}

// ScenarioReportDir returns <reports>/scenario-<id>
func (c *Config) ScenarioReportDir(p ProductProfile, scenarioID int) string {
	return filepath.Join(c.ReportsRoot(p), fmt.Sprintf("scenario-%d", scenarioID))
}

// ArtifactPath returns where the runner writes the JSON report for a scenario
func (c *Config) ArtifactPath(p ProductProfile, scenarioID int) string {
	return filepath.Join(c.ProductRoot(p), c.ArtifactDir, fmt.Sprintf("scenario-%d.json", scenarioID))
}

// TestFilePath returns the absolute path of a scenario's spec file
func (c *Config) TestFilePath(p ProductProfile, s Scenario) string {
	file := s.File
	if file == "" {
		file = fmt.Sprintf("scenario-%d.spec.js", s.ID)
	}
	if filepath.IsAbs(file) {
		return file
	}
	dir := p.TestDir
	if dir == "" {
		dir = DefaultTestDir
	}
	return filepath.Join(c.ProductRoot(p), dir, file)
}
