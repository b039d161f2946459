package config

import "time"

const (
	// DefaultProjectPath is the default project path
	DefaultProjectPath = "."
	// DefaultConfigFile is the product profiles file looked up in the project path
	DefaultConfigFile = "psr.yaml"
	// DefaultEnvFile is the dotenv file looked up in the project path
	DefaultEnvFile = ".env"
	// DefaultProduct is used when neither the flag nor PSR_PRODUCT is set
	DefaultProduct = "default"
	// DefaultReportsDir is the report directory under each product root
	DefaultReportsDir = "custom-reports"
	// DefaultLedgerFile is the ledger file name inside the reports dir
	DefaultLedgerFile = "scenario-results.json"
	// DefaultIndexFile is the dashboard data file inside the reports dir
	DefaultIndexFile = "scenarios.json"
	// DefaultArtifactDir holds the runner's JSON reports under each product root
	DefaultArtifactDir = "test-results"
	// DefaultTestDir is where generated spec files live under each product root
	DefaultTestDir = "tests"
	// DefaultServeAddr is the dashboard listen address
	DefaultServeAddr = "127.0.0.1:8085"
	// DefaultLockTimeout bounds how long a ledger writer waits for the lock
	DefaultLockTimeout = 30 * time.Second
	// DefaultStaleLockAge is the age after which a ledger lock is ignored
	DefaultStaleLockAge = 2 * time.Minute
)

// DefaultRunnerCommand launches the Playwright test runner
var DefaultRunnerCommand = []string{"npx", "playwright", "test"}

// DefaultExcludeLabels are spec titles produced by the recorder's grouping,
// never user visible steps.
var DefaultExcludeLabels = []string{
	"test.describe",
	"메뉴 그룹",
	"Menu Group",
	"re:^describe\\b",
}

// DefaultProfile is used when no profiles file exists
func DefaultProfile() ProductProfile {
	return ProductProfile{
		Key:            DefaultProduct,
		Name:           "E2E Scenarios",
		Icon:           "🧪",
		PrimaryColor:   "#2563eb",
		SecondaryColor: "#1e40af",
		Root:           ".",
		TestDir:        DefaultTestDir,
	}
}
