package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Environment variables read after the project's .env is loaded
const (
	EnvProduct    = "PSR_PRODUCT"
	EnvConfigFile = "PSR_CONFIG"
	EnvRunner     = "PSR_RUNNER"
	EnvServeAddr  = "PSR_ADDR"

	EnvDBHost     = "RESULTS_DB_HOST"
	EnvDBPort     = "RESULTS_DB_PORT"
	EnvDBUser     = "RESULTS_DB_USERNAME"
	EnvDBPassword = "RESULTS_DB_PASSWORD"
	EnvDBName     = "RESULTS_DB_DATABASE"
)

// DBConfig holds connection settings for the optional run history database
type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// LoadEnv loads a dotenv file. A missing file is not an error; variables
// already present in the environment are kept.
func LoadEnv(path string) {
	if err := godotenv.Load(path); err != nil {
		// .env file might not exist, that's okay - use environment variables
		_ = err
	}
}

// DBConfigFromEnv reads RESULTS_DB_* variables
func DBConfigFromEnv() DBConfig {
	db := DBConfig{
		Host:     os.Getenv(EnvDBHost),
		Port:     os.Getenv(EnvDBPort),
		User:     os.Getenv(EnvDBUser),
		Password: os.Getenv(EnvDBPassword),
		Name:     os.Getenv(EnvDBName),
	}
	if db.Host != "" {
		if db.Port == "" {
			db.Port = "3306"
		}
		if db.User == "" {
			db.User = "root"
		}
		if db.Name == "" {
			db.Name = "psr_results"
		}
	}
	return db
}

// Enabled reports whether a database host was configured
func (d DBConfig) Enabled() bool {
	return d.Host != ""
}

// ServerDSN connects to the server without selecting a database
func (d DBConfig) ServerDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/?parseTime=true", d.User, d.Password, d.Host, d.Port)
}

// DSN connects to the results database
func (d DBConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true", d.User, d.Password, d.Host, d.Port, d.Name)
}
