package cli

import "psr/internal/config"

// Flags holds command-line flags
type Flags struct {
	Product     string
	ConfigFile  string
	ProjectPath string
	Verbose     bool
	ReportOnly  bool
	All         bool
	Filter      string
	Parallel    int
	FailFast    bool
	Addr        string
}

// ToConfigFlags converts CLI flags to config flags
func (f *Flags) ToConfigFlags() config.Flags {
	return config.Flags{
		Product:     f.Product,
		ConfigFile:  f.ConfigFile,
		ProjectPath: f.ProjectPath,
		Verbose:     f.Verbose,
		ReportOnly:  f.ReportOnly,
		Addr:        f.Addr,
		All:         f.All,
		Filter:      f.Filter,
		Parallel:    f.Parallel,
		FailFast:    f.FailFast,
	}
}
