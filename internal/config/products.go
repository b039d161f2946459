package config

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// ProductProfile is the static description of one product's suite. The
// report pipeline is parameterised by this value only.
type ProductProfile struct {
	Key            string          `yaml:"key"`
	Name           string          `yaml:"name"`
	Icon           string          `yaml:"icon"`
	PrimaryColor   string          `yaml:"primary_color"`
	SecondaryColor string          `yaml:"secondary_color"`
	Root           string          `yaml:"root"`
	TestDir        string          `yaml:"test_dir"`
	Defaults       ProductDefaults `yaml:"defaults"`
	// ExplicitFailureFirst selects whether an explicit failed status is
	// consulted before closed-browser detection. Unset means true.
	ExplicitFailureFirst *bool      `yaml:"explicit_failure_takes_precedence"`
	ExcludeLabels        []string   `yaml:"exclude_labels"`
	Scenarios            []Scenario `yaml:"scenarios"`
}

// ProductDefaults are default settings shown on the reports
type ProductDefaults struct {
	Project string `yaml:"project"`
	User    string `yaml:"user"`
}

// Scenario is one configured scenario of a product
type Scenario struct {
	ID    int      `yaml:"id"`
	Title string   `yaml:"title"`
	File  string   `yaml:"file"`
	Steps []string `yaml:"steps"`
}

type productsFile struct {
	Products []ProductProfile `yaml:"products"`
}

// ExplicitFailureTakesPrecedence resolves the policy flag
func (p ProductProfile) ExplicitFailureTakesPrecedence() bool {
	if p.ExplicitFailureFirst == nil {
		return true
	}
	return *p.ExplicitFailureFirst
}

// Labels returns the denylist for step titles
func (p ProductProfile) Labels() []string {
	labels := make([]string, 0, len(DefaultExcludeLabels)+len(p.ExcludeLabels))
	labels = append(labels, DefaultExcludeLabels...)
	return append(labels, p.ExcludeLabels...)
}

// Scenario finds a scenario by id. Unknown ids get a placeholder so that a
// spec file dropped into the test dir can still be run.
func (p ProductProfile) Scenario(id int) (Scenario, bool) {
	for _, s := range p.Scenarios {
		if s.ID == id {
			return s, true
		}
	}
	return Scenario{ID: id, Title: fmt.Sprintf("Scenario %d", id)}, false
}

// SortedScenarios returns the scenarios ordered by id
func (p ProductProfile) SortedScenarios() []Scenario {
	out := append([]Scenario(nil), p.Scenarios...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// LoadProducts reads the profiles file. A missing file yields no products
// so the caller keeps its defaults.
func LoadProducts(path string) (map[string]ProductProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read config %q: %w", path, err)
	}

	var file productsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse config %q: %w", path, err)
	}

	products := make(map[string]ProductProfile, len(file.Products))
	for i, p := range file.Products {
		if p.Key == "" {
			return nil, fmt.Errorf("parse config %q: product %d has no key", path, i+1)
		}
		if _, dup := products[p.Key]; dup {
			return nil, fmt.Errorf("parse config %q: duplicate product %q", path, p.Key)
		}
		products[p.Key] = withDefaults(p)
	}
	return products, nil
}

func withDefaults(p ProductProfile) ProductProfile {
	def := DefaultProfile()
	if p.Name == "" {
		p.Name = p.Key
	}
	if p.Icon == "" {
		p.Icon = def.Icon
	}
	if p.PrimaryColor == "" {
		p.PrimaryColor = def.PrimaryColor
	}
	if p.SecondaryColor == "" {
		p.SecondaryColor = def.SecondaryColor
	}
	if p.Root == "" {
		p.Root = p.Key
	}
	if p.TestDir == "" {
		p.TestDir = DefaultTestDir
	}
	return p
}
