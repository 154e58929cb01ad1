package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Taxonomy represents the structure of the taxonomy.yaml file: the cities,
// neighborhoods and specialty vocabulary offered by the search filters and
// the submission form. Easier to maintain in YAML than env vars.
type Taxonomy struct {
	Cities      []CityConfig `yaml:"cities"`
	Specialties []string     `yaml:"specialties"`
}

// CityConfig defines a city and its known neighborhoods.
type CityConfig struct {
	Name          string   `yaml:"name"`
	Neighborhoods []string `yaml:"neighborhoods,omitempty"`
}

// LoadTaxonomy loads the YAML taxonomy file. Path is determined by the
// TAXONOMY_FILE env var, defaulting to "taxonomy.yaml". Returns nil without
// error if the file doesn't exist.
func LoadTaxonomy() (*Taxonomy, error) {
	path := getEnv("TAXONOMY_FILE", "taxonomy.yaml")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Taxonomy file is optional
			return nil, nil
		}
		return nil, err
	}

	var tax Taxonomy
	if err := yaml.Unmarshal(data, &tax); err != nil {
		return nil, err
	}

	return &tax, nil
}

// CityNames returns the configured city names in declaration order.
func (t *Taxonomy) CityNames() []string {
	if t == nil {
		return nil
	}
	names := make([]string, 0, len(t.Cities))
	for _, c := range t.Cities {
		names = append(names, c.Name)
	}
	return names
}

// SpecialtyNames returns the configured specialty vocabulary.
func (t *Taxonomy) SpecialtyNames() []string {
	if t == nil {
		return nil
	}
	return t.Specialties
}

// NeighborhoodsFor returns the neighborhoods configured for a city.
func (t *Taxonomy) NeighborhoodsFor(city string) []string {
	if t == nil {
		return nil
	}
	for _, c := range t.Cities {
		if c.Name == city {
			return c.Neighborhoods
		}
	}
	return nil
}

// HasSpecialty reports whether the specialty belongs to the configured
// vocabulary. An empty taxonomy accepts everything.
func (t *Taxonomy) HasSpecialty(specialty string) bool {
	if t == nil || len(t.Specialties) == 0 {
		return true
	}
	for _, s := range t.Specialties {
		if s == specialty {
			return true
		}
	}
	return false
}
