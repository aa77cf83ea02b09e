package importer

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// CatalogSchema is the top-level YAML structure for catalog import.
type CatalogSchema struct {
	Clients           []ClientImport           `yaml:"clients"`
	InterventionTypes []InterventionTypeImport `yaml:"intervention_types"`
	Resources         []ResourceImport         `yaml:"resources"`
}

// ClientImport defines one client site. Site "(la stessa)" means the site is
// the client's own premises.
type ClientImport struct {
	SiteID int64  `yaml:"site_id"`
	Name   string `yaml:"name"`
	Site   string `yaml:"site,omitempty"`
}

type InterventionTypeImport struct {
	ID          int64  `yaml:"id"`
	Description string `yaml:"description"`
}

type ResourceImport struct {
	Username  string `yaml:"username"`
	FirstName string `yaml:"first_name,omitempty"`
	LastName  string `yaml:"last_name,omitempty"`
}

// LoadCatalogSchema reads and parses a catalog import YAML file.
func LoadCatalogSchema(path string) (*CatalogSchema, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseCatalogSchema(f)
}

// ParseCatalogSchema decodes a catalog document. Unknown keys are rejected.
func ParseCatalogSchema(r io.Reader) (*CatalogSchema, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var schema CatalogSchema
	if err := dec.Decode(&schema); err != nil && err != io.EOF {
		return nil, fmt.Errorf("parsing catalog file: %w", err)
	}
	return &schema, nil
}
