package importer

import (
	"fmt"
	"strings"
)

// ValidateCatalogSchema checks the catalog for errors before conversion.
// Returns a slice of all validation errors found.
func ValidateCatalogSchema(schema *CatalogSchema) []error {
	var errs []error

	sites := make(map[int64]bool)
	for i, c := range schema.Clients {
		prefix := fmt.Sprintf("clients[%d]", i)
		if c.SiteID <= 0 {
			errs = append(errs, fmt.Errorf("%s.site_id must be positive", prefix))
		} else if sites[c.SiteID] {
			errs = append(errs, fmt.Errorf("%s.site_id %d is duplicated", prefix, c.SiteID))
		}
		sites[c.SiteID] = true
		if strings.TrimSpace(c.Name) == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}
	}

	types := make(map[int64]bool)
	for i, t := range schema.InterventionTypes {
		prefix := fmt.Sprintf("intervention_types[%d]", i)
		if t.ID <= 0 {
			errs = append(errs, fmt.Errorf("%s.id must be positive", prefix))
		} else if types[t.ID] {
			errs = append(errs, fmt.Errorf("%s.id %d is duplicated", prefix, t.ID))
		}
		types[t.ID] = true
	}

	users := make(map[string]bool)
	for i, r := range schema.Resources {
		prefix := fmt.Sprintf("resources[%d]", i)
		u := strings.TrimSpace(r.Username)
		if u == "" {
			errs = append(errs, fmt.Errorf("%s.username is required", prefix))
			continue
		}
		if users[u] {
			errs = append(errs, fmt.Errorf("%s.username %q is duplicated", prefix, u))
		}
		users[u] = true
	}

	if len(schema.Clients)+len(schema.InterventionTypes)+len(schema.Resources) == 0 {
		errs = append(errs, fmt.Errorf("catalog file is empty"))
	}
	return errs
}
