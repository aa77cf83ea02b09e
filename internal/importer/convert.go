package importer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/fieldplan/internal/domain"
)

// Convert validates schema and maps it to catalog records.
func Convert(schema *CatalogSchema) (*domain.Catalogs, error) {
	if errs := ValidateCatalogSchema(schema); len(errs) > 0 {
		return nil, fmt.Errorf("%w: invalid catalog: %w", domain.ErrValidation, errors.Join(errs...))
	}

	out := &domain.Catalogs{}
	for _, c := range schema.Clients {
		out.Clients = append(out.Clients, domain.Client{
			SiteID:     c.SiteID,
			ClientName: strings.TrimSpace(c.Name),
			SiteName:   domain.CoalesceStr(strings.TrimSpace(c.Site), domain.SameSiteMarker),
		})
	}
	for _, t := range schema.InterventionTypes {
		out.InterventionTypes = append(out.InterventionTypes, domain.InterventionType{
			ID:          t.ID,
			Description: strings.TrimSpace(t.Description),
		})
	}
	for _, r := range schema.Resources {
		out.Resources = append(out.Resources, domain.Resource{
			Username:  strings.TrimSpace(r.Username),
			FirstName: strings.TrimSpace(r.FirstName),
			LastName:  strings.TrimSpace(r.LastName),
		})
	}
	return out, nil
}
