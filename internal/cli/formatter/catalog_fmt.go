package formatter

import (
	"strconv"
	"strings"

	"github.com/alexanderramin/fieldplan/internal/domain"
)

// FormatCatalogs renders clients, intervention types and resources as three
// tables.
func FormatCatalogs(cat *domain.Catalogs) string {
	var b strings.Builder

	b.WriteString(Header("Clients") + "\n")
	clients := make([][]string, 0, len(cat.Clients))
	for _, c := range cat.Clients {
		clients = append(clients, []string{strconv.FormatInt(c.SiteID, 10), c.ClientName, c.SiteName})
	}
	b.WriteString(Table{Headers: []string{"SITE", "CLIENT", "SITE NAME"}, Rows: clients, RightAlign: map[int]bool{0: true}}.Render())

	b.WriteString("\n" + Header("Intervention types") + "\n")
	types := make([][]string, 0, len(cat.InterventionTypes))
	for _, t := range cat.InterventionTypes {
		types = append(types, []string{strconv.FormatInt(t.ID, 10), t.Name()})
	}
	b.WriteString(Table{Headers: []string{"ID", "DESCRIPTION"}, Rows: types, RightAlign: map[int]bool{0: true}}.Render())

	b.WriteString("\n" + Header("Resources") + "\n")
	resources := make([][]string, 0, len(cat.Resources))
	for _, r := range cat.Resources {
		resources = append(resources, []string{r.Username, r.Ref().Name, r.Initials()})
	}
	b.WriteString(RenderTable([]string{"USERNAME", "NAME", "INI"}, resources))

	return b.String()
}
