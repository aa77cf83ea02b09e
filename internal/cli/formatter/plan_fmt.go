package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/fieldplan/internal/domain"
)

// PlanView is everything FormatPlan needs about an open plan.
type PlanView struct {
	Day           time.Time
	Today         time.Time
	Header        *domain.PlanningHeader
	Rows          []domain.DetailRow
	ReadOnly      bool
	ShowResources bool
	FeedErr       error
	Orphans       []domain.DetailRow
}

// FormatPlan renders the plan header line, warnings and the row table.
// Rows are numbered from 1 in display order; commands address rows by that
// number.
func FormatPlan(v PlanView) string {
	var b strings.Builder

	title := fmt.Sprintf("%s  %s  %s",
		Bold(v.Day.Format(domain.DayLayout)),
		StatusBadge(v.Header),
		Dim(RelativeDay(v.Day, v.Today)))
	if v.ReadOnly {
		title += "  " + StyleRed.Render("read-only")
	}
	b.WriteString(title + "\n")
	if v.Header != nil && v.Header.ModifiedBy != "" {
		b.WriteString(Dim("last change by "+v.Header.ModifiedBy) + "\n")
	}

	if v.FeedErr != nil {
		b.WriteString(Warning("calendar: "+v.FeedErr.Error()) + "\n")
	}
	if len(v.Orphans) > 0 {
		b.WriteString(Warning(fmt.Sprintf("%d row(s) left the calendar but could not be removed; the next save drops them", len(v.Orphans))) + "\n")
	}
	b.WriteString("\n")

	if len(v.Rows) == 0 {
		b.WriteString(Dim("No activities planned.") + "\n")
		return b.String()
	}

	b.WriteString(RenderCompletion(v.Rows, v.ShowResources, 16) + "\n\n")

	headers := []string{"#", "SLOT", "CLIENT", "ACTIVITY", "INTERVENTIONS"}
	if v.ShowResources {
		headers = append(headers, "RESOURCES")
	}
	headers = append(headers, "MAT", "OK", "SRC")

	rows := make([][]string, 0, len(v.Rows))
	for i, r := range v.Rows {
		cells := []string{
			strconv.Itoa(i + 1),
			SlotLabel(r.TimeSlot),
			clientLabel(r.Client),
			Truncate(r.DisplayTitle(), 40),
			interventionsLabel(r.Interventions),
		}
		if v.ShowResources {
			cells = append(cells, resourcesLabel(r.AssignedResources))
		}
		cells = append(cells, Check(r.MaterialAvailable), Check(r.Complete(v.ShowResources)), sourceLabel(r))
		rows = append(rows, cells)
	}
	b.WriteString(Table{Headers: headers, Rows: rows, RightAlign: map[int]bool{0: true}}.Render())
	return b.String()
}

// FormatPlanList renders the plans of a period, one line per day.
func FormatPlanList(plans []domain.PlanningSummary, today time.Time) string {
	if len(plans) == 0 {
		return Dim("No plannings in this period.")
	}
	rows := make([][]string, 0, len(plans))
	for _, p := range plans {
		lock := ""
		if p.Locked {
			lock = StyleRed.Render("locked")
		}
		rows = append(rows, []string{
			strconv.FormatInt(p.ID, 10),
			p.Day.Format(domain.DayLayout),
			Dim(RelativeDay(p.Day, today)),
			StatusColor(p.Status).Render(string(p.Status)),
			strconv.Itoa(p.Revision),
			strconv.Itoa(p.RowCount),
			lock,
			p.ModifiedBy,
		})
	}
	return Table{
		Headers:    []string{"ID", "DAY", "WHEN", "STATUS", "REV", "ROWS", "", "BY"},
		Rows:       rows,
		RightAlign: map[int]bool{0: true, 4: true, 5: true},
	}.Render()
}

// FormatHistory renders the operation log of a plan, oldest first.
func FormatHistory(entries []domain.OperationLog) string {
	if len(entries) == 0 {
		return Dim("No operations recorded.")
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.CreatedAt.Local().Format("2006-01-02 15:04"),
			operationLabel(e.Operation),
			e.User,
			e.Description,
		})
	}
	return RenderTable([]string{"WHEN", "OPERATION", "USER", "DETAIL"}, rows)
}

func operationLabel(op domain.OperationKind) string {
	switch op {
	case domain.OpFinalize:
		return StyleGreen.Render(string(op))
	case domain.OpReopen:
		return StylePurple.Render(string(op))
	case domain.OpDeleteRow:
		return StyleRed.Render(string(op))
	default:
		return StyleFg.Render(string(op))
	}
}

func clientLabel(c *domain.ClientRef) string {
	if c == nil {
		return Dim("-")
	}
	if c.ClientName == "" {
		return fmt.Sprintf("site %d", c.SiteID)
	}
	if c.SiteName != "" && c.SiteName != c.ClientName {
		return Truncate(c.ClientName+" / "+c.SiteName, 30)
	}
	return Truncate(c.ClientName, 30)
}

func interventionsLabel(items []domain.InterventionAssignment) string {
	if len(items) == 0 {
		return Dim("-")
	}
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = fmt.Sprintf("%s x%d", it.TypeName, it.Quantity)
	}
	return Truncate(strings.Join(parts, ", "), 40)
}

func resourcesLabel(refs []domain.ResourceRef) string {
	if len(refs) == 0 {
		return Dim("-")
	}
	names := make([]string, len(refs))
	for i, r := range refs {
		names[i] = domain.CoalesceStr(r.Name, r.Username)
	}
	return Truncate(strings.Join(names, ", "), 30)
}

func sourceLabel(r domain.DetailRow) string {
	if r.IsExternal() {
		return StyleBlue.Render("cal")
	}
	return Dim("man")
}
