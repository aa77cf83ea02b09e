package formatter

import (
	"strconv"

	"github.com/alexanderramin/fieldplan/internal/domain"
)

func FormatInterventionReport(totals []domain.InterventionTotal) string {
	if len(totals) == 0 {
		return Dim("No interventions in this period.")
	}
	rows := make([][]string, 0, len(totals)+1)
	sumQty, sumRows := 0, 0
	for _, t := range totals {
		rows = append(rows, []string{
			strconv.FormatInt(t.TypeID, 10),
			t.TypeName,
			strconv.Itoa(t.Quantity),
			strconv.Itoa(t.Rows),
		})
		sumQty += t.Quantity
		sumRows += t.Rows
	}
	rows = append(rows, []string{"", Bold("Total"), Bold(strconv.Itoa(sumQty)), Dim(strconv.Itoa(sumRows))})
	return Table{
		Headers:    []string{"ID", "INTERVENTION", "QTY", "ROWS"},
		Rows:       rows,
		RightAlign: map[int]bool{0: true, 2: true, 3: true},
	}.Render()
}

func FormatTopResources(totals []domain.ResourceTotal) string {
	if len(totals) == 0 {
		return Dim("No assigned resources in this period.")
	}
	rows := make([][]string, 0, len(totals))
	for i, t := range totals {
		rows = append(rows, []string{strconv.Itoa(i + 1), t.Name, Dim(t.Username), strconv.Itoa(t.Rows)})
	}
	return Table{
		Headers:    []string{"#", "RESOURCE", "USERNAME", "ROWS"},
		Rows:       rows,
		RightAlign: map[int]bool{0: true, 3: true},
	}.Render()
}
