package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/fieldplan/internal/domain"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderCompletion renders the share of complete rows as a bar such as
// [████░░░░] 3/8. Green when every row is complete, yellow past half, red
// otherwise.
func RenderCompletion(rows []domain.DetailRow, requireResources bool, width int) string {
	width = max(width, 2)
	total := len(rows)
	done := 0
	for i := range rows {
		if rows[i].Complete(requireResources) {
			done++
		}
	}

	filled := 0
	if total > 0 {
		filled = done * width / total
	}
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleRed
	switch {
	case total > 0 && done == total:
		style = StyleGreen
	case total > 0 && done*2 >= total:
		style = StyleYellow
	}
	return fmt.Sprintf("[%s] %d/%d complete", style.Render(bar), done, total)
}
