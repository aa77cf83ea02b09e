package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/fieldplan/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// StatusColor returns the style of a plan status: NEW blue, OPEN yellow,
// CLOSED green, REVISED purple.
func StatusColor(s domain.PlanStatus) lipgloss.Style {
	switch s {
	case domain.StatusNew:
		return StyleBlue
	case domain.StatusOpen:
		return StyleYellow
	case domain.StatusClosed:
		return StyleGreen
	case domain.StatusRevised:
		return StylePurple
	default:
		return StyleDim
	}
}

// StatusBadge renders "● STATUS", with the revision appended once the plan
// has been reopened. A nil header renders as an unsaved plan.
func StatusBadge(h *domain.PlanningHeader) string {
	if h == nil {
		return StyleDim.Render("● UNSAVED")
	}
	label := "● " + string(h.Status)
	if h.Revision > 0 {
		label += fmt.Sprintf(" r%d", h.Revision)
	}
	return StatusColor(h.Status).Render(label)
}

// SlotLabel renders a time slot, "-" when unset.
func SlotLabel(t domain.TimeSlot) string {
	switch t {
	case domain.SlotAM:
		return StyleFg.Render("AM")
	case domain.SlotPM:
		return StyleFg.Render("PM")
	default:
		return StyleDim.Render("-")
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}

// Warning renders a yellow "! text" line.
func Warning(text string) string {
	return StyleYellow.Render("! " + text)
}
