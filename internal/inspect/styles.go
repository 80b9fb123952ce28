package inspect

import (
	"github.com/charmbracelet/lipgloss"

	"svcctl/internal/registry"
)

var (
	Primary = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"}
	Success = lipgloss.AdaptiveColor{Light: "#05A167", Dark: "#05D176"}
	Error   = lipgloss.AdaptiveColor{Light: "#E06A56", Dark: "#F97171"}
	Warning = lipgloss.AdaptiveColor{Light: "#E0A956", Dark: "#F9C171"}
	Subtle  = lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#5C5C5C"}
	Border  = lipgloss.AdaptiveColor{Light: "#D1D1D1", Dark: "#3C3C3C"}
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(Primary).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	summaryStyle = lipgloss.NewStyle().Foreground(Subtle)
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(Primary).MarginBottom(1)
	errorStyle   = lipgloss.NewStyle().Foreground(Error)
	okStyle      = lipgloss.NewStyle().Foreground(Success)
)

// statusStyle colours a cell by lifecycle state.
func statusStyle(st registry.Status) lipgloss.Style {
	switch st {
	case registry.StatusCreated:
		return cellStyle.Foreground(Success)
	case registry.StatusException:
		return cellStyle.Foreground(Error)
	case registry.StatusCreatingRequirements, registry.StatusCreating,
		registry.StatusDestroyingDependents, registry.StatusDestroying:
		return cellStyle.Foreground(Warning)
	case registry.StatusDestroyed:
		return cellStyle.Foreground(Subtle)
	default:
		return cellStyle
	}
}
