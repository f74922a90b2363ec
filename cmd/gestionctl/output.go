package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/jhoicas/gestion-prep/internal/domain/entity"
)

var (
	successSymbol = "✓"
	errorSymbol   = "✗"
	infoSymbol    = "→"

	successStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#00D787", Dark: "#00D787"})
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"})
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#5FAFFF", Dark: "#5FAFFF"})
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#808080", Dark: "#808080"}).Width(22)
	headerStyle  = lipgloss.NewStyle().Bold(true)

	// Colores de estado del BMM: borrador naranja, validado verde, anulado rojo.
	statusColors = map[string]lipgloss.Color{
		entity.MovementStatusDraft:     lipgloss.Color("#FF8C00"),
		entity.MovementStatusValidated: lipgloss.Color("#28A745"),
		entity.MovementStatusCancelled: lipgloss.Color("#DC3545"),
	}
)

// statusBadge pinta el estado con su color; los desconocidos salen sin estilo.
func statusBadge(status string) string {
	color, ok := statusColors[status]
	if !ok {
		return status
	}
	return lipgloss.NewStyle().Bold(true).Foreground(color).Render(status)
}

func printSuccess(w io.Writer, message string) {
	_, _ = fmt.Fprintf(w, "%s %s\n", successStyle.Render(successSymbol), message)
}

func printError(w io.Writer, message string) {
	_, _ = fmt.Fprintf(w, "%s %s\n", errorStyle.Render(errorSymbol), errorStyle.Render(message))
}

func printInfof(w io.Writer, format string, args ...interface{}) {
	_, _ = fmt.Fprintf(w, "%s %s\n", infoStyle.Render(infoSymbol), fmt.Sprintf(format, args...))
}

func printField(w io.Writer, label, value string) {
	_, _ = fmt.Fprintf(w, "%s %s\n", labelStyle.Render(label), value)
}
