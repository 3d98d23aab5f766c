package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/viant/hydrogrid/service/report"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7dc4e4")).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	inBandStyle  = cellStyle.Foreground(lipgloss.Color("#a6da95"))
	outBandStyle = cellStyle.Foreground(lipgloss.Color("#ed8796"))
	faintStyle   = lipgloss.NewStyle().Faint(true)
	reasonStyles = map[report.Reason]lipgloss.Style{
		report.ReasonExhausted:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ed8796")),
		report.ReasonInterrupted: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#eed49f")),
	}
)

// render formats the final report as a table with one row per unit; the
// level column is colored by whether the unit ended inside its band.
func render(final *report.Final) string {
	rows := make([][]string, 0, len(final.Units))
	for _, aUnit := range final.Units {
		status := "inactive"
		if aUnit.Active {
			status = "active"
		}
		rows = append(rows, []string{
			aUnit.Name,
			fmt.Sprintf("%g", aUnit.Capacity),
			fmt.Sprintf("[%g, %g]", aUnit.MinWaterLevel, aUnit.MaxWaterLevel),
			fmt.Sprintf("%.1f", aUnit.WaterLevel),
			status,
		})
	}
	units := final.Units
	grid := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("UNIT", "CAPACITY", "BAND", "LEVEL", "STATUS").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 3 && row >= 0 && row < len(units) {
				aUnit := units[row]
				if aUnit.WaterLevel <= aUnit.MinWaterLevel || aUnit.WaterLevel >= aUnit.MaxWaterLevel {
					return outBandStyle
				}
				return inBandStyle
			}
			return cellStyle
		})

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("hydrogrid run "+final.RunID) + "\n")
	sb.WriteString(fmt.Sprintf("stopped: %s  after %s\n", reasonStyles[final.Reason].Render(string(final.Reason)), final.Duration().Round(time.Millisecond)))
	sb.WriteString(grid.Render() + "\n")
	sb.WriteString(faintStyle.Render(fmt.Sprintf("%d units, final generation %g", len(final.Units), final.Total)))
	return sb.String()
}
