package notify

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Table writes rows under headers as a bordered table. Nothing is written without rows.
func Table(writer io.Writer, headers []string, rows [][]string) {
	if len(rows) == 0 {
		return
	}

	if writer == nil {
		writer = os.Stdout
	}

	cell := lipgloss.NewStyle().Padding(0, 1)
	header := cell.Bold(true)

	rendered := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}

			return cell
		}).
		Render()

	_, err := fmt.Fprintln(writer, rendered)
	handleNotifyError(err)
}
