package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"

	"github.com/gomlx/ndview/ndarray"
	"github.com/gomlx/ndview/xslices"
)

var (
	headerRowStyle = lipgloss.NewStyle().Reverse(true).
			Padding(0, 2, 0, 2).Align(lipgloss.Center)
	oddRowStyle = lipgloss.NewStyle().Faint(false).
			PaddingLeft(1).PaddingRight(1)
	evenRowStyle = lipgloss.NewStyle().Faint(true).
			PaddingLeft(1).PaddingRight(1)
)

// renderView pretty-prints one subarray view: rank <= 2 views become a styled
// table, higher ranks fall back to the plain nested-list form.
func renderView(view *ndarray.Array) string {
	switch view.Rank() {
	case 0:
		return fmt.Sprintf("%v", view.Value())
	case 1:
		return renderTable([][]string{rowStrings(view, nil)})
	case 2:
		rows := make([][]string, 0, view.Shape().Dimensions[0])
		for row := 0; row < view.Shape().Dimensions[0]; row++ {
			rows = append(rows, rowStrings(view, []int{row}))
		}
		return renderTable(rows)
	default:
		return view.String()
	}
}

// rowStrings formats the last-axis elements of view at the given leading
// indices.
func rowStrings(view *ndarray.Array, leading []int) []string {
	dim := xslices.Last(view.Shape().Dimensions)
	return xslices.Map(xslices.Iota(0, dim), func(col int) string {
		return fmt.Sprintf("%v", view.Value(append(xslices.Copy(leading), col)...))
	})
}

func renderTable(rows [][]string) string {
	t := lgtable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("99"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row < 0:
				return headerRowStyle
			case row%2 == 0:
				return oddRowStyle.Align(lipgloss.Right)
			default:
				return evenRowStyle.Align(lipgloss.Right)
			}
		})
	t.Rows(rows...)
	return t.Render()
}
