package main

import (
	"fmt"
	"strings"

	"github.com/muesli/termenv"

	"github.com/thekrainbow/connect6/internal/game"
)

// renderBoard draws the grid with X for Black and O for White. Winning stones are bold and the
// last move is underlined.
func renderBoard(out *termenv.Output, state *game.GameState) string {
	winning := make(map[game.Move]bool)
	for _, m := range state.WinningLine() {
		winning[m] = true
	}
	last, hasLast := state.LastMove()

	var sb strings.Builder
	sb.WriteString("   ")
	for col := 0; col < game.Size; col++ {
		fmt.Fprintf(&sb, "%2d", col)
	}
	sb.WriteByte('\n')
	for row := 0; row < game.Size; row++ {
		fmt.Fprintf(&sb, "%2d ", row)
		for col := 0; col < game.Size; col++ {
			sb.WriteByte(' ')
			here := game.NewMove(row, col)
			style := out.String(cellGlyph(state.Cell(row, col)))
			switch state.Cell(row, col) {
			case game.CellBlack:
				style = style.Foreground(out.Color("9"))
			case game.CellWhite:
				style = style.Foreground(out.Color("12"))
			default:
				style = style.Faint()
			}
			if winning[here] {
				style = style.Bold()
			}
			if hasLast && last.Move == here {
				style = style.Underline()
			}
			sb.WriteString(style.String())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func cellGlyph(c game.Cell) string {
	switch c {
	case game.CellBlack:
		return "X"
	case game.CellWhite:
		return "O"
	default:
		return "."
	}
}
