package game

import (
	"fmt"
	"strings"

	"github.com/mitchelldurbincs/QuoridorEngine/internal/common"
	"github.com/mitchelldurbincs/QuoridorEngine/internal/game/core"
)

const (
	emptySymbol          = "·"
	horizontalWallSymbol = "━"
	verticalWallSymbol   = "┃"
	pawnSymbols          = "ABCD"
)

// Board returns a text rendering of the board. Row 0 is printed first;
// pawns are lettered by seat and coloured when color is true.
func (e *Engine) Board(color bool) string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return RenderBoard(e.gs, color)
}

// RenderBoard draws gs with rank numbers on the left and file letters on top
func RenderBoard(gs *core.GameState, color bool) string {
	n := gs.BoardSize
	mask := gs.EdgeMask()

	var sb strings.Builder
	sb.Grow((n*4 + 8) * (n*2 + 4))

	sb.WriteString("   ")
	for c := 0; c < n; c++ {
		sb.WriteByte(byte('a' + c))
		sb.WriteByte(' ')
	}
	sb.WriteString("\n")

	for r := 0; r < n; r++ {
		fmt.Fprintf(&sb, "%2d ", r+1)
		for c := 0; c < n; c++ {
			sb.WriteString(cellSymbol(gs, core.NewPosition(r, c), color))
			if c < n-1 && mask.Blocked(core.NewPosition(r, c), core.NewPosition(r, c+1)) {
				sb.WriteString(verticalWallSymbol)
			} else {
				sb.WriteString(" ")
			}
		}
		sb.WriteString("\n")

		if r == n-1 {
			break
		}
		sb.WriteString("   ")
		for c := 0; c < n; c++ {
			if mask.Blocked(core.NewPosition(r, c), core.NewPosition(r+1, c)) {
				sb.WriteString(horizontalWallSymbol)
			} else {
				sb.WriteString(" ")
			}
			sb.WriteString(" ")
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	for i, p := range gs.Players {
		marker := " "
		if i == gs.CurrentPlayerIndex && !gs.IsFinished() {
			marker = ">"
		}
		label := string(pawnSymbols[i%len(pawnSymbols)])
		if color {
			label = common.Colorize(i, label)
		}
		fmt.Fprintf(&sb, "%s %s %-14s %s walls=%d\n", marker, label, p.Name, p.Pos.Notation(), p.WallsRemaining)
	}
	if id, ok := gs.WinnerID(); ok {
		fmt.Fprintf(&sb, "winner: %s\n", gs.PlayerByID(id).Name)
	}
	return sb.String()
}

func cellSymbol(gs *core.GameState, pos core.Position, color bool) string {
	for i := range gs.Players {
		if gs.Players[i].Pos == pos {
			s := string(pawnSymbols[i%len(pawnSymbols)])
			if color {
				return common.Colorize(i, s)
			}
			return s
		}
	}
	if color {
		return common.ColorGray + emptySymbol + common.ColorReset
	}
	return emptySymbol
}
