package bot

import (
	"github.com/mitchelldurbincs/QuoridorEngine/internal/common"
	"github.com/mitchelldurbincs/QuoridorEngine/internal/game/core"
	"github.com/mitchelldurbincs/QuoridorEngine/internal/game/rules"
)

// evaluate scores gs from the searching bot's point of view
func (sc *SearchContext) evaluate(gs *core.GameState) float64 {
	sc.stats.Evaluations++
	win := sc.settings.WinScore

	if gs.Status == core.StatusFinished {
		if id, ok := gs.WinnerID(); ok && id == sc.botID {
			return win
		}
		return -win
	}

	mask := gs.EdgeMask()
	paths := sc.pathLengths(gs, &mask)
	botPath := paths[sc.botSeat]
	if botPath == 0 {
		return win
	}
	rival := primaryRival(gs, sc.botSeat, paths)
	if rival < 0 {
		return 0
	}
	rivalPath := paths[rival]
	if rivalPath == 0 {
		return -win
	}

	bot := &gs.Players[sc.botSeat]
	opp := &gs.Players[rival]
	w := sc.settings.Weights

	pathDiff := float64(rivalPath - botPath)
	wallDiff := float64(bot.WallsRemaining - opp.WallsRemaining)
	flexibility := float64(len(rules.PawnMoves(gs, &mask, bot.Pos)) - len(rules.PawnMoves(gs, &mask, opp.Pos)))
	positional := positionalAdvantage(gs.BoardSize, bot, botPath) - positionalAdvantage(gs.BoardSize, opp, rivalPath)
	efficiency := float64(max(sc.wallAllowance-bot.WallsRemaining, 0)) * 0.5

	score := w.PathDiff*pathDiff +
		w.WallDiff*wallDiff +
		w.Flexibility*flexibility +
		w.Positional*positional +
		w.WallEfficiency*efficiency

	if sc.difficulty == core.Easy {
		score *= sc.settings.EasyScoreFactor
	}
	return score
}

// positionalAdvantage favours the centre while the goal is far and the goal line once it is near
func positionalAdvantage(size int, p *core.Player, path int) float64 {
	if path > size/2 {
		center := size / 2
		return -0.5 * common.Euclidean(p.Pos.Row, p.Pos.Col, center, center)
	}
	return -float64(goalDistance(size, p))
}

// goalDistance is the straight-line number of rows or columns to the goal edge
func goalDistance(size int, p *core.Player) int {
	switch {
	case p.GoalRow >= 0:
		return common.Abs(p.Pos.Row - p.GoalRow)
	case p.GoalCol >= 0:
		return common.Abs(p.Pos.Col - p.GoalCol)
	default:
		return min(p.Pos.Col, size-1-p.Pos.Col)
	}
}
