package engineserver

import (
	"fmt"
	"strings"

	"github.com/mitchelldurbincs/QuoridorEngine/internal/game/core"
	"google.golang.org/protobuf/types/known/timestamppb"
)

func positionToWire(p core.Position) *Position {
	return &Position{Row: int32(p.Row), Col: int32(p.Col)}
}

func positionFromWire(p *Position) (core.Position, error) {
	if p == nil {
		return core.Position{}, fmt.Errorf("%w: missing position", core.ErrMalformedState)
	}
	return core.NewPosition(int(p.Row), int(p.Col)), nil
}

func wallToWire(w core.Wall) *Wall {
	return &Wall{Row: int32(w.Pos.Row), Col: int32(w.Pos.Col), Orientation: w.Orientation.String()}
}

func wallFromWire(w *Wall) (core.Wall, error) {
	if w == nil {
		return core.Wall{}, fmt.Errorf("%w: missing wall", core.ErrMalformedState)
	}
	var o core.Orientation
	if err := o.UnmarshalText([]byte(w.Orientation)); err != nil {
		return core.Wall{}, fmt.Errorf("%w: %v", core.ErrMalformedState, err)
	}
	return core.NewWall(int(w.Row), int(w.Col), o), nil
}

func moveToWire(m core.Move) *Move {
	out := &Move{
		Kind:     m.Kind.String(),
		PlayerId: int32(m.PlayerID),
		Notation: m.Notation(),
	}
	if m.Kind == core.WallMove {
		out.Wall = wallToWire(m.Wall)
	} else {
		out.From = positionToWire(m.From)
		out.To = positionToWire(m.To)
	}
	if !m.Timestamp.IsZero() {
		out.PlayedAt = timestamppb.New(m.Timestamp)
	}
	return out
}

// moveFromWire decodes a structured move. Notation-only moves need the state
// to resolve the pawn's origin, so they go through moveFromRequest.
func moveFromWire(m *Move) (core.Move, error) {
	if m == nil {
		return core.Move{}, fmt.Errorf("%w: missing move", core.ErrMalformedState)
	}
	out := core.Move{PlayerID: int(m.PlayerId)}
	if m.PlayedAt != nil {
		out.Timestamp = m.PlayedAt.AsTime()
	}
	switch strings.ToLower(m.Kind) {
	case "pawn":
		from, err := positionFromWire(m.From)
		if err != nil {
			return core.Move{}, err
		}
		to, err := positionFromWire(m.To)
		if err != nil {
			return core.Move{}, err
		}
		out.Kind, out.From, out.To = core.PawnMove, from, to
	case "wall":
		w, err := wallFromWire(m.Wall)
		if err != nil {
			return core.Move{}, err
		}
		out.Kind, out.Wall = core.WallMove, w
	default:
		return core.Move{}, fmt.Errorf("%w: unknown move kind %q", core.ErrMalformedState, m.Kind)
	}
	return out, nil
}

// moveFromRequest accepts either a structured move or bare notation
func moveFromRequest(gs *core.GameState, m *Move) (core.Move, error) {
	if m != nil && m.Kind == "" && m.Notation != "" {
		mv, err := core.ParseMove(gs, int(m.PlayerId), m.Notation)
		if err != nil {
			return core.Move{}, fmt.Errorf("%w: %v", core.ErrMalformedState, err)
		}
		return mv, nil
	}
	return moveFromWire(m)
}

func stateToWire(gs *core.GameState) *GameState {
	out := &GameState{
		BoardSize:          int32(gs.BoardSize),
		Players:            make([]*Player, len(gs.Players)),
		CurrentPlayerIndex: int32(gs.CurrentPlayerIndex),
		Walls:              make([]*Wall, len(gs.Walls)),
		Status:             gs.Status.String(),
		HistoryIndex:       int32(gs.HistoryIndex),
	}
	for i, p := range gs.Players {
		out.Players[i] = &Player{
			Id:             int32(p.ID),
			Name:           p.Name,
			Color:          p.Color,
			Position:       positionToWire(p.Pos),
			WallsRemaining: int32(p.WallsRemaining),
			GoalRow:        int32(p.GoalRow),
			GoalCol:        int32(p.GoalCol),
			Controller:     p.Controller.String(),
			Difficulty:     p.Difficulty.String(),
		}
	}
	for i, w := range gs.Walls {
		out.Walls[i] = wallToWire(w)
	}
	if id, ok := gs.WinnerID(); ok {
		w := int32(id)
		out.Winner = &w
	}
	if len(gs.History) > 0 {
		out.History = make([]*Move, len(gs.History))
		for i, m := range gs.History {
			out.History[i] = moveToWire(m)
		}
	}
	return out
}

// stateFromWire rebuilds a core state and checks its structural invariants
func stateFromWire(s *GameState) (*core.GameState, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: missing state", core.ErrMalformedState)
	}
	gs := &core.GameState{
		BoardSize:          int(s.BoardSize),
		Players:            make([]core.Player, len(s.Players)),
		CurrentPlayerIndex: int(s.CurrentPlayerIndex),
		Walls:              make([]core.Wall, 0, len(s.Walls)),
		HistoryIndex:       int(s.HistoryIndex),
	}

	switch s.Status {
	case "playing", "":
		gs.Status = core.StatusPlaying
	case "finished":
		gs.Status = core.StatusFinished
	default:
		return nil, fmt.Errorf("%w: unknown status %q", core.ErrMalformedState, s.Status)
	}

	for i, p := range s.Players {
		if p == nil {
			return nil, fmt.Errorf("%w: player %d is empty", core.ErrMalformedState, i)
		}
		pos, err := positionFromWire(p.Position)
		if err != nil {
			return nil, err
		}
		controller := core.Human
		switch strings.ToLower(p.Controller) {
		case "human", "":
		case "bot":
			controller = core.Bot
		default:
			return nil, fmt.Errorf("%w: unknown controller %q", core.ErrMalformedState, p.Controller)
		}
		difficulty, err := core.ParseDifficulty(p.Difficulty)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", core.ErrMalformedState, err)
		}
		gs.Players[i] = core.Player{
			ID:             int(p.Id),
			Name:           p.Name,
			Color:          p.Color,
			Pos:            pos,
			WallsRemaining: int(p.WallsRemaining),
			GoalRow:        int(p.GoalRow),
			GoalCol:        int(p.GoalCol),
			Controller:     controller,
			Difficulty:     difficulty,
		}
	}

	for _, w := range s.Walls {
		cw, err := wallFromWire(w)
		if err != nil {
			return nil, err
		}
		gs.Walls = append(gs.Walls, cw)
	}
	if s.Winner != nil {
		w := int(*s.Winner)
		gs.Winner = &w
	}
	for _, m := range s.History {
		cm, err := moveFromWire(m)
		if err != nil {
			return nil, err
		}
		gs.History = append(gs.History, cm)
	}

	if err := gs.Validate(); err != nil {
		return nil, err
	}
	return gs, nil
}

func seatsFromWire(seats []*Seat) ([]core.SeatConfig, error) {
	if len(seats) == 0 {
		return []core.SeatConfig{{Controller: core.Human}, {Controller: core.Human}}, nil
	}
	out := make([]core.SeatConfig, len(seats))
	for i, s := range seats {
		if s == nil {
			return nil, fmt.Errorf("%w: seat %d is empty", core.ErrInvalidSettings, i)
		}
		sc := core.SeatConfig{Name: s.Name}
		switch strings.ToLower(s.Controller) {
		case "human", "":
		case "bot":
			sc.Controller = core.Bot
		default:
			return nil, fmt.Errorf("%w: unknown controller %q", core.ErrInvalidSettings, s.Controller)
		}
		d, err := core.ParseDifficulty(s.Difficulty)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", core.ErrInvalidSettings, err)
		}
		sc.Difficulty = d
		out[i] = sc
	}
	return out, nil
}
