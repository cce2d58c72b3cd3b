package engineserver

import "google.golang.org/protobuf/types/known/timestamppb"

// Wire messages for the engine service. Field names follow proto JSON
// conventions so a .proto definition can replace them without breaking clients.

type Position struct {
	Row int32 `json:"row"`
	Col int32 `json:"col"`
}

type Wall struct {
	Row int32 `json:"row"`
	Col int32 `json:"col"`
	// Orientation is "horizontal" or "vertical"; "h" and "v" are accepted
	Orientation string `json:"orientation"`
}

// Move is a pawn move or a wall placement. When Kind is empty the server
// parses Notation instead ("e2", "e3h").
type Move struct {
	Kind     string                 `json:"kind,omitempty"`
	PlayerId int32                  `json:"player_id"`
	From     *Position              `json:"from,omitempty"`
	To       *Position              `json:"to,omitempty"`
	Wall     *Wall                  `json:"wall,omitempty"`
	Notation string                 `json:"notation,omitempty"`
	PlayedAt *timestamppb.Timestamp `json:"played_at,omitempty"`
}

type Player struct {
	Id             int32     `json:"id"`
	Name           string    `json:"name"`
	Color          string    `json:"color"`
	Position       *Position `json:"position"`
	WallsRemaining int32     `json:"walls_remaining"`
	GoalRow        int32     `json:"goal_row"`
	GoalCol        int32     `json:"goal_col"`
	Controller     string    `json:"controller"`
	Difficulty     string    `json:"difficulty"`
}

type GameState struct {
	BoardSize          int32     `json:"board_size"`
	Players            []*Player `json:"players"`
	CurrentPlayerIndex int32     `json:"current_player_index"`
	Walls              []*Wall   `json:"walls"`
	Status             string    `json:"status"`
	Winner             *int32    `json:"winner,omitempty"`
	History            []*Move   `json:"history,omitempty"`
	HistoryIndex       int32     `json:"history_index"`
}

type Seat struct {
	Name string `json:"name,omitempty"`
	// Controller is "human" or "bot"
	Controller string `json:"controller,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
}

type NewGameRequest struct {
	BoardSize      int32   `json:"board_size,omitempty"`
	Seats          []*Seat `json:"seats,omitempty"`
	WallsPerPlayer int32   `json:"walls_per_player,omitempty"`
}

type NewGameResponse struct {
	GameId    string                 `json:"game_id"`
	State     *GameState             `json:"state"`
	CreatedAt *timestamppb.Timestamp `json:"created_at"`
}

type ValidateMoveRequest struct {
	State *GameState `json:"state"`
	Move  *Move      `json:"move"`
}

type ValidateMoveResponse struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

type ApplyMoveRequest struct {
	State          *GameState `json:"state"`
	Move           *Move      `json:"move"`
	IdempotencyKey string     `json:"idempotency_key,omitempty"`
}

type ApplyMoveResponse struct {
	Valid    bool       `json:"valid"`
	Reason   string     `json:"reason,omitempty"`
	State    *GameState `json:"state,omitempty"`
	GameOver bool       `json:"game_over"`
	Winner   *int32     `json:"winner,omitempty"`
}

type AvailableMovesRequest struct {
	State *GameState `json:"state"`
	// PlayerId defaults to the player to move
	PlayerId *int32 `json:"player_id,omitempty"`
}

type AvailableMovesResponse struct {
	Moves []*Move `json:"moves"`
}

type BotMoveRequest struct {
	State *GameState `json:"state"`
	// Difficulty overrides the seat's own difficulty when set
	Difficulty     string `json:"difficulty,omitempty"`
	TimeoutMs      int64  `json:"timeout_ms,omitempty"`
	IdempotencyKey string `json:"idempotency_key,omitempty"`
}

type BotMoveResponse struct {
	SearchId    string  `json:"search_id"`
	Move        *Move   `json:"move"`
	Score       float64 `json:"score"`
	Depth       int32   `json:"depth"`
	Nodes       int64   `json:"nodes"`
	ElapsedMs   int64   `json:"elapsed_ms"`
	Interrupted bool    `json:"interrupted"`
}
