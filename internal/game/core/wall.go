package core

import (
	"fmt"
	"strings"
)

// Orientation of a wall segment
type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
)

func (o Orientation) String() string {
	switch o {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	default:
		return fmt.Sprintf("Orientation(%d)", int(o))
	}
}

// MarshalText encodes the orientation by name so JSON payloads stay readable
func (o Orientation) MarshalText() ([]byte, error) {
	switch o {
	case Horizontal, Vertical:
		return []byte(o.String()), nil
	default:
		return nil, fmt.Errorf("unknown orientation %d", int(o))
	}
}

// UnmarshalText accepts "horizontal"/"vertical" and the short forms "h"/"v"
func (o *Orientation) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "horizontal", "h":
		*o = Horizontal
	case "vertical", "v":
		*o = Vertical
	default:
		return fmt.Errorf("unknown orientation %q", string(text))
	}
	return nil
}

// Wall is a two-cell blocking segment anchored at its top-left cell.
//
// A horizontal wall at (r, c) sits on the boundary between rows r-1 and r and
// covers columns c and c+1. A vertical wall at (r, c) sits on the boundary
// between columns c-1 and c and covers rows r and r+1.
type Wall struct {
	Pos         Position    `json:"pos"`
	Orientation Orientation `json:"orientation"`
}

// NewWall creates a wall anchored at (row, col)
func NewWall(row, col int, o Orientation) Wall {
	return Wall{Pos: Position{Row: row, Col: col}, Orientation: o}
}

// HorizontalWall is shorthand for NewWall(row, col, Horizontal)
func HorizontalWall(row, col int) Wall {
	return NewWall(row, col, Horizontal)
}

// VerticalWall is shorthand for NewWall(row, col, Vertical)
func VerticalWall(row, col int) Wall {
	return NewWall(row, col, Vertical)
}

func (w Wall) String() string {
	prefix := "H"
	if w.Orientation == Vertical {
		prefix = "V"
	}
	return prefix + w.Pos.String()
}
