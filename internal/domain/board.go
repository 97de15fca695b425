package domain

import (
    "errors"
    "fmt"
)

// BoardSize is the width and height of the board.
const BoardSize = 8

// Position is a board square; X is the column, Y the row (0..7).
type Position struct {
    X int `json:"x"`
    Y int `json:"y"`
}

// Offboard is where captured pieces are parked.
var Offboard = Position{X: -1, Y: -1}

// OnBoard reports whether p lies inside the 8x8 grid.
func (p Position) OnBoard() bool {
    return p.X >= 0 && p.X < BoardSize && p.Y >= 0 && p.Y < BoardSize
}

// Step returns the square n diagonal steps away along (dx, dy).
func (p Position) Step(dx, dy, n int) Position {
    return Position{X: p.X + dx*n, Y: p.Y + dy*n}
}

func (p Position) String() string {
    return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Variant holds the board setup and search limits for a game.
type Variant struct {
    // StartRows is how many rows each side fills at the start (3 = 12 pieces).
    StartRows int
    // DarkParity selects which squares are playable: (x+y)%2 == DarkParity.
    DarkParity int
    // MaxChain bounds the number of jumps in one capture chain.
    MaxChain int
}

// Errors returned when a variant is unusable.
var ErrInvalidVariant = errors.New("invalid variant")

// DefaultVariant is the 12-piece game on odd-sum dark squares.
func DefaultVariant() Variant {
    return Variant{StartRows: 3, DarkParity: 1, MaxChain: 10}
}

// Validate checks the variant fits on the board.
func (v Variant) Validate() error {
    if v.StartRows < 1 || v.StartRows > BoardSize/2 {
        return fmt.Errorf("start rows %d out of range 1..%d: %w", v.StartRows, BoardSize/2, ErrInvalidVariant)
    }
    if v.DarkParity != 0 && v.DarkParity != 1 {
        return fmt.Errorf("dark parity %d must be 0 or 1: %w", v.DarkParity, ErrInvalidVariant)
    }
    if v.MaxChain < 1 {
        return fmt.Errorf("max chain %d must be positive: %w", v.MaxChain, ErrInvalidVariant)
    }
    return nil
}

// PieceCount is the number of pieces each side starts with.
func (v Variant) PieceCount() int {
    return v.StartRows * BoardSize / 2
}

// IsDark reports whether p is an occupiable square under this variant.
func (v Variant) IsDark(p Position) bool {
    return p.OnBoard() && (p.X+p.Y)%2 == v.DarkParity
}
