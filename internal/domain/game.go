package domain

import (
    "errors"
    "fmt"
    "strings"
)

// Game holds the current state of a checkers match.
type Game struct {
    Variant Variant
    Players [2]Player
    Turn    Side
    // Over is reserved for callers that add win detection; the engine
    // never sets it.
    Over    bool
    Moves   int
    History []Move
}

// Errors returned when building or inspecting a game.
var (
    ErrInvalidLayout = errors.New("invalid layout")
    ErrOverlap       = errors.New("two pieces share a square")
)

// New returns a game in the starting position with Red to move.
func New(v Variant) (*Game, error) {
    if err := v.Validate(); err != nil {
        return nil, err
    }
    var red, black []Position
    for y := 0; y < v.StartRows; y++ {
        red = append(red, darkSquaresInRow(v, y)...)
    }
    for y := BoardSize - v.StartRows; y < BoardSize; y++ {
        black = append(black, darkSquaresInRow(v, y)...)
    }
    return newGame(v, red, black, Red), nil
}

func darkSquaresInRow(v Variant, y int) []Position {
    out := make([]Position, 0, BoardSize/2)
    for x := 0; x < BoardSize; x++ {
        if p := (Position{X: x, Y: y}); v.IsDark(p) {
            out = append(out, p)
        }
    }
    return out
}

func newGame(v Variant, red, black []Position, turn Side) *Game {
    g := &Game{Variant: v, Turn: turn}
    g.Players[Red] = newPlayer(Red, red)
    g.Players[Black] = newPlayer(Black, black)
    return g
}

// NewFromLayout builds a game from an 8-line diagram, row 0 first.
// '.' is an empty square, 'r' a red piece and 'b' a black piece; spaces
// inside a row are ignored. Pieces must stand on dark squares.
func NewFromLayout(v Variant, layout string, turn Side) (*Game, error) {
    if err := v.Validate(); err != nil {
        return nil, err
    }
    var rows []string
    for _, line := range strings.Split(strings.TrimSpace(layout), "\n") {
        row := strings.ReplaceAll(strings.TrimSpace(line), " ", "")
        if row == "" {
            continue
        }
        rows = append(rows, row)
    }
    if len(rows) != BoardSize {
        return nil, fmt.Errorf("expected %d rows, got %d: %w", BoardSize, len(rows), ErrInvalidLayout)
    }

    var red, black []Position
    for y, row := range rows {
        if len(row) != BoardSize {
            return nil, fmt.Errorf("row %d has %d squares: %w", y, len(row), ErrInvalidLayout)
        }
        for x := 0; x < BoardSize; x++ {
            pos := Position{X: x, Y: y}
            switch row[x] {
            case '.':
                continue
            case 'r', 'R':
                red = append(red, pos)
            case 'b', 'B':
                black = append(black, pos)
            default:
                return nil, fmt.Errorf("unknown square %q at %v: %w", row[x], pos, ErrInvalidLayout)
            }
            if !v.IsDark(pos) {
                return nil, fmt.Errorf("piece on light square %v: %w", pos, ErrInvalidLayout)
            }
        }
    }
    return newGame(v, red, black, turn), nil
}

// Layout renders the live pieces in the format read by NewFromLayout.
func (g *Game) Layout() string {
    var grid [BoardSize][BoardSize]byte
    for y := range grid {
        for x := range grid[y] {
            grid[y][x] = '.'
        }
    }
    for s, letter := range [2]byte{'r', 'b'} {
        for _, pc := range g.Players[s].Pieces {
            if pc.Alive && pc.Pos.OnBoard() {
                grid[pc.Pos.Y][pc.Pos.X] = letter
            }
        }
    }
    lines := make([]string, BoardSize)
    for y := range grid {
        lines[y] = string(grid[y][:])
    }
    return strings.Join(lines, "\n")
}

// Clone returns a deep copy that shares no mutable state with g.
func (g *Game) Clone() *Game {
    cp := *g
    for s := range g.Players {
        cp.Players[s].Pieces = append([]Piece(nil), g.Players[s].Pieces...)
    }
    cp.History = append([]Move(nil), g.History...)
    return &cp
}

// Current returns the side to move.
func (g *Game) Current() Side {
    return g.Turn
}

// Alive returns the number of live pieces side still has.
func (g *Game) Alive(side Side) int {
    return g.Players[side].Live()
}

// IsEmpty reports whether no live piece of either side stands on pos.
// Squares off the board are never empty.
func (g *Game) IsEmpty(pos Position) bool {
    if !pos.OnBoard() {
        return false
    }
    return !g.Holds(Red, pos) && !g.Holds(Black, pos)
}

// Holds reports whether a live piece of side stands on pos.
func (g *Game) Holds(side Side, pos Position) bool {
    _, ok := g.PieceIndexAt(side, pos)
    return ok
}

// PieceIndexAt locates the live piece of side on pos.
func (g *Game) PieceIndexAt(side Side, pos Position) (int, bool) {
    if !pos.OnBoard() {
        return -1, false
    }
    for i, pc := range g.Players[side].Pieces {
        if pc.Alive && pc.Pos == pos {
            return i, true
        }
    }
    return -1, false
}

// Occupancy maps every occupied square to its owner. It fails if two live
// pieces share a square.
func (g *Game) Occupancy() (map[Position]Side, error) {
    out := make(map[Position]Side)
    for s := range g.Players {
        for _, pc := range g.Players[s].Pieces {
            if !pc.Alive {
                continue
            }
            if _, dup := out[pc.Pos]; dup {
                return nil, fmt.Errorf("%v: %w", pc.Pos, ErrOverlap)
            }
            out[pc.Pos] = Side(s)
        }
    }
    return out, nil
}

// PieceView is a read-only description of a live piece for drawing.
type PieceView struct {
    Side     Side     `json:"side"`
    Color    string   `json:"color"`
    Index    int      `json:"index"`
    Pos      Position `json:"pos"`
    King     bool     `json:"king"`
    Selected bool     `json:"selected"`
}

// Pieces lists every live piece, red first.
func (g *Game) Pieces() []PieceView {
    out := make([]PieceView, 0, len(g.Players[Red].Pieces)+len(g.Players[Black].Pieces))
    for s := range g.Players {
        pl := &g.Players[s]
        for i, pc := range pl.Pieces {
            if !pc.Alive {
                continue
            }
            out = append(out, PieceView{
                Side:     pl.Side,
                Color:    pl.Color,
                Index:    i,
                Pos:      pc.Pos,
                King:     pc.Kind == King,
                Selected: Side(s) == g.Turn && pl.Selected == i,
            })
        }
    }
    return out
}

// Selected returns the square of the active side's selected piece.
func (g *Game) Selected() (Position, bool) {
    pl := &g.Players[g.Turn]
    if !pl.hasSelection() {
        return Position{}, false
    }
    return pl.Pieces[pl.Selected].Pos, true
}
