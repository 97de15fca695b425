package domain

import (
    "errors"
    "fmt"
)

// Move is a committed or validated relocation of one piece.
type Move struct {
    Side     Side       `json:"side"`
    Index    int        `json:"index"`
    From     Position   `json:"from"`
    To       Position   `json:"to"`
    Captures []JumpStep `json:"captures,omitempty"`
}

// IsJump reports whether the move captures anything.
func (m Move) IsJump() bool {
    return len(m.Captures) > 0
}

// Errors returned by selection and move attempts. None of them change the
// game.
var (
    ErrOffBoard      = errors.New("square is off the board")
    ErrNotYourTurn   = errors.New("not your turn")
    ErrNotYourPiece  = errors.New("no piece of the side to move on that square")
    ErrNoSelection   = errors.New("no piece selected")
    ErrPieceCaptured = errors.New("piece has been captured")
    ErrOccupied      = errors.New("square occupied")
    ErrIllegalMove   = errors.New("illegal move")
    ErrGameOver      = errors.New("game over")
)

// Select marks the live piece of side on pos as the active selection.
// A failed selection leaves any previous selection in place.
func (g *Game) Select(side Side, pos Position) error {
    if g.Over {
        return ErrGameOver
    }
    if !pos.OnBoard() {
        return ErrOffBoard
    }
    if side != g.Turn {
        return ErrNotYourTurn
    }
    i, ok := g.PieceIndexAt(side, pos)
    if !ok {
        return ErrNotYourPiece
    }
    g.Players[side].Selected = i
    return nil
}

// Deselect drops the active side's selection.
func (g *Game) Deselect() {
    g.Players[g.Turn].Selected = -1
}

// AttemptMove moves the active side's selected piece to `to`.
func (g *Game) AttemptMove(to Position) (Move, error) {
    pl := &g.Players[g.Turn]
    if !pl.hasSelection() {
        return Move{}, ErrNoSelection
    }
    return g.MoveIndex(pl.Selected, to)
}

// MoveIndex moves piece index of the side to move to `to`, capturing along
// the way for jumps, and passes the turn. On error nothing changes.
func (g *Game) MoveIndex(index int, to Position) (Move, error) {
    mv, err := g.Validate(index, to)
    if err != nil {
        return Move{}, err
    }
    g.commit(mv)
    return mv, nil
}

// Validate classifies the move of piece index to `to` as a simple step or
// a capture chain without applying it.
func (g *Game) Validate(index int, to Position) (Move, error) {
    if g.Over {
        return Move{}, ErrGameOver
    }
    side := g.Turn
    pl := &g.Players[side]
    if index < 0 || index >= len(pl.Pieces) {
        return Move{}, ErrNoSelection
    }
    pc := pl.Pieces[index]
    if !pc.Alive {
        return Move{}, ErrPieceCaptured
    }
    if !to.OnBoard() {
        return Move{}, ErrOffBoard
    }
    if !g.IsEmpty(to) {
        return Move{}, ErrOccupied
    }

    mv := Move{Side: side, Index: index, From: pc.Pos, To: to}
    dy := side.Forward()
    if to.Y-pc.Pos.Y == dy && abs(to.X-pc.Pos.X) == 1 {
        return mv, nil
    }
    chain, ok := g.FindJumpChain(pc.Pos, to, dy, side.Opponent(), g.Variant.MaxChain)
    if !ok {
        return Move{}, fmt.Errorf("%v to %v: %w", pc.Pos, to, ErrIllegalMove)
    }
    mv.Captures = chain
    return mv, nil
}

func (g *Game) commit(mv Move) {
    pl := &g.Players[mv.Side]
    pl.Pieces[mv.Index].Pos = mv.To

    enemySide := mv.Side.Opponent()
    enemy := &g.Players[enemySide]
    for _, st := range mv.Captures {
        if i, ok := g.PieceIndexAt(enemySide, st.Captured); ok {
            enemy.Pieces[i].Alive = false
            enemy.Pieces[i].Pos = Offboard
        }
    }

    pl.Selected = -1
    g.History = append(g.History, mv)
    g.Moves++
    g.Turn = enemySide
}

// LegalTargets lists the squares piece index of the side to move can reach,
// simple steps first, then capture landings.
func (g *Game) LegalTargets(index int) []Position {
    pl := &g.Players[g.Turn]
    if g.Over || index < 0 || index >= len(pl.Pieces) || !pl.Pieces[index].Alive {
        return nil
    }
    from := pl.Pieces[index].Pos
    dy := g.Turn.Forward()
    var out []Position
    for _, dx := range [2]int{-1, 1} {
        if to := from.Step(dx, dy, 1); g.IsEmpty(to) {
            out = append(out, to)
        }
    }
    return append(out, g.jumpLandings(from, dy, g.Turn.Opponent(), g.Variant.MaxChain)...)
}

func abs(n int) int {
    if n < 0 {
        return -n
    }
    return n
}
