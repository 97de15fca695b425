package domain

import (
    "errors"
    "testing"

    "github.com/google/go-cmp/cmp"
)

const simpleLayout = `........
........
...r....
........
........
........
........
b.......`

func TestSimpleMoveForward(t *testing.T) {
    for _, to := range []Position{{X: 2, Y: 3}, {X: 4, Y: 3}} {
        g := mustLayout(t, DefaultVariant(), simpleLayout, Red)
        mv, err := g.MoveIndex(0, to)
        if err != nil {
            t.Fatalf("move to %v failed: %v", to, err)
        }
        if mv.IsJump() || mv.From != (Position{X: 3, Y: 2}) || mv.To != to {
            t.Fatalf("unexpected move %+v", mv)
        }
        if got := g.Players[Red].Pieces[0].Pos; got != to {
            t.Fatalf("piece at %v, want %v", got, to)
        }
        if g.Turn != Black || g.Moves != 1 || len(g.History) != 1 {
            t.Fatalf("expected turn to pass: turn=%v moves=%d", g.Turn, g.Moves)
        }
    }
}

func TestSimpleMoveRejected(t *testing.T) {
    tests := []struct {
        name string
        to   Position
        want error
    }{
        {"backward", Position{X: 2, Y: 1}, ErrIllegalMove},
        {"two rows straight", Position{X: 3, Y: 4}, ErrIllegalMove},
        {"sideways", Position{X: 5, Y: 2}, ErrIllegalMove},
        {"off board", Position{X: 3, Y: 8}, ErrOffBoard},
    }
    for _, tc := range tests {
        t.Run(tc.name, func(t *testing.T) {
            g := mustLayout(t, DefaultVariant(), simpleLayout, Red)
            before := g.Clone()
            if _, err := g.MoveIndex(0, tc.to); !errors.Is(err, tc.want) {
                t.Fatalf("expected %v, got %v", tc.want, err)
            }
            if diff := cmp.Diff(before, g); diff != "" {
                t.Fatalf("state changed (-before +after):\n%s", diff)
            }
        })
    }
}

func TestBlackMovesTowardRowZero(t *testing.T) {
    g := mustLayout(t, DefaultVariant(), simpleLayout, Black)
    if _, err := g.MoveIndex(0, Position{X: 1, Y: 6}); err != nil {
        t.Fatalf("black forward move failed: %v", err)
    }
    if g.Turn != Red {
        t.Fatalf("expected red to move next")
    }
}

func TestSingleCapture(t *testing.T) {
    g := mustLayout(t, evenVariant(), `........
........
..r.....
...b....
........
........
........
........`, Red)
    mv, err := g.MoveIndex(0, Position{X: 4, Y: 4})
    if err != nil {
        t.Fatalf("capture failed: %v", err)
    }
    if !mv.IsJump() || len(mv.Captures) != 1 {
        t.Fatalf("expected one capture, got %+v", mv)
    }
    enemy := g.Players[Black].Pieces[0]
    if enemy.Alive || enemy.Pos != Offboard {
        t.Fatalf("captured piece still on board: %+v", enemy)
    }
    if g.Players[Red].Pieces[0].Pos != (Position{X: 4, Y: 4}) {
        t.Fatalf("mover did not land on (4,4)")
    }
    if !g.IsEmpty(Position{X: 3, Y: 3}) {
        t.Fatalf("(3,3) should be empty after the capture")
    }
}

func TestCaptureNeedsEnemyBetween(t *testing.T) {
    g := mustLayout(t, evenVariant(), `........
........
..r.....
........
........
........
......b.
........`, Red)
    before := g.Clone()
    if _, err := g.MoveIndex(0, Position{X: 4, Y: 4}); !errors.Is(err, ErrIllegalMove) {
        t.Fatalf("expected ErrIllegalMove, got %v", err)
    }
    if diff := cmp.Diff(before, g); diff != "" {
        t.Fatalf("state changed (-before +after):\n%s", diff)
    }
}

func TestCaptureBlockedLanding(t *testing.T) {
    for _, blocker := range []string{"r", "b"} {
        g := mustLayout(t, evenVariant(), `........
........
..r.....
...b....
....`+blocker+`...
........
........
........`, Red)
        before := g.Clone()
        if _, err := g.MoveIndex(0, Position{X: 4, Y: 4}); !errors.Is(err, ErrOccupied) {
            t.Fatalf("blocker %s: expected ErrOccupied, got %v", blocker, err)
        }
        if diff := cmp.Diff(before, g); diff != "" {
            t.Fatalf("blocker %s: state changed:\n%s", blocker, diff)
        }
    }
}

func TestCannotCaptureOwnPiece(t *testing.T) {
    g := mustLayout(t, evenVariant(), `........
........
..r.....
...r....
........
........
........
.......b`, Red)
    if _, err := g.MoveIndex(0, Position{X: 4, Y: 4}); !errors.Is(err, ErrIllegalMove) {
        t.Fatalf("expected ErrIllegalMove, got %v", err)
    }
}

func TestMultiJumpCapturesBoth(t *testing.T) {
    g := mustLayout(t, evenVariant(), `r.......
.b......
........
...b....
........
........
......b.
........`, Red)
    mv, err := g.MoveIndex(0, Position{X: 4, Y: 4})
    if err != nil {
        t.Fatalf("double jump failed: %v", err)
    }
    if len(mv.Captures) != 2 {
        t.Fatalf("expected two captures, got %d", len(mv.Captures))
    }
    if g.Alive(Black) != 1 {
        t.Fatalf("expected one black piece left, got %d", g.Alive(Black))
    }
    for _, i := range []int{0, 1} {
        if g.Players[Black].Pieces[i].Alive {
            t.Fatalf("black piece %d should be captured", i)
        }
    }
    if !g.Players[Black].Pieces[2].Alive {
        t.Fatalf("uninvolved black piece was captured")
    }
}

func TestMultiJumpOnDefaultBoard(t *testing.T) {
    g := mustLayout(t, DefaultVariant(), `........
........
.r......
..b.....
........
....b...
........
........`, Red)
    mv, err := g.MoveIndex(0, Position{X: 5, Y: 6})
    if err != nil {
        t.Fatalf("double jump failed: %v", err)
    }
    want := []JumpStep{
        {Captured: Position{X: 2, Y: 3}, Landing: Position{X: 3, Y: 4}},
        {Captured: Position{X: 4, Y: 5}, Landing: Position{X: 5, Y: 6}},
    }
    if diff := cmp.Diff(want, mv.Captures); diff != "" {
        t.Fatalf("captures mismatch (-want +got):\n%s", diff)
    }
    if g.Alive(Black) != 0 {
        t.Fatalf("expected black wiped out")
    }
    if g.Over {
        t.Fatalf("the engine must not decide game over")
    }
}

func TestSelectAndAttemptMove(t *testing.T) {
    g := mustLayout(t, DefaultVariant(), simpleLayout, Red)
    if _, err := g.AttemptMove(Position{X: 2, Y: 3}); !errors.Is(err, ErrNoSelection) {
        t.Fatalf("expected ErrNoSelection, got %v", err)
    }
    if err := g.Select(Red, Position{X: 3, Y: 2}); err != nil {
        t.Fatalf("select failed: %v", err)
    }
    if pos, ok := g.Selected(); !ok || pos != (Position{X: 3, Y: 2}) {
        t.Fatalf("expected selection at (3,2), got %v %v", pos, ok)
    }

    // Illegal target keeps the selection.
    if _, err := g.AttemptMove(Position{X: 2, Y: 1}); !errors.Is(err, ErrIllegalMove) {
        t.Fatalf("expected ErrIllegalMove, got %v", err)
    }
    if _, ok := g.Selected(); !ok {
        t.Fatalf("selection lost after illegal target")
    }

    // Clicking an empty square keeps the selection.
    if err := g.Select(Red, Position{X: 0, Y: 1}); !errors.Is(err, ErrNotYourPiece) {
        t.Fatalf("expected ErrNotYourPiece, got %v", err)
    }
    if _, ok := g.Selected(); !ok {
        t.Fatalf("selection lost after empty click")
    }

    if _, err := g.AttemptMove(Position{X: 4, Y: 3}); err != nil {
        t.Fatalf("move failed: %v", err)
    }
    if g.Players[Red].Selected != -1 {
        t.Fatalf("selection should clear after a move")
    }
    if _, ok := g.Selected(); ok {
        t.Fatalf("black has not selected anything yet")
    }
}

func TestSelectRejections(t *testing.T) {
    g := mustLayout(t, DefaultVariant(), simpleLayout, Red)
    if err := g.Select(Black, Position{X: 0, Y: 7}); !errors.Is(err, ErrNotYourTurn) {
        t.Fatalf("expected ErrNotYourTurn, got %v", err)
    }
    if err := g.Select(Red, Position{X: 0, Y: 7}); !errors.Is(err, ErrNotYourPiece) {
        t.Fatalf("expected ErrNotYourPiece for enemy piece, got %v", err)
    }
    if err := g.Select(Red, Position{X: -1, Y: 3}); !errors.Is(err, ErrOffBoard) {
        t.Fatalf("expected ErrOffBoard, got %v", err)
    }
    if g.Players[Red].Selected != -1 {
        t.Fatalf("rejected selects must not select")
    }
}

func TestDeselect(t *testing.T) {
    g := mustLayout(t, DefaultVariant(), simpleLayout, Red)
    _ = g.Select(Red, Position{X: 3, Y: 2})
    g.Deselect()
    if _, ok := g.Selected(); ok {
        t.Fatalf("expected no selection after Deselect")
    }
}

func TestMoveCapturedPiece(t *testing.T) {
    g := mustLayout(t, DefaultVariant(), simpleLayout, Red)
    g.Players[Red].Pieces[0].Alive = false
    if _, err := g.MoveIndex(0, Position{X: 2, Y: 3}); !errors.Is(err, ErrPieceCaptured) {
        t.Fatalf("expected ErrPieceCaptured, got %v", err)
    }
    if _, err := g.MoveIndex(5, Position{X: 2, Y: 3}); !errors.Is(err, ErrNoSelection) {
        t.Fatalf("expected ErrNoSelection for bad index, got %v", err)
    }
}

func TestGameOverBlocksMoves(t *testing.T) {
    g := mustLayout(t, DefaultVariant(), simpleLayout, Red)
    g.Over = true
    if err := g.Select(Red, Position{X: 3, Y: 2}); !errors.Is(err, ErrGameOver) {
        t.Fatalf("expected ErrGameOver from Select, got %v", err)
    }
    if _, err := g.MoveIndex(0, Position{X: 2, Y: 3}); !errors.Is(err, ErrGameOver) {
        t.Fatalf("expected ErrGameOver from MoveIndex, got %v", err)
    }
}

func TestTurnAlternation(t *testing.T) {
    g, _ := New(DefaultVariant())
    if _, err := g.MoveIndex(9, Position{X: 2, Y: 3}); err != nil {
        t.Fatalf("red move failed: %v", err)
    }
    if g.Current() != Black {
        t.Fatalf("expected black after red moved")
    }
    // Red cannot move twice.
    if err := g.Select(Red, Position{X: 5, Y: 2}); !errors.Is(err, ErrNotYourTurn) {
        t.Fatalf("expected ErrNotYourTurn, got %v", err)
    }
    if _, err := g.MoveIndex(0, Position{X: 0, Y: 3}); err == nil {
        t.Fatalf("black piece 0 cannot reach (0,3)")
    }
    if g.Current() != Black {
        t.Fatalf("failed attempt must not pass the turn")
    }
}

func TestIllegalInputIsIdempotent(t *testing.T) {
    g, _ := New(DefaultVariant())
    _ = g.Select(Red, Position{X: 1, Y: 2})
    before := g.Clone()
    for i := 0; i < 5; i++ {
        if _, err := g.AttemptMove(Position{X: 1, Y: 4}); err == nil {
            t.Fatalf("attempt %d unexpectedly succeeded", i)
        }
    }
    if diff := cmp.Diff(before, g); diff != "" {
        t.Fatalf("repeated illegal input drifted state (-before +after):\n%s", diff)
    }
}

func TestLegalTargets(t *testing.T) {
    g := mustLayout(t, DefaultVariant(), `........
........
.r......
..b.....
........
....b...
........
........`, Red)
    got := g.LegalTargets(0)
    want := []Position{{X: 0, Y: 3}, {X: 3, Y: 4}, {X: 5, Y: 6}}
    if diff := cmp.Diff(want, got); diff != "" {
        t.Fatalf("targets mismatch (-want +got):\n%s", diff)
    }
    for _, to := range got {
        if _, err := g.Validate(0, to); err != nil {
            t.Fatalf("listed target %v does not validate: %v", to, err)
        }
    }
    if g.LegalTargets(3) != nil {
        t.Fatalf("out-of-range index must list nothing")
    }
}

// Plays the first legal move for whoever is on turn until someone is stuck,
// checking that no two pieces ever share a square.
func TestOccupancyInvariantOverPlayout(t *testing.T) {
    g, _ := New(DefaultVariant())
    for ply := 0; ply < 200; ply++ {
        moved := false
        for i := range g.Players[g.Turn].Pieces {
            targets := g.LegalTargets(i)
            if len(targets) == 0 {
                continue
            }
            if _, err := g.MoveIndex(i, targets[len(targets)-1]); err != nil {
                t.Fatalf("ply %d: listed target rejected: %v", ply, err)
            }
            moved = true
            break
        }
        if _, err := g.Occupancy(); err != nil {
            t.Fatalf("ply %d: %v", ply, err)
        }
        if !moved {
            break
        }
    }
    if g.Moves == 0 {
        t.Fatalf("expected the playout to make progress")
    }
}
