package domain

// JumpStep is one capture in a chain: the enemy piece jumped over and the
// square the mover lands on.
type JumpStep struct {
    Captured Position `json:"captured"`
    Landing  Position `json:"landing"`
}

// jumpSearch is the state of one depth-first chain search. visited and
// path are scoped to the branch being explored and unwound on return.
type jumpSearch struct {
    g       *Game
    enemy   Side
    dy      int
    limit   int
    visited map[Position]bool
    path    []JumpStep
}

func (g *Game) newJumpSearch(dy int, enemy Side, limit int) *jumpSearch {
    return &jumpSearch{
        g:       g,
        enemy:   enemy,
        dy:      dy,
        limit:   limit,
        visited: make(map[Position]bool),
        path:    make([]JumpStep, 0, limit),
    }
}

// FindJumpChain looks for a chain of single forward jumps over enemy pieces
// leading from `from` to `to`. Only the two forward diagonals (row direction
// dy) are explored, left before right, and the first chain found wins.
// Chains longer than limit jumps are not considered.
func (g *Game) FindJumpChain(from, to Position, dy int, enemy Side, limit int) ([]JumpStep, bool) {
    if !g.Variant.IsDark(to) || limit < 1 {
        return nil, false
    }
    s := g.newJumpSearch(dy, enemy, limit)
    if !s.reach(from, to) {
        return nil, false
    }
    return append([]JumpStep(nil), s.path...), true
}

func (s *jumpSearch) reach(cur, target Position) bool {
    if cur == target && len(s.path) > 0 {
        return true
    }
    if len(s.path) >= s.limit {
        return false
    }
    s.visited[cur] = true
    defer delete(s.visited, cur)

    for _, dx := range [2]int{-1, 1} {
        step, ok := s.candidate(cur, dx)
        if !ok {
            continue
        }
        s.path = append(s.path, step)
        if s.reach(step.Landing, target) {
            return true
        }
        s.path = s.path[:len(s.path)-1]
    }
    return false
}

// candidate returns the jump from cur along dx if the middle square holds
// an enemy and the landing square is free and not yet on this branch.
func (s *jumpSearch) candidate(cur Position, dx int) (JumpStep, bool) {
    mid := cur.Step(dx, s.dy, 1)
    land := cur.Step(dx, s.dy, 2)
    if s.visited[land] || !s.g.Holds(s.enemy, mid) || !s.g.IsEmpty(land) {
        return JumpStep{}, false
    }
    return JumpStep{Captured: mid, Landing: land}, true
}

// jumpLandings lists every square some chain from `from` can end on, in
// search order.
func (g *Game) jumpLandings(from Position, dy int, enemy Side, limit int) []Position {
    if limit < 1 {
        return nil
    }
    s := g.newJumpSearch(dy, enemy, limit)
    seen := make(map[Position]bool)
    var out []Position
    s.collect(from, seen, &out)
    return out
}

func (s *jumpSearch) collect(cur Position, seen map[Position]bool, out *[]Position) {
    if len(s.path) > 0 && !seen[cur] {
        seen[cur] = true
        *out = append(*out, cur)
    }
    if len(s.path) >= s.limit {
        return
    }
    s.visited[cur] = true
    defer delete(s.visited, cur)

    for _, dx := range [2]int{-1, 1} {
        step, ok := s.candidate(cur, dx)
        if !ok {
            continue
        }
        s.path = append(s.path, step)
        s.collect(step.Landing, seen, out)
        s.path = s.path[:len(s.path)-1]
    }
}
