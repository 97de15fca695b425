package domain

// Side identifies one of the two players.
type Side uint8

const (
    Red Side = iota
    Black
)

// Opponent returns the other side.
func (s Side) Opponent() Side {
    if s == Red {
        return Black
    }
    return Red
}

// Forward is the row direction this side's men move in. Red starts at the
// top rows and moves toward increasing Y.
func (s Side) Forward() int {
    if s == Red {
        return 1
    }
    return -1
}

func (s Side) String() string {
    switch s {
    case Red:
        return "red"
    case Black:
        return "black"
    default:
        return "unknown"
    }
}

// MarshalText encodes the side by name.
func (s Side) MarshalText() ([]byte, error) {
    return []byte(s.String()), nil
}

// Kind is the piece rank. Promotion is not implemented, so every piece
// stays a Man.
type Kind uint8

const (
    Man Kind = iota
    King
)

// Piece is one checker. Captured pieces keep their slot with Alive false.
type Piece struct {
    Pos   Position
    Alive bool
    Kind  Kind
}

// Player owns a fixed set of pieces and the transient selection cursor.
type Player struct {
    Side     Side
    Color    string
    Pieces   []Piece
    Selected int // -1 when nothing is selected
}

func newPlayer(side Side, positions []Position) Player {
    p := Player{Side: side, Color: side.String(), Pieces: make([]Piece, len(positions)), Selected: -1}
    for i, pos := range positions {
        p.Pieces[i] = Piece{Pos: pos, Alive: true, Kind: Man}
    }
    return p
}

// Live returns the number of pieces still on the board.
func (p *Player) Live() int {
    n := 0
    for _, pc := range p.Pieces {
        if pc.Alive {
            n++
        }
    }
    return n
}

func (p *Player) hasSelection() bool {
    return p.Selected >= 0 && p.Selected < len(p.Pieces) && p.Pieces[p.Selected].Alive
}
