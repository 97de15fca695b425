package app

import (
    "context"
    "errors"
    "sync"
    "time"

    "github.com/google/uuid"
    "go.uber.org/zap"

    "github.com/jaminalder/codex-checkers/internal/domain"
    "github.com/jaminalder/codex-checkers/internal/obslog"
)

// Errors exposed by the service layer.
var (
    ErrNotFound = errors.New("game not found")
)

// GameState is the in-memory state tracked per game.
type GameState struct {
    ID      string
    Game    *domain.Game
    Created time.Time
    Updated time.Time
}

func (gs *GameState) snapshot() *GameState {
    cp := *gs
    cp.Game = gs.Game.Clone()
    return &cp
}

type subscriber struct {
    ch        chan []byte
    closeOnce sync.Once
}

func (s *subscriber) close() { s.closeOnce.Do(func() { close(s.ch) }) }

// Service manages games and subscribers. Every engine call runs under the
// service lock, so a game only ever sees one caller at a time.
type Service struct {
    mu      sync.Mutex
    games   map[string]*GameState
    subs    map[string]map[*subscriber]struct{}
    render  func(GameState) []byte
    variant domain.Variant
    log     *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithVariant sets the rules new games are created with.
func WithVariant(v domain.Variant) Option { return func(s *Service) { s.variant = v } }

// WithLogger sets the service logger.
func WithLogger(l *zap.Logger) Option {
    return func(s *Service) {
        if l != nil {
            s.log = l
        }
    }
}

func noRender(GameState) []byte { return nil }

// NewService creates a service with a default renderer (encodes nothing useful).
func NewService(opts ...Option) *Service { return NewServiceWithRenderer(noRender, opts...) }

// NewServiceWithRenderer allows injecting a renderer for broadcast payloads.
func NewServiceWithRenderer(renderer func(GameState) []byte, opts ...Option) *Service {
    if renderer == nil {
        renderer = noRender
    }
    s := &Service{
        games:   make(map[string]*GameState),
        subs:    make(map[string]map[*subscriber]struct{}),
        render:  renderer,
        variant: domain.DefaultVariant(),
        log:     obslog.L(),
    }
    for _, opt := range opts {
        opt(s)
    }
    return s
}

// SetRenderer replaces the broadcast renderer function.
func (s *Service) SetRenderer(renderer func(GameState) []byte) {
    s.mu.Lock()
    defer s.mu.Unlock()
    if renderer == nil {
        s.render = noRender
        return
    }
    s.render = renderer
}

// CreateGame creates and registers a new game in the starting position.
func (s *Service) CreateGame() (*GameState, error) {
    g, err := domain.New(s.variant)
    if err != nil {
        return nil, err
    }
    s.mu.Lock()
    defer s.mu.Unlock()
    gs := s.registerLocked(uuid.NewString(), g)
    s.log.Info("game created", zap.String("game", gs.ID), zap.Int("pieces", s.variant.PieceCount()))
    return gs.snapshot(), nil
}

func (s *Service) registerLocked(id string, g *domain.Game) *GameState {
    now := time.Now()
    gs := &GameState{ID: id, Game: g, Created: now, Updated: now}
    s.games[id] = gs
    return gs
}

// Get returns a copy of the game state if present.
func (s *Service) Get(id string) (*GameState, bool) {
    s.mu.Lock()
    defer s.mu.Unlock()
    gs, ok := s.games[id]
    if !ok {
        return nil, false
    }
    return gs.snapshot(), true
}

// Select selects the side-to-move's piece on pos.
func (s *Service) Select(id string, pos domain.Position) (*GameState, error) {
    return s.mutate(id, func(g *domain.Game) error {
        return g.Select(g.Turn, pos)
    })
}

// Move moves the selected piece to pos.
func (s *Service) Move(id string, pos domain.Position) (*GameState, error) {
    return s.mutate(id, func(g *domain.Game) error {
        return s.attemptMove(id, g, pos)
    })
}

// Click is the single entry point for a board click: clicking one of the
// mover's pieces (or any square with nothing selected) is a selection,
// anything else is a move attempt for the current selection.
func (s *Service) Click(id string, pos domain.Position) (*GameState, error) {
    return s.mutate(id, func(g *domain.Game) error {
        if _, selected := g.Selected(); !selected || g.Holds(g.Turn, pos) {
            return g.Select(g.Turn, pos)
        }
        return s.attemptMove(id, g, pos)
    })
}

// Deselect drops the current selection.
func (s *Service) Deselect(id string) (*GameState, error) {
    return s.mutate(id, func(g *domain.Game) error {
        g.Deselect()
        return nil
    })
}

// Targets lists where the selected piece may go.
func (s *Service) Targets(id string) ([]domain.Position, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    gs, ok := s.games[id]
    if !ok {
        return nil, ErrNotFound
    }
    g := gs.Game
    return g.LegalTargets(g.Players[g.Turn].Selected), nil
}

func (s *Service) attemptMove(id string, g *domain.Game, pos domain.Position) error {
    mv, err := g.AttemptMove(pos)
    if err != nil {
        s.log.Debug("move rejected",
            zap.String("game", id),
            zap.Stringer("side", g.Turn),
            zap.Stringer("to", pos),
            zap.Error(err))
        return err
    }
    s.log.Info("move",
        zap.String("game", id),
        zap.Stringer("side", mv.Side),
        zap.Stringer("from", mv.From),
        zap.Stringer("to", mv.To),
        zap.Int("captures", len(mv.Captures)))
    return nil
}

// mutate runs fn on the game under the lock and, if it succeeds, updates
// timestamps and broadcasts the new state.
func (s *Service) mutate(id string, fn func(g *domain.Game) error) (*GameState, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    gs, ok := s.games[id]
    if !ok {
        return nil, ErrNotFound
    }
    if err := fn(gs.Game); err != nil {
        return nil, err
    }
    gs.Updated = time.Now()

    cp := gs.snapshot()
    s.broadcastLocked(id, s.render(*cp))
    return cp, nil
}

// broadcastLocked fans payload out without blocking; slow subscribers are
// closed and dropped. Sends and closes both happen under s.mu.
func (s *Service) broadcastLocked(id string, payload []byte) {
    set := s.subs[id]
    dropped := 0
    for sub := range set {
        select {
        case sub.ch <- payload:
        default:
            sub.close()
            delete(set, sub)
            dropped++
        }
    }
    if dropped > 0 {
        s.log.Debug("dropped slow subscribers", zap.String("game", id), zap.Int("count", dropped))
    }
}

// Subscribe registers a subscriber for a game. Returns a channel and an unsubscribe func.
func (s *Service) Subscribe(ctx context.Context, id string) (<-chan []byte, func()) {
    s.mu.Lock()
    defer s.mu.Unlock()
    if _, ok := s.games[id]; !ok {
        // create lazily to allow subscriptions before CreateGame in some flows
        if g, err := domain.New(s.variant); err == nil {
            s.registerLocked(id, g)
        }
    }
    set := s.subs[id]
    if set == nil {
        set = make(map[*subscriber]struct{})
        s.subs[id] = set
    }
    sub := &subscriber{ch: make(chan []byte, 1)}
    set[sub] = struct{}{}

    unsubOnce := &sync.Once{}
    unsub := func() {
        unsubOnce.Do(func() {
            s.mu.Lock()
            if set, ok := s.subs[id]; ok {
                delete(set, sub)
            }
            sub.close()
            s.mu.Unlock()
        })
    }
    go func() {
        <-ctx.Done()
        unsub()
    }()
    return sub.ch, unsub
}
