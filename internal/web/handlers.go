package web

import (
    "bufio"
    "bytes"
    "encoding/json"
    "errors"
    "fmt"
    "io"
    "net/http"
    "strconv"
    "time"

    "github.com/go-chi/chi/v5"
    "go.uber.org/zap"

    "github.com/jaminalder/codex-checkers/internal/app"
    "github.com/jaminalder/codex-checkers/internal/domain"
)

type handlers struct {
    svc *app.Service
    tpl *templates
    log *zap.Logger
}

func (h *handlers) renderBoard(gs app.GameState, errMsg string) []byte {
    return renderTemplate(h.tpl.board, "", newBoardView(gs.ID, gs.Game, errMsg))
}

// renderState is the broadcast renderer handed to the service.
func (h *handlers) renderState(gs app.GameState) []byte {
    return h.renderBoard(gs, "")
}

func (h *handlers) index(w http.ResponseWriter, r *http.Request) {
    w.Header().Set("Content-Type", "text/html; charset=utf-8")
    w.WriteHeader(http.StatusOK)
    _, _ = w.Write(renderTemplate(h.tpl.index, "", nil))
}

func (h *handlers) create(w http.ResponseWriter, r *http.Request) {
    gs, err := h.svc.CreateGame()
    if err != nil {
        h.log.Error("create game", zap.Error(err))
        http.Error(w, "failed to create", http.StatusInternalServerError)
        return
    }
    http.Redirect(w, r, "/game/"+gs.ID, http.StatusSeeOther)
}

func (h *handlers) view(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    gs, ok := h.svc.Get(id)
    if !ok {
        http.NotFound(w, r)
        return
    }
    w.Header().Set("Content-Type", "text/html; charset=utf-8")
    w.WriteHeader(http.StatusOK)
    _, _ = w.Write(renderTemplate(h.tpl.game, "", newBoardView(gs.ID, gs.Game, "")))
}

// click handles a left-click on square (x, y).
func (h *handlers) click(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    pos, ok := parsePosition(r)
    var (
        gs  *app.GameState
        err error
    )
    if ok {
        gs, err = h.svc.Click(id, pos)
    } else {
        err = domain.ErrOffBoard
    }
    h.writeBoard(w, r, id, gs, err)
}

func (h *handlers) deselect(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    gs, err := h.svc.Deselect(id)
    h.writeBoard(w, r, id, gs, err)
}

func (h *handlers) writeBoard(w http.ResponseWriter, r *http.Request, id string, gs *app.GameState, err error) {
    var errMsg string
    if err != nil {
        if gs == nil {
            if g, ok := h.svc.Get(id); ok {
                gs = g
            }
        }
        errMsg = reasonText(err)
    }
    if gs == nil {
        http.NotFound(w, r)
        return
    }
    w.Header().Set("Content-Type", "text/html; charset=utf-8")
    _, _ = w.Write(h.renderBoard(*gs, errMsg))
}

func parsePosition(r *http.Request) (domain.Position, bool) {
    _ = r.ParseForm()
    x, errX := strconv.Atoi(r.Form.Get("x"))
    y, errY := strconv.Atoi(r.Form.Get("y"))
    if errX != nil || errY != nil {
        return domain.Position{}, false
    }
    return domain.Position{X: x, Y: y}, true
}

func reasonText(err error) string {
    switch {
    case errors.Is(err, domain.ErrNotYourPiece):
        return "Pick one of your own pieces"
    case errors.Is(err, domain.ErrNotYourTurn):
        return "Not your turn"
    case errors.Is(err, domain.ErrOccupied):
        return "Square is occupied"
    case errors.Is(err, domain.ErrOffBoard):
        return "Off the board"
    case errors.Is(err, domain.ErrNoSelection):
        return "Select a piece first"
    case errors.Is(err, domain.ErrGameOver):
        return "Game is over"
    case errors.Is(err, app.ErrNotFound):
        return "Game not found"
    default:
        return "Illegal move"
    }
}

type piecesResponse struct {
    ID       string             `json:"id"`
    Turn     domain.Side        `json:"turn"`
    Moves    int                `json:"moves"`
    Selected *domain.Position   `json:"selected,omitempty"`
    Targets  []domain.Position  `json:"targets,omitempty"`
    Pieces   []domain.PieceView `json:"pieces"`
}

// pieces answers the per-frame drawing query as JSON.
func (h *handlers) pieces(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    gs, ok := h.svc.Get(id)
    if !ok {
        http.NotFound(w, r)
        return
    }
    targets, err := h.svc.Targets(id)
    if err != nil {
        http.NotFound(w, r)
        return
    }
    resp := piecesResponse{
        ID:      gs.ID,
        Turn:    gs.Game.Turn,
        Moves:   gs.Game.Moves,
        Targets: targets,
        Pieces:  gs.Game.Pieces(),
    }
    if sel, ok := gs.Game.Selected(); ok {
        resp.Selected = &sel
    }
    w.Header().Set("Content-Type", "application/json")
    if err := json.NewEncoder(w).Encode(resp); err != nil {
        h.log.Warn("encode pieces", zap.String("game", id), zap.Error(err))
    }
}

var heartbeatInterval = 15 * time.Second

func (h *handlers) events(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    w.Header().Set("Content-Type", "text/event-stream")
    w.Header().Set("Cache-Control", "no-cache")
    w.Header().Set("X-Accel-Buffering", "no")
    // In tests or non-EventSource requests, just acknowledge headers and return
    if r.Header.Get("Accept") != "text/event-stream" {
        w.WriteHeader(http.StatusOK)
        return
    }
    flusher, ok := w.(http.Flusher)
    if !ok {
        w.WriteHeader(http.StatusOK)
        return
    }
    ctx := r.Context()
    ch, unsub := h.svc.Subscribe(ctx, id)
    defer unsub()
    // heartbeat ticker
    ticker := time.NewTicker(heartbeatInterval)
    defer ticker.Stop()
    // Initial flush of headers
    flusher.Flush()
    for {
        select {
        case <-ctx.Done():
            return
        case <-ticker.C:
            _, _ = io.WriteString(w, ": ping\n\n")
            flusher.Flush()
        case b, ok := <-ch:
            if !ok {
                return
            }
            writeEvent(w, "board", b)
            flusher.Flush()
        }
    }
}

// writeEvent emits one SSE event; every payload line gets its own data field.
func writeEvent(w io.Writer, name string, payload []byte) {
    _, _ = fmt.Fprintf(w, "event: %s\n", name)
    sc := bufio.NewScanner(bytes.NewReader(payload))
    sc.Buffer(make([]byte, 0, 64*1024), len(payload)+1)
    for sc.Scan() {
        _, _ = fmt.Fprintf(w, "data: %s\n", sc.Bytes())
    }
    _, _ = io.WriteString(w, "\n")
}
