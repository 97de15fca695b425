package web

import (
    "bytes"
    "html/template"

    "github.com/jaminalder/codex-checkers/internal/domain"
)

type templates struct {
    base  *template.Template
    game  *template.Template
    board *template.Template
    index *template.Template
}

func funcs() template.FuncMap {
    return template.FuncMap{
        "pieceSymbol": func(p string) string {
            if p == "" {
                return ""
            }
            return "●"
        },
    }
}

func loadTemplates() *templates {
    base := template.Must(template.New("base").Funcs(funcs()).Parse(`<!doctype html><html><head>
<meta charset="utf-8"/>
<title>Checkers</title>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<script src="https://unpkg.com/htmx.org/dist/ext/sse.js"></script>
<style>
.row{display:flex}.row form{margin:0}
.sq{width:48px;height:48px;border:0;font-size:32px;display:inline-block}
.light{background:#e8d7b0}.dark{background:#7a5230}
.red{color:#d22}.black{color:#111}
.selected{outline:3px solid #ff0;outline-offset:-3px}.target{box-shadow:inset 0 0 0 3px #6f6}
</style>
</head><body>{{template "content" .}}</body></html>`))
    // Define the board template within the same set so game can include it
    template.Must(base.New("board").Funcs(funcs()).Parse(boardTemplate))
    index := template.Must(template.Must(base.Clone()).New("content").Parse(`<h1>Checkers</h1><form action="/game" method="post"><button>New game</button></form>`))
    game := template.Must(template.Must(base.Clone()).New("content").Parse(`
<div hx-ext="sse" hx-sse="connect:/game/{{.ID}}/events">
  <div id="board-container" hx-sse="swap:board">{{template "board" .}}</div>
</div>
<form hx-post="/game/{{.ID}}/deselect" hx-target="#board" hx-swap="outerHTML" method="post"><button>Cancel selection</button></form>`))
    // Standalone board template used for fragment rendering
    board := template.Must(template.New("board_only").Funcs(funcs()).Parse(boardTemplate))
    return &templates{base: base, game: game, board: board, index: index}
}

func renderTemplate(t *template.Template, name string, data any) []byte {
    var buf bytes.Buffer
    if name == "" {
        _ = t.Execute(&buf, data)
    } else {
        _ = t.ExecuteTemplate(&buf, name, data)
    }
    return buf.Bytes()
}

const boardTemplate = `<div id="board">
  {{if .Error}}<div class="alert">{{.Error}}</div>{{end}}
  <div class="status">Turn: {{.Turn}} | red {{.RedAlive}} | black {{.BlackAlive}} | moves {{.Moves}}</div>
  {{range .Rows}}<div class="row">
    {{range .}}{{if .Dark}}<form hx-post="/game/{{$.ID}}/click" hx-target="#board" hx-swap="outerHTML" method="post">
      <input type="hidden" name="x" value="{{.X}}"><input type="hidden" name="y" value="{{.Y}}">
      <button type="submit" class="sq dark {{.Piece}}{{if .Selected}} selected{{end}}{{if .Target}} target{{end}}">{{pieceSymbol .Piece}}</button>
    </form>{{else}}<span class="sq light"></span>{{end}}{{end}}
  </div>{{end}}
</div>`

// Data models for templates
type squareView struct {
    X, Y     int
    Dark     bool
    Piece    string
    Selected bool
    Target   bool
}

type boardView struct {
    ID         string
    Turn       string
    Moves      int
    RedAlive   int
    BlackAlive int
    Error      string
    Rows       [][]squareView
}

func newBoardView(id string, g *domain.Game, errMsg string) boardView {
    bv := boardView{
        ID:         id,
        Turn:       g.Turn.String(),
        Moves:      g.Moves,
        RedAlive:   g.Alive(domain.Red),
        BlackAlive: g.Alive(domain.Black),
        Error:      errMsg,
        Rows:       make([][]squareView, domain.BoardSize),
    }
    for y := range bv.Rows {
        bv.Rows[y] = make([]squareView, domain.BoardSize)
        for x := range bv.Rows[y] {
            p := domain.Position{X: x, Y: y}
            bv.Rows[y][x] = squareView{X: x, Y: y, Dark: g.Variant.IsDark(p)}
        }
    }
    for _, pv := range g.Pieces() {
        sq := &bv.Rows[pv.Pos.Y][pv.Pos.X]
        sq.Piece = pv.Color
        sq.Selected = pv.Selected
    }
    for _, t := range g.LegalTargets(g.Players[g.Turn].Selected) {
        bv.Rows[t.Y][t.X].Target = true
    }
    return bv
}
