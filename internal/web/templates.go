package web

import (
	"bytes"
	"html/template"

	"github.com/jaminalder/tictactoe-timetravel/internal/app"
)

type templates struct {
	page *template.Template
	game *template.Template
}

func loadTemplates() *templates {
	page := template.Must(template.New("page").Parse(pageTemplate))
	template.Must(page.New("game").Parse(gameTemplate))
	game := template.Must(template.New("game_only").Parse(gameTemplate))
	return &templates{page: page, game: game}
}

func renderTemplate(t *template.Template, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Data models for templates

type cellData struct {
	Index   int
	Symbol  string
	Winning bool
}

type gameData struct {
	app.View
	Rows  [3][3]cellData
	Error string
}

func newGameData(v app.View, errMsg string) gameData {
	d := gameData{View: v, Error: errMsg}
	for i, c := range v.Board {
		d.Rows[i/3][i%3] = cellData{Index: i, Symbol: c.String(), Winning: v.Status.Winning(i)}
	}
	return d
}

const pageTemplate = `<!doctype html><html><head>
<meta charset="utf-8"/>
<title>Tic Tac Toe</title>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<script src="https://unpkg.com/htmx.org@1.9.12/dist/ext/sse.js"></script>
<style>
.game{display:flex;flex-direction:row}
.game-info{margin-left:20px}
.board-row{display:flex}
.board-row form{margin:0}
.square{width:48px;height:48px;font-size:24px;font-weight:bold;margin:-1px -1px 0 0}
.winnerLine{background:#ffd54f}
.current{font-weight:bold}
.alert{color:#b00020}
</style>
</head><body>
<div id="game-container" hx-ext="sse" sse-connect="/events" sse-swap="game">{{template "game" .}}</div>
</body></html>`

const gameTemplate = `<div id="game" class="game">
  <div class="game-board">
    <h1>Tic Tac Toe</h1>
    {{range .Rows}}
    <div class="board-row">
      {{range .}}
      <form action="/move" method="post" hx-post="/move" hx-target="#game" hx-swap="outerHTML">
        <input type="hidden" name="i" value="{{.Index}}">
        <button type="submit" class="square{{if .Winning}} winnerLine{{end}}">{{.Symbol}}</button>
      </form>
      {{end}}
    </div>
    {{end}}
  </div>
  <div class="game-info">
    {{if .Error}}
    <div class="alert">{{.Error}}</div>
    {{end}}
    <div class="status">{{.StatusText}}</div>
    <form action="/restart" method="post" hx-post="/restart" hx-target="#game" hx-swap="outerHTML">
      <button type="submit" class="restart">Restart Game</button>
    </form>
    <ol>
      {{range .Moves}}
      <li>
        <form action="/jump" method="post" hx-post="/jump" hx-target="#game" hx-swap="outerHTML">
          <input type="hidden" name="step" value="{{.Step}}">
          <button type="submit" class="button{{if .Current}} current{{end}}">{{.Label}}</button>
        </form>
      </li>
      {{end}}
    </ol>
  </div>
</div>`
