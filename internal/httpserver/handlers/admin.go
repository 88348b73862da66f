package handlers

import (
	"html/template"
	"net/http"
	"time"

	"github.com/cosmicverse/starfield/internal/httpserver/deps"
	"github.com/cosmicverse/starfield/internal/logger"
)

var adminTmpl = template.Must(template.New("admin").Parse(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>Stars Admin</title>
<meta name="viewport" content="width=device-width,initial-scale=1">
<style>
body{font-family:Inter,Arial,Helvetica,sans-serif;background:#061025;color:#e6eef8;padding:20px}
table{width:100%;border-collapse:collapse;margin-top:12px}
th,td{padding:10px;border:1px solid rgba(255,255,255,0.06);text-align:left}
th{background:#071226}
tr:nth-child(even){background:rgba(255,255,255,0.02)}
button{background:#0b5cff;color:#fff;border:none;padding:6px 10px;border-radius:6px;cursor:pointer}
form{display:inline}
</style>
</head>
<body>
<h1>Saved Stars ({{len .Rows}})</h1>
<p><a href="/api/stars" target="_blank" style="color:#8fbafc">View JSON</a></p>
<table>
<thead><tr><th>ID</th><th>Sun</th><th>Moon</th><th>Rising</th><th>Date</th><th>Action</th></tr></thead>
<tbody>
{{range .Rows}}<tr>
<td>{{.ID}}</td><td>{{.Sun}}</td><td>{{.Moon}}</td><td>{{.Rising}}</td><td>{{.Date}}</td>
<td><form method="post" action="/delete"><input type="hidden" name="id" value="{{.ID}}"><button>Delete</button></form></td>
</tr>{{end}}
</tbody>
</table>
</body>
</html>`))

type adminRow struct {
	ID     string
	Sun    string
	Moon   string
	Rising string
	Date   string
}

type adminPage struct {
	Rows []adminRow
}

// Admin renders a plain HTML table of all stored stars with per-row
// delete forms. Operator convenience, not part of the JSON API.
func Admin(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stars := d.Stars.List(r.Context())
		page := adminPage{Rows: make([]adminRow, 0, len(stars))}
		for _, s := range stars {
			page.Rows = append(page.Rows, adminRow{
				ID:     s.Key(),
				Sun:    s.SunSign,
				Moon:   s.MoonSign,
				Rising: s.RisingSign,
				Date:   time.UnixMilli(s.Timestamp).Format("2006-01-02 15:04:05"),
			})
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := adminTmpl.Execute(w, page); err != nil {
			d.Logger.Error("failed to render admin page", logger.Error(err))
		}
	}
}

// AdminDelete handles the admin table's delete forms and bounces back
// to the table. A stale id (already deleted) is not an error here.
func AdminDelete(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}
		id := r.PostFormValue("id")
		if id != "" {
			if err := d.Stars.Delete(r.Context(), id); err != nil {
				d.Logger.Warn("admin delete failed",
					logger.String("id", id),
					logger.Error(err))
			}
		}
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
	}
}
