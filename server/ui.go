package server

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/moontigerdev/server-inventory-manager/internal/logs"
)

//go:embed templates/*.html
var templateFS embed.FS

// RegisterPages serves the three HTML views. The pages load their data from
// the JSON API client-side, so they carry no template data beyond a title.
func (a *App) RegisterPages() {
	tpl := template.Must(template.ParseFS(templateFS, "templates/*.html"))

	render := func(name, title string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			if err := tpl.ExecuteTemplate(w, name, map[string]string{"Title": title}); err != nil {
				logs.Logger.Errorf("render %s: %v", name, err)
			}
		}
	}

	a.Router.HandleFunc("/", render("index.html", "Servers")).Methods(http.MethodGet)
	a.Router.HandleFunc("/bios", render("bios.html", "BIOS Inventory")).Methods(http.MethodGet)
	a.Router.HandleFunc("/bmc", render("bmc.html", "BMC Inventory")).Methods(http.MethodGet)
}
