// Package ui exposes a finished output directory over HTTP: the Markdown
// summary rendered as HTML plus the raw result files. Read-only; the search
// itself never touches this surface.
package ui

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"specsearch/internal"
	"specsearch/internal/report"
)

const pageTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Regression search results</title>
<style>
body { font-family: sans-serif; max-width: 72rem; margin: 2rem auto; padding: 0 1rem; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: 0.3rem 0.6rem; }
</style>
</head>
<body>
%s
<hr>
<p><a href="/results.json">results.json</a> | <a href="/results.csv">results.csv</a></p>
</body>
</html>`

// Server serves the artifacts of one output directory.
type Server struct {
	outputDir string
	router    chi.Router
}

// NewServer creates a server over the given output directory.
func NewServer(outputDir string) *Server {
	s := &Server{outputDir: outputDir}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Get("/", s.handleSummary)
	r.Get("/profile", s.handleProfile)
	r.Get("/results.json", s.serveFile(report.ResultsJSONName, "application/json"))
	r.Get("/results.csv", s.serveFile(report.ResultsCSVName, "text/csv"))
	s.router = r

	return s
}

// ListenAndServe starts the HTTP server on addr.
func (s *Server) ListenAndServe(addr string) error {
	internal.DefaultLogger.Info("[UI] serving %s on %s", s.outputDir, addr)
	return http.ListenAndServe(addr, s.router)
}

// Handler returns the HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	s.renderMarkdown(w, report.SummaryName)
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	s.renderMarkdown(w, report.ProfileName)
}

func (s *Server) renderMarkdown(w http.ResponseWriter, name string) {
	src, err := os.ReadFile(filepath.Join(s.outputDir, name))
	if err != nil {
		http.Error(w, fmt.Sprintf("%s not found in %s", name, s.outputDir), http.StatusNotFound)
		return
	}

	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	rendered := markdown.ToHTML(src, p, renderer)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, pageTemplate, rendered)
}

func (s *Server) serveFile(name, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := filepath.Join(s.outputDir, name)
		if _, err := os.Stat(path); err != nil {
			http.Error(w, fmt.Sprintf("%s not found in %s", name, s.outputDir), http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", contentType)
		http.ServeFile(w, r, path)
	}
}
