package handler

import (
	"fmt"
	"html/template"
	"io"
	"net/http"
	"os"
	"path/filepath"
)

// Renderer manages template parsing and rendering with isolated template sets
type Renderer struct {
	templates map[string]*template.Template
}

// NewRenderer parses the layout plus every page template under templatesDir.
// Each page gets its own clone of the layout so page-level blocks cannot
// leak between pages.
func NewRenderer(templatesDir string) (*Renderer, error) {
	templates := make(map[string]*template.Template)

	layoutPath := filepath.Join(templatesDir, "layout.html")
	baseTmpl, err := template.New("base").Funcs(TemplateFuncs()).ParseFiles(layoutPath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}

	pages, err := filepath.Glob(filepath.Join(templatesDir, "*.html"))
	if err != nil {
		return nil, fmt.Errorf("failed to glob templates: %w", err)
	}

	for _, page := range pages {
		if filepath.Base(page) == "layout.html" {
			continue
		}

		pageTmpl, err := baseTmpl.Clone()
		if err != nil {
			return nil, fmt.Errorf("failed to clone template for %s: %w", page, err)
		}

		pageTmpl, err = pageTmpl.ParseFiles(page)
		if err != nil {
			return nil, fmt.Errorf("failed to parse page %s: %w", page, err)
		}

		pageName := filepath.Base(page)
		pageName = pageName[:len(pageName)-len(filepath.Ext(pageName))]
		templates[pageName] = pageTmpl
	}

	return &Renderer{
		templates: templates,
	}, nil
}

// Execute returns the named template set
func (r *Renderer) Execute(name string) (*template.Template, error) {
	tmpl, ok := r.templates[name]
	if !ok {
		return nil, fmt.Errorf("template %q not found", name)
	}
	return tmpl, nil
}

// Render executes a template and writes to an io.Writer
func (r *Renderer) Render(w io.Writer, name string, data interface{}) error {
	tmpl, err := r.Execute(name)
	if err != nil {
		return err
	}
	return tmpl.ExecuteTemplate(w, "base", data)
}

// RenderHTTP renders to an http.ResponseWriter with error handling
func (r *Renderer) RenderHTTP(w http.ResponseWriter, name string, data interface{}) {
	tmpl, err := r.Execute(name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "template error: %v\n", err)
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}

	if err := tmpl.ExecuteTemplate(w, "base", data); err != nil {
		fmt.Fprintf(os.Stderr, "render error: %v\n", err)
		http.Error(w, "Failed to render template", http.StatusInternalServerError)
		return
	}
}
