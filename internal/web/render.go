// Package web holds the console's embedded templates and static assets.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin/render"

	"transitcrm/internal/utils"
)

//go:embed templates static
var files embed.FS

// LayoutTemplate is the root template every page executes.
const LayoutTemplate = "layout"

type NavItem struct {
	Path  string
	Label string
}

var Nav = []NavItem{
	{"/", "Home"},
	{"/products", "Products"},
	{"/customers", "Customers"},
	{"/purchases", "Purchases"},
	{"/service-request", "Service Request"},
	{"/transaction-history", "Transaction History"},
	{"/fare-disputes", "Fare Disputes"},
}

// Page is the model shared by every template.
type Page struct {
	Title         string
	Active        string
	UserName      string
	Authenticated bool
	Notice        string
	Error         string
	Data          any
}

var funcs = template.FuncMap{
	"nav":      func() []NavItem { return Nav },
	"dollars":  utils.FormatDollars,
	"datetime": utils.DisplayDateTime,
	"date":     utils.DisplayDate,
	"lower":    strings.ToLower,
	"isActive": func(active, p string) bool {
		if p == "/" {
			return active == "/"
		}
		return active == p || strings.HasPrefix(active, p+"/")
	},
}

// Renderer implements gin's render.HTMLRender over the embedded pages. Each
// page is parsed into its own clone of the layout.
type Renderer struct {
	pages map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	base, err := template.New(LayoutTemplate).Funcs(funcs).ParseFS(files, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	names, err := fs.Glob(files, "templates/pages/*.html")
	if err != nil {
		return nil, err
	}
	r := &Renderer{pages: make(map[string]*template.Template, len(names))}
	for _, name := range names {
		clone, err := base.Clone()
		if err != nil {
			return nil, err
		}
		t, err := clone.ParseFS(files, name)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		r.pages[strings.TrimSuffix(path.Base(name), ".html")] = t
	}
	return r, nil
}

// Instance picks the page template; gin calls it from c.HTML.
func (r *Renderer) Instance(name string, data any) render.Render {
	t, ok := r.pages[name]
	if !ok {
		t = template.Must(template.New(LayoutTemplate).Parse(`page {{.}} not found`))
		data = name
	}
	return render.HTML{Template: t, Name: LayoutTemplate, Data: data}
}

// Has reports whether a page template exists.
func (r *Renderer) Has(name string) bool {
	_, ok := r.pages[name]
	return ok
}

// Static serves the embedded assets under /static.
func Static() http.FileSystem {
	sub, err := fs.Sub(files, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}
