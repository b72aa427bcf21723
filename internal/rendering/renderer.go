package rendering

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/jonathan/landing-site/internal/config"
	"github.com/jonathan/landing-site/internal/fetch"
	"github.com/jonathan/landing-site/internal/paths"
	"github.com/jonathan/landing-site/internal/seo"
	"github.com/jonathan/landing-site/internal/site"
	"github.com/jonathan/landing-site/internal/types"
)

//go:embed templates/*.gohtml
var embedded embed.FS

// pageTemplates maps a page kind to its body template.
var pageTemplates = map[site.PageKind]string{
	site.KindLanding:   "page-landing",
	site.KindDynamic:   "page-dynamic",
	site.KindBlogIndex: "page-blog-index",
	site.KindBlogPost:  "page-blog-post",
}

// Renderer turns resolved pages into HTML documents.
type Renderer struct {
	tmpl *template.Template
	site *config.SiteConfig
}

// View is the data passed to the layout and page templates.
type View struct {
	Meta     seo.Metadata
	Theme    Theme
	Page     *site.Page
	Sections []SectionView
	Body     template.HTML
	Header   template.HTML
	Footer   template.HTML
	GTM      string
	Site     *config.SiteConfig
	Status   int
	Message  string
	Year     int
}

// New creates a renderer from the embedded templates.
func New(siteCfg *config.SiteConfig) (*Renderer, error) {
	return newRenderer(siteCfg, embedded, "templates/*.gohtml")
}

// NewFromDir creates a renderer from the *.gohtml templates of dir, which replace the
// embedded ones.
func NewFromDir(siteCfg *config.SiteConfig, dir string) (*Renderer, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &TemplateError{Message: fmt.Sprintf("template directory not found: %s", dir), Cause: err}
		}
		return nil, &TemplateError{Message: fmt.Sprintf("failed to read template directory: %s", dir), Cause: err}
	}
	if !info.IsDir() {
		return nil, &TemplateError{Message: fmt.Sprintf("not a directory: %s", dir)}
	}
	return newRenderer(siteCfg, os.DirFS(dir), "*.gohtml")
}

func newRenderer(siteCfg *config.SiteConfig, fsys fs.FS, pattern string) (*Renderer, error) {
	tmpl, err := template.New("site").Funcs(funcMap()).ParseFS(fsys, pattern)
	if err != nil {
		return nil, &TemplateError{Message: "failed to parse templates", Cause: err}
	}
	for _, name := range append(templateNames(), "layout", "page-not-found", "page-maintenance", "page-error") {
		if tmpl.Lookup(name) == nil {
			return nil, &TemplateError{Template: name, Message: "missing from template set"}
		}
	}
	return &Renderer{tmpl: tmpl, site: siteCfg}, nil
}

func templateNames() []string {
	var names []string
	for _, n := range sectionTemplates {
		names = append(names, n)
	}
	for _, n := range pageTemplates {
		names = append(names, n)
	}
	return names
}

// Page renders a resolved page.
func (r *Renderer) Page(page *site.Page) (string, error) {
	name, ok := pageTemplates[page.Kind]
	if !ok {
		return "", &RenderError{Path: page.Path, Kind: string(page.Kind)}
	}

	landing := page.Root
	if page.Kind == site.KindLanding {
		landing = page.Landing
	}
	view := r.newView(seo.MetadataFor(page, r.site), ThemeFor(landing))
	view.Page = page
	if landing != nil {
		view.GTM = landing.GoogleTagManager
	}

	if page.Kind == site.KindLanding {
		view.Sections = sectionViews(page, page.Landing.Sections)
	} else {
		var err error
		if view.Header, err = r.chrome(page, page.Header); err != nil {
			return "", err
		}
		if view.Footer, err = r.chrome(page, page.Footer); err != nil {
			return "", err
		}
	}

	var sections strings.Builder
	for _, sv := range view.Sections {
		if err := r.tmpl.ExecuteTemplate(&sections, sectionTemplates[sv.Section.Kind], sv); err != nil {
			return "", &TemplateError{Template: sectionTemplates[sv.Section.Kind], Section: sv.Section.ID, Message: "failed to render section", Cause: err}
		}
	}
	view.Body = template.HTML(sections.String())

	body, err := r.execute(name, view)
	if err != nil {
		return "", err
	}
	view.Body = body
	out, err := r.execute("layout", view)
	return string(out), err
}

// chrome renders the header or footer of a non-landing page.
func (r *Renderer) chrome(page *site.Page, section *types.Section) (template.HTML, error) {
	if section == nil || !section.Visible() {
		return "", nil
	}
	sv := SectionView{Anchor: section.ID, Section: section, Entry: section.Entry, Page: page}
	var sb strings.Builder
	if err := r.tmpl.ExecuteTemplate(&sb, sectionTemplates[section.Kind], sv); err != nil {
		return "", &TemplateError{Template: sectionTemplates[section.Kind], Section: section.ID, Message: "failed to render section", Cause: err}
	}
	return template.HTML(sb.String()), nil
}

// NotFound renders the standard not-found page with the root theme when available.
func (r *Renderer) NotFound(root *types.LandingPage) (string, error) {
	meta := seo.MaintenanceMetadata(r.site)
	meta.Title = "Page not found"
	meta.Description = "The page you are looking for does not exist."
	view := r.newView(meta, ThemeFor(root))
	view.Status = 404
	return r.document("page-not-found", view)
}

// Maintenance renders the page shown while the CMS cannot be reached.
func (r *Renderer) Maintenance() (string, error) {
	view := r.newView(seo.MaintenanceMetadata(r.site), ThemeFor(nil))
	view.Status = 503
	return r.document("page-maintenance", view)
}

// Error renders a generic error page. The message is shown to the visitor.
func (r *Renderer) Error(status int, message string) (string, error) {
	meta := seo.MaintenanceMetadata(r.site)
	meta.Title = "Something went wrong"
	view := r.newView(meta, ThemeFor(nil))
	view.Status = status
	view.Message = message
	return r.document("page-error", view)
}

func (r *Renderer) newView(meta seo.Metadata, theme Theme) *View {
	return &View{Meta: meta, Theme: theme, Site: r.site, Year: time.Now().Year()}
}

func (r *Renderer) document(name string, view *View) (string, error) {
	body, err := r.execute(name, view)
	if err != nil {
		return "", err
	}
	view.Body = body
	out, err := r.execute("layout", view)
	return string(out), err
}

func (r *Renderer) execute(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", &TemplateError{Template: name, Message: "failed to execute", Cause: err}
	}
	return template.HTML(buf.String()), nil
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"field":    func(e *types.Entry, name string) string { return e.String(name) },
		"flag":     func(e *types.Entry, name string) bool { return e.Bool(name) },
		"number":   func(e *types.Entry, name string) float64 { return e.Number(name) },
		"list":     func(e *types.Entry, name string) []string { return e.Strings(name) },
		"link":     func(e *types.Entry, name string) *types.Entry { return e.Link(name) },
		"links":    func(e *types.Entry, name string) []*types.Entry { return e.Links(name) },
		"asset":    func(e *types.Entry, name string) *types.Asset { return e.Asset(name) },
		"assets":   func(e *types.Entry, name string) []*types.Asset { return e.Assets(name) },
		"content":  func(e *types.Entry, name string) template.HTML { return Content(e.Fields[name]) },
		"richtext": RichText,
		"markdown": Markdown,
		"pagePath": paths.PagePath,
		"blogPath": paths.BlogPath,
		"excerpt": func(p *types.DynamicPage) string {
			return fetch.Excerpt(string(RichText(p.Content)), 160)
		},
		"date": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("January 2, 2006")
		},
		"isoDate": func(t time.Time) string { return t.Format(time.RFC3339) },
		"jsonld":  func(s string) template.JS { return template.JS(s) },
		"add":     func(a, b int) int { return a + b },
		"seq": func(n int) []int {
			out := make([]int, n)
			for i := range out {
				out[i] = i + 1
			}
			return out
		},
	}
}
