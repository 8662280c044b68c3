// Package views renders the few server-side pages of the booking flow: the
// auto-submitting gateway form, the payment result page and the bookings
// list.
package views

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var files embed.FS

// Template names.
const (
	Checkout      = "checkout.html"
	PaymentResult = "payment_result.html"
	Bookings      = "bookings.html"
)

// Renderer implements echo.Renderer over the embedded templates.
type Renderer struct {
	t *template.Template
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	t, err := template.New("").Funcs(template.FuncMap{
		"millis": func(d time.Duration) int64 { return d.Milliseconds() },
	}).ParseFS(files, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("views: parse templates: %w", err)
	}
	return &Renderer{t: t}, nil
}

// Render executes the named template.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	return r.t.ExecuteTemplate(w, name, data)
}
