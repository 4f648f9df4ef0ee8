package notification

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed templates/*.html
var templateFS embed.FS

// TemplateEngine renders the notification emails from the embedded
// html/template set
type TemplateEngine struct {
	templates *template.Template
	printer   *message.Printer
	currency  string
}

// TemplateEngineOption configures the template engine
type TemplateEngineOption func(*TemplateEngine)

// WithLocale sets the locale used to format amounts
func WithLocale(tag language.Tag) TemplateEngineOption {
	return func(e *TemplateEngine) {
		e.printer = message.NewPrinter(tag)
	}
}

// WithCurrency sets the currency suffix printed after amounts
func WithCurrency(symbol string) TemplateEngineOption {
	return func(e *TemplateEngine) {
		e.currency = symbol
	}
}

// NewTemplateEngine parses the embedded templates
func NewTemplateEngine(opts ...TemplateEngineOption) (*TemplateEngine, error) {
	e := &TemplateEngine{
		printer:  message.NewPrinter(language.English),
		currency: "VND",
	}
	for _, opt := range opts {
		opt(e)
	}

	funcMap := template.FuncMap{
		"formatMoney": e.formatMoney,
		"formatDate":  formatDate,
	}
	tmpl, err := template.New("mail").Funcs(funcMap).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse mail templates: %w", err)
	}
	e.templates = tmpl
	return e, nil
}

// Render executes the named template with data
func (e *TemplateEngine) Render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := e.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.String(), nil
}

// formatMoney formats an amount with locale grouping and two decimals.
// Example: 25000 -> "25,000.00 VND"
func (e *TemplateEngine) formatMoney(d decimal.Decimal) string {
	amount := e.printer.Sprintf("%.2f", d.Round(2).InexactFloat64())
	if e.currency == "" {
		return amount
	}
	return amount + " " + e.currency
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04")
}
