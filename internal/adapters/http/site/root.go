// Package site serves the HTML questionnaire page.
package site

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/okian/lifespan/internal/domain/model"
	"github.com/okian/lifespan/internal/domain/response"
)

// Error constants
var (
	ErrGenerate = errors.New("questionnaire page generation failed")
)

//go:embed templates/index.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// FactorLister supplies the factors rendered as questions.
type FactorLister interface {
	Factors(ctx context.Context) []model.Factor
}

type question struct {
	Index  int
	Name   string
	Prompt string
	Sex    string
}

type option struct {
	Label string
	Value string
}

type pageData struct {
	Questions []question
	Options   []option
}

// Register attaches the questionnaire page to mux at /.
func Register(_ context.Context, mux *http.ServeMux, factors FactorLister) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("/", NewRootHandler(factors).HandleRoot)
}

// RootHandler renders the questionnaire.
type RootHandler struct {
	factors FactorLister
}

// NewRootHandler creates a new root handler
func NewRootHandler(factors FactorLister) *RootHandler {
	return &RootHandler{factors: factors}
}

// HandleRoot handles GET / requests.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.NotFound(w, r)
		return
	}
	page, err := Render(h.factors.Factors(r.Context()))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

// Render produces the questionnaire page for factors.
func Render(factors []model.Factor) ([]byte, error) {
	data := pageData{Questions: make([]question, len(factors))}
	for i, f := range factors {
		data.Questions[i] = question{Index: i, Name: f.Name, Prompt: f.Prompt(), Sex: f.AffectedSex.String()}
	}
	// One option per weight level; synonyms would only repeat the same weight.
	seen := map[float64]bool{}
	for _, a := range response.Answers() {
		if seen[a.Weight()] {
			continue
		}
		seen[a.Weight()] = true
		data.Options = append(data.Options, option{Label: label(a), Value: string(a)})
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGenerate, err)
	}
	return buf.Bytes(), nil
}

func label(a response.Answer) string {
	s := string(a)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
