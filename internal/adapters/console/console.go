// Package console runs the questionnaire interactively over a reader and writer.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	service "github.com/okian/lifespan/internal/app"
	"github.com/okian/lifespan/internal/domain/model"
	"github.com/okian/lifespan/internal/domain/report"
	"github.com/okian/lifespan/internal/domain/response"
	"github.com/okian/lifespan/internal/domain/scoring"
)

// DefaultMaxAttempts bounds re-prompts for a single question.
const DefaultMaxAttempts = 5

// Estimator is the subset of the estimation service the console needs.
type Estimator interface {
	Estimate(ctx context.Context, req service.Request) (report.Report, error)
	Factors(ctx context.Context) []model.Factor
}

// Option configures a Session.
type Option func(*Session)

// WithMaxAttempts sets how many times one question is asked before giving up.
func WithMaxAttempts(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// Session asks the questionnaire on in and writes prompts to out.
type Session struct {
	est         Estimator
	in          *bufio.Scanner
	out         io.Writer
	maxAttempts int
}

// NewSession creates a console session.
func NewSession(est Estimator, in io.Reader, out io.Writer, opts ...Option) *Session {
	s := &Session{
		est:         est,
		in:          bufio.NewScanner(in),
		out:         out,
		maxAttempts: DefaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ask collects gender and one answer per factor. Factors restricted to the
// other sex are not asked and count as "no".
func (s *Session) Ask(ctx context.Context) (service.Request, error) {
	g, err := s.askGender()
	if err != nil {
		return service.Request{}, err
	}

	factors := s.est.Factors(ctx)
	answers := make([]string, len(factors))
	fmt.Fprintf(s.out, "Please answer the following questions about your lifestyle (%s):\n", answerHint())
	for i, f := range factors {
		if err := ctx.Err(); err != nil {
			return service.Request{}, err
		}
		if !scoring.Eligible(f.AffectedSex, g) {
			answers[i] = string(response.No)
			continue
		}
		a, err := s.askFactor(f)
		if err != nil {
			return service.Request{}, err
		}
		answers[i] = string(a)
	}
	return service.Request{Gender: g.String(), Answers: answers}, nil
}

// Run asks the questionnaire, estimates and writes the text report.
func (s *Session) Run(ctx context.Context) (report.Report, error) {
	req, err := s.Ask(ctx)
	if err != nil {
		return report.Report{}, err
	}
	rep, err := s.est.Estimate(ctx, req)
	if err != nil {
		return report.Report{}, err
	}
	fmt.Fprintln(s.out)
	if err := report.WriteText(s.out, rep); err != nil {
		return report.Report{}, err
	}
	return rep, nil
}

func (s *Session) askGender() (model.Gender, error) {
	for i := 0; i < s.maxAttempts; i++ {
		line, err := s.prompt("What is your gender? (male/female): ")
		if err != nil {
			return model.GenderUnknown, err
		}
		g, err := model.ParseGender(line)
		if err == nil {
			return g, nil
		}
		fmt.Fprintln(s.out, "Please enter either 'male' or 'female'.")
	}
	return model.GenderUnknown, ErrTooManyTries
}

func (s *Session) askFactor(f model.Factor) (response.Answer, error) {
	for i := 0; i < s.maxAttempts; i++ {
		line, err := s.prompt(f.Prompt() + " ")
		if err != nil {
			return "", err
		}
		a, err := response.ParseAnswer(line)
		if err == nil {
			return a, nil
		}
		fmt.Fprintf(s.out, "Please answer with one of: %s.\n", answerHint())
	}
	return "", fmt.Errorf("%w: %s", ErrTooManyTries, f.Name)
}

func (s *Session) prompt(text string) (string, error) {
	fmt.Fprint(s.out, text)
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", err
		}
		return "", ErrInputClosed
	}
	return s.in.Text(), nil
}

func answerHint() string {
	names := make([]string, 0, len(response.Answers()))
	for _, a := range response.Answers() {
		names = append(names, string(a))
	}
	return strings.Join(names, "/")
}
