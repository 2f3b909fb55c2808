package factor

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/okian/lifespan/internal/domain/model"
)

// DefaultSource names the embedded reference table in errors and logs.
const DefaultSource = "embedded:livelonger.csv"

//go:embed data/livelonger.csv
var defaultCSV []byte

// Header aliases, compared lower-cased. The first header matching wins.
var (
	nameHeaders     = []string{"factor", "name"}
	impactHeaders   = []string{"years gained / lost", "years", "impact", "year_impact"}
	sexHeaders      = []string{"sexes affected", "sex", "affected_sex"}
	questionHeaders = []string{"question", "prompt"}
)

// Default returns the embedded reference table.
func Default() (*Table, error) {
	return LoadCSV(DefaultSource, bytes.NewReader(defaultCSV))
}

// LoadFile loads a table from path, choosing the format by extension.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Source: path, Reason: "open source", Err: err}
	}
	defer func() { _ = f.Close() }()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return LoadCSV(path, f)
	case ".yaml", ".yml":
		return LoadYAML(path, f)
	default:
		return nil, &LoadError{Source: path, Reason: "unsupported table format " + filepath.Ext(path)}
	}
}

// LoadCSV reads a header-led CSV table. Columns are located by header name;
// columns the core does not use (citations, notes, ids) are ignored.
func LoadCSV(source string, r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &LoadError{Source: source, Reason: "empty source"}
	}
	if err != nil {
		return nil, &LoadError{Source: source, Row: 1, Reason: "malformed header", Err: err}
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, seen := cols[key]; !seen {
			cols[key] = i
		}
	}
	nameCol, ok := findColumn(cols, nameHeaders)
	if !ok {
		return nil, &LoadError{Source: source, Row: 1, Reason: "missing factor name column"}
	}
	impactCol, ok := findColumn(cols, impactHeaders)
	if !ok {
		return nil, &LoadError{Source: source, Row: 1, Reason: "missing impact column"}
	}
	sexCol, ok := findColumn(cols, sexHeaders)
	if !ok {
		return nil, &LoadError{Source: source, Row: 1, Reason: "missing sex column"}
	}
	questionCol, hasQuestion := findColumn(cols, questionHeaders)

	var factors []model.Factor
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			row := 0
			if errors.As(err, &pe) {
				row = pe.Line
			}
			return nil, &LoadError{Source: source, Row: row, Reason: "malformed row", Err: err}
		}
		line, _ := cr.FieldPos(0)

		field := func(col int) string {
			if col < len(rec) {
				return strings.TrimSpace(rec[col])
			}
			return ""
		}

		var question string
		if hasQuestion {
			question = field(questionCol)
		}
		f, err := parseRow(field(nameCol), field(impactCol), field(sexCol), question)
		if err != nil {
			return nil, &LoadError{Source: source, Row: line, Reason: err.Error()}
		}
		factors = append(factors, f)
	}
	return New(source, factors)
}

// yamlTable is the YAML document shape: factors: [{name, impact, sex, question}].
type yamlTable struct {
	Factors []yamlFactor `yaml:"factors"`
}

type yamlFactor struct {
	Name     string   `yaml:"name"`
	Impact   *float64 `yaml:"impact"`
	Sex      string   `yaml:"sex"`
	Question string   `yaml:"question"`
}

// LoadYAML reads a YAML table. Keys other than name, impact, sex and question
// are ignored.
func LoadYAML(source string, r io.Reader) (*Table, error) {
	var doc yamlTable
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &LoadError{Source: source, Reason: "empty source"}
		}
		return nil, &LoadError{Source: source, Reason: "malformed yaml", Err: err}
	}

	factors := make([]model.Factor, 0, len(doc.Factors))
	for i, yf := range doc.Factors {
		if yf.Impact == nil {
			return nil, &LoadError{Source: source, Row: i + 1, Reason: "missing impact"}
		}
		f, err := parseRow(yf.Name, strconv.FormatFloat(*yf.Impact, 'g', -1, 64), yf.Sex, yf.Question)
		if err != nil {
			return nil, &LoadError{Source: source, Row: i + 1, Reason: err.Error()}
		}
		factors = append(factors, f)
	}
	return New(source, factors)
}

func parseRow(name, impact, sex, question string) (model.Factor, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Factor{}, errors.New("missing factor name")
	}
	impact = strings.TrimSpace(impact)
	if impact == "" {
		return model.Factor{}, errors.New("missing impact for " + name)
	}
	years, err := strconv.ParseFloat(impact, 64)
	if err != nil || math.IsNaN(years) || math.IsInf(years, 0) {
		return model.Factor{}, errors.New("non-numeric impact " + strconv.Quote(impact) + " for " + name)
	}
	if strings.TrimSpace(sex) == "" {
		return model.Factor{}, errors.New("missing sex label for " + name)
	}
	affected, err := model.ParseSex(sex)
	if err != nil {
		return model.Factor{}, err
	}
	return model.Factor{
		Name:        name,
		YearImpact:  years,
		AffectedSex: affected,
		Question:    strings.TrimSpace(question),
	}, nil
}

func findColumn(cols map[string]int, aliases []string) (int, bool) {
	for _, a := range aliases {
		if i, ok := cols[a]; ok {
			return i, true
		}
	}
	return 0, false
}
