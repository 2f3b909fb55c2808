// Package response turns free-form questionnaire answers into weight vectors.
package response

import (
	"strings"
)

// Answer is a recognized response token.
type Answer string

// Recognized tokens.
const (
	Never      Answer = "never"
	No         Answer = "no"
	Rarely     Answer = "rarely"
	Slightly   Answer = "slightly"
	Sometimes  Answer = "sometimes"
	Moderately Answer = "moderately"
	Frequently Answer = "frequently"
	Regularly  Answer = "regularly"
	Yes        Answer = "yes"
)

// Engagement weights shared by synonymous tokens.
const (
	WeightNone     = 0.0
	WeightLow      = 0.2514
	WeightModerate = 0.7486
	WeightFull     = 1.0
)

var answerWeights = map[Answer]float64{
	Never:      WeightNone,
	No:         WeightNone,
	Rarely:     WeightLow,
	Slightly:   WeightLow,
	Sometimes:  WeightModerate,
	Moderately: WeightModerate,
	Frequently: WeightFull,
	Regularly:  WeightFull,
	Yes:        WeightFull,
}

// Answers lists the recognized tokens from least to most engaged.
func Answers() []Answer {
	return []Answer{Never, No, Rarely, Slightly, Sometimes, Moderately, Frequently, Regularly, Yes}
}

// Weight returns the engagement weight of a.
func (a Answer) Weight() float64 { return answerWeights[a] }

// ParseAnswer matches the first whitespace-delimited token of raw,
// case-insensitively, so "Yes sometimes" reads as yes.
func ParseAnswer(raw string) (Answer, error) {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return "", &UnrecognizedResponseError{Raw: raw}
	}
	a := Answer(strings.ToLower(fields[0]))
	if _, ok := answerWeights[a]; !ok {
		return "", &UnrecognizedResponseError{Raw: raw}
	}
	return a, nil
}
