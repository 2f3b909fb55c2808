package console

import "errors"

// Sentinel errors for the console questionnaire.
var (
	ErrInputClosed  = errors.New("input closed before the questionnaire was complete")
	ErrTooManyTries = errors.New("too many unrecognized answers")
)
