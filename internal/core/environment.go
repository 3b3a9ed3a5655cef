package core

import (
	"strings"

	"github.com/rs/zerolog"
)

// Environment selects how the form server logs. Only production changes
// behaviour; staging and testing run with development logging.
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Testing     Environment = "testing"
	Production  Environment = "production"
)

func (e Environment) String() string {
	return string(e)
}

func (e Environment) IsProduction() bool {
	return e == Production
}

// Decode lets envconfig fill an Environment straight from ENVIRONMENT.
func (e *Environment) Decode(value string) error {
	*e = ParseEnvironment(value)
	return nil
}

// LogLevel is the minimum level written: production drops the per-call
// prompt and reply debug lines.
func (e Environment) LogLevel() zerolog.Level {
	if e.IsProduction() {
		return zerolog.InfoLevel
	}
	return zerolog.DebugLevel
}

// ConsoleLog reports whether logs go through the human readable console
// writer instead of JSON lines.
func (e Environment) ConsoleLog() bool {
	return !e.IsProduction()
}

// ParseEnvironment is case and whitespace insensitive. Unknown values fall
// back to Development.
func ParseEnvironment(v string) Environment {
	switch Environment(strings.ToLower(strings.TrimSpace(v))) {
	case Production:
		return Production
	case Staging:
		return Staging
	case Testing:
		return Testing
	default:
		return Development
	}
}
