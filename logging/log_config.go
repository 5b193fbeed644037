package logging

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"
)

// LoggerPatternConfig is an instance of a level specification for a given logger.
type LoggerPatternConfig struct {
	Pattern string `json:"pattern"`
	Level   string `json:"level"`
}

const (
	// Regular expressions for logger names. Examples describe the regular expression that follows.

	// e.g. "foo".
	validLoggerSectionName = `[a-zA-Z0-9]+([_-]*[a-zA-Z0-9]+)*`
	// e.g. "foo" or "*".
	validLoggerSectionNameWithWildcard = `(` + validLoggerSectionName + `|\*)`
	// e.g. "foo.*.foo".
	validLoggerSectionsWithWildcard = validLoggerSectionNameWithWildcard + `(\.` + validLoggerSectionNameWithWildcard + `)*`
	// Restricts above regex to be the entire pattern.
	validLoggerName = `^` + validLoggerSectionsWithWildcard + `$`
)

var loggerPatternRegexp = regexp.MustCompile(validLoggerName)

func validatePattern(pattern string) bool {
	return loggerPatternRegexp.MatchString(pattern)
}

func buildRegexFromPattern(pattern string) string {
	var matcher strings.Builder
	matcher.WriteRune('^')
	for _, ch := range pattern {
		switch ch {
		case '*':
			matcher.WriteString(`.*`)
		case '.':
			matcher.WriteString(`\.`)
		default:
			matcher.WriteRune(ch)
		}
	}
	matcher.WriteRune('$')
	return matcher.String()
}

// LevelFromString parses a case-insensitive level name such as "debug" or "WARN".
func LevelFromString(level string) (zapcore.Level, error) {
	l, err := zapcore.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zapcore.InfoLevel, errors.Wrapf(err, "bad log level %q", level)
	}
	return l, nil
}

// ValidatePatterns checks every pattern and level, returning all problems at once.
func ValidatePatterns(cfgs []LoggerPatternConfig) error {
	var err error
	for _, lpc := range cfgs {
		if !validatePattern(lpc.Pattern) {
			err = multierr.Append(err, errors.Errorf("invalid logger pattern %q", lpc.Pattern))
		}
		if _, lerr := LevelFromString(lpc.Level); lerr != nil {
			err = multierr.Append(err, lerr)
		}
	}
	return err
}

// ApplyPatterns sets the level of each logger whose name matches a pattern. When several patterns match the same
// logger the last one wins. Loggers that match nothing keep their level.
func ApplyPatterns(cfgs []LoggerPatternConfig, loggers ...Logger) error {
	if err := ValidatePatterns(cfgs); err != nil {
		return err
	}
	for _, lpc := range cfgs {
		r, err := regexp.Compile(buildRegexFromPattern(lpc.Pattern))
		if err != nil {
			return err
		}
		level, err := LevelFromString(lpc.Level)
		if err != nil {
			return err
		}
		for _, logger := range loggers {
			if r.MatchString(logger.Name()) {
				logger.SetLevel(level)
			}
		}
	}
	return nil
}
