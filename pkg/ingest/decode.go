package ingest

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// trueWords and falseWords are matched against the first word of a cell
var (
	trueWords  = []string{"true", "yes", "y", "oui", "o", "1", "x"}
	falseWords = []string{"false", "no", "n", "non", "0", "impossible"}
)

// ParseFlag reads a boolean cell. Empty cells are false.
// The first word decides, so form answers like "Oui, je suis un élève actuel." are accepted.
func ParseFlag(value string) (bool, error) {
	word := strings.ToLower(strings.TrimSpace(value))
	if word == "" {
		return false, nil
	}
	if i := strings.IndexFunc(word, func(r rune) bool { return unicode.IsSpace(r) || r == ',' || r == '.' }); i > 0 {
		word = word[:i]
	}

	for _, candidate := range trueWords {
		if word == candidate {
			return true, nil
		}
	}
	for _, candidate := range falseWords {
		if word == candidate {
			return false, nil
		}
	}
	return false, fmt.Errorf("invalid boolean %q", value)
}

// ParseMinutes reads a duration cell such as "45", "45.0", "45 Minutes" or "45min". Empty cells are 0.
func ParseMinutes(value string) (int, error) {
	trimmed := strings.TrimSuffix(strings.TrimSpace(value), ".0")
	if trimmed == "" {
		return 0, nil
	}

	end := strings.IndexFunc(trimmed, func(r rune) bool { return !unicode.IsDigit(r) })
	digits := trimmed
	if end >= 0 {
		digits = trimmed[:end]
		unit := strings.ToLower(strings.TrimSpace(trimmed[end:]))
		if !strings.HasPrefix(unit, "min") {
			return 0, fmt.Errorf("invalid duration %q", value)
		}
	}

	minutes, err := strconv.Atoi(digits)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", value)
	}
	return minutes, nil
}

// cellHook converts string cells into the bool and int fields of the raw records
func cellHook(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if from.Kind() != reflect.String {
		return data, nil
	}

	switch to.Kind() {
	case reflect.Bool:
		return ParseFlag(data.(string))
	case reflect.Int:
		return ParseMinutes(data.(string))
	default:
		return data, nil
	}
}

// decodeRow decodes a row into a raw record and validates it
func decodeRow(row Row, out interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: cellHook,
		Result:     out,
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}

	if err := decoder.Decode(map[string]string(row)); err != nil {
		return err
	}

	if err := validate.Struct(out); err != nil {
		return err
	}

	return nil
}
