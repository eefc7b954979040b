package policy

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"map-editor/core/utils"
)

// FieldType is the declared value type of an editable field.
type FieldType string

const (
	FieldString  FieldType = "string"
	FieldNumber  FieldType = "number"
	FieldInteger FieldType = "integer"
	FieldBoolean FieldType = "boolean"
	FieldDate    FieldType = "date"
	FieldSelect  FieldType = "select"
)

// FieldConfig describes one editable attribute.
type FieldConfig struct {
	Name     string    `json:"name" yaml:"name"`
	Label    string    `json:"label,omitempty" yaml:"label,omitempty"`
	Type     FieldType `json:"type" yaml:"type"`
	Required bool      `json:"required,omitempty" yaml:"required,omitempty"`
	Options  []string  `json:"options,omitempty" yaml:"options,omitempty"`
}

// DisplayLabel returns the label, or the name when no label is configured.
func (f FieldConfig) DisplayLabel() string {
	if f.Label != "" {
		return f.Label
	}
	return f.Name
}

// Validate checks v against the field's type and returns a user-facing
// message, or "" when the value is acceptable.
func (f FieldConfig) Validate(v any) string {
	if isBlank(v) {
		if f.Required {
			return fmt.Sprintf("%s is required", f.DisplayLabel())
		}
		return ""
	}

	switch f.Type {
	case FieldNumber:
		if !isNumeric(v) {
			return fmt.Sprintf("%s must be a number", f.DisplayLabel())
		}
	case FieldInteger:
		if !isNumeric(v) {
			return fmt.Sprintf("%s must be a number", f.DisplayLabel())
		}
		if n := utils.ToFloat(v); n != math.Trunc(n) {
			return fmt.Sprintf("%s must be a whole number", f.DisplayLabel())
		}
	case FieldBoolean:
		if !isBoolean(v) {
			return fmt.Sprintf("%s must be yes or no", f.DisplayLabel())
		}
	case FieldDate:
		if _, ok := utils.ToTime(v); !ok {
			return fmt.Sprintf("%s must be a date", f.DisplayLabel())
		}
	case FieldSelect:
		s := utils.ToString(v)
		for _, opt := range f.Options {
			if opt == s {
				return ""
			}
		}
		return fmt.Sprintf("%s must be one of: %s", f.DisplayLabel(), strings.Join(f.Options, ", "))
	}
	return ""
}

// Coerce converts v to the field's Go type. Values that cannot be converted
// yield the type's zero value; blank values stay nil.
func (f FieldConfig) Coerce(v any) any {
	if isBlank(v) {
		return nil
	}
	switch f.Type {
	case FieldNumber:
		return utils.ToFloat(v)
	case FieldInteger:
		return utils.ToInt(v)
	case FieldBoolean:
		return utils.ToBool(v)
	case FieldDate:
		t, ok := utils.ToTime(v)
		if !ok {
			return time.Time{}
		}
		return t
	case FieldString, FieldSelect:
		return utils.ToString(v)
	default:
		return v
	}
}

func isBlank(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}

func isNumeric(v any) bool {
	if utils.IsNumber(v) {
		return true
	}
	s, ok := v.(string)
	if !ok {
		return false
	}
	_, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return err == nil
}

func isBoolean(v any) bool {
	switch b := v.(type) {
	case bool:
		return true
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "true", "false", "yes", "no", "1", "0":
			return true
		}
	}
	return false
}
