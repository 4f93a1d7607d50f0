package collection

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

// PendingEdit is a form being edited. ID 0 means create.
type PendingEdit struct {
	ID     int64          `json:"id"`
	Fields map[string]any `json:"fields"`
}

// IsCreate reports whether submitting e creates a new record
func (e PendingEdit) IsCreate() bool { return e.ID == 0 }

// Body normalizes and validates the fields of a new record, returning the request body.
// Only fields named in the schema are kept; decimals are sent as strings. Missing
// fields take their schema default.
func (s Schema[T]) Body(fields map[string]any) (map[string]any, error) {
	return s.body(fields, true)
}

// UpdateBody is Body for an existing record: missing fields are taken from current
// instead of the schema defaults.
func (s Schema[T]) UpdateBody(fields map[string]any, current T) (map[string]any, error) {
	stored, err := recordFields(current)
	if err != nil {
		return nil, fmt.Errorf("%s: read cached record: %w", s.Name, err)
	}
	merged := make(map[string]any, len(s.Fields))
	for _, f := range s.Fields {
		if raw, ok := fields[f.Name]; ok && raw != nil {
			merged[f.Name] = raw
		} else if raw, ok := stored[f.Name]; ok && raw != nil {
			merged[f.Name] = raw
		}
	}
	return s.body(merged, false)
}

// recordFields maps a record's JSON field names to its values
func recordFields(record any) (map[string]any, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	out := map[string]any{}
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s Schema[T]) body(fields map[string]any, defaults bool) (map[string]any, error) {
	body := make(map[string]any, len(s.Fields))
	failed := map[string]string{}

	for _, f := range s.Fields {
		raw, ok := fields[f.Name]
		if !ok || raw == nil {
			if defaults && f.Default != nil {
				raw = f.Default
			} else if f.Optional {
				continue
			} else {
				failed[f.Name] = "required"
				continue
			}
		}

		value, check, err := normalize(f, raw)
		if err != nil {
			failed[f.Name] = string(f.Kind)
			continue
		}
		if f.Rule != "" {
			if err := validate.Var(check, f.Rule); err != nil {
				failed[f.Name] = validationTag(err)
				continue
			}
		}
		body[f.Name] = value
	}

	if len(failed) > 0 {
		return nil, &ValidationError{Resource: s.Name, Fields: failed}
	}
	return body, nil
}

// normalize converts a form value to its wire value and the value the rule is checked against
func normalize(f Field, raw any) (value any, check any, err error) {
	switch f.Kind {
	case KindInt, KindRef:
		n, err := toInt(raw)
		if err != nil {
			return nil, nil, err
		}
		return n, n, nil
	case KindDecimal:
		d, err := toDecimal(raw)
		if err != nil {
			return nil, nil, err
		}
		return d.String(), d.InexactFloat64(), nil
	case KindEnum:
		s := strings.TrimSpace(fmt.Sprint(raw))
		return s, s, nil
	default:
		s, ok := raw.(string)
		if !ok {
			s = fmt.Sprint(raw)
		}
		s = strings.TrimSpace(s)
		return s, s, nil
	}
}

func toInt(raw any) (int64, error) {
	switch v := raw.(type) {
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case int32:
		return int64(v), nil
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("not an integer: %v", v)
		}
		return int64(v), nil
	case json.Number:
		return v.Int64()
	case string:
		return strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	default:
		return 0, fmt.Errorf("unsupported integer value %T", raw)
	}
}

func toDecimal(raw any) (decimal.Decimal, error) {
	switch v := raw.(type) {
	case decimal.Decimal:
		return v, nil
	case string:
		return decimal.NewFromString(strings.TrimSpace(v))
	case json.Number:
		return decimal.NewFromString(v.String())
	case float64:
		return decimal.NewFromFloat(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	default:
		return decimal.Decimal{}, fmt.Errorf("unsupported decimal value %T", raw)
	}
}

func validationTag(err error) string {
	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		return errs[0].Tag()
	}
	return "invalid"
}
