package validation

import (
	"context"
	"fmt"
	"math"
	"net/mail"
	"strings"
	"unicode/utf8"

	errors "github.com/frahmantamala/hr-management/internal"
	"github.com/samber/lo"
	"github.com/spf13/cast"
)

type Presence int

const (
	// Sometimes fields are checked only when present in the input.
	Sometimes Presence = iota
	// Required fields must be present and non-empty on create; on update they behave as Sometimes.
	Required
	// Filled fields may be omitted on any operation but must be non-empty when sent.
	Filled
)

type Kind string

const (
	KindString  Kind = "string"
	KindNumeric Kind = "numeric"
	KindInteger Kind = "integer"
	KindBoolean Kind = "boolean"
	KindEmail   Kind = "email"
)

type Operation string

const (
	OperationCreate Operation = "create"
	OperationUpdate Operation = "update"
)

// Ref points at a column of another table, used by Unique and Exists checks.
type Ref struct {
	Table  string
	Column string
}

type Rule struct {
	Field     string
	Presence  Presence
	Nullable  bool
	Kind      Kind
	MaxLength int
	MinLength int
	// MaxBytes bounds the UTF-8 encoded size, for values handed to byte-limited consumers.
	MaxBytes int
	Min       *float64
	OneOf     []string
	Unique    *Ref
	Exists    *Ref
}

type RuleSet []Rule

// Lookup answers the read queries needed by Unique and Exists rules.
type Lookup interface {
	Exists(ctx context.Context, table, column string, value any) (bool, error)
	IsTaken(ctx context.Context, table, column string, value any, excludeID int64) (bool, error)
}

type Options struct {
	Operation Operation
	ExcludeID int64
	Lookup    Lookup
}

// Fields is validated input: float64 for numeric, int64 for integer, bool for boolean,
// string for string and email, nil for an explicit null on a nullable field.
type Fields map[string]any

func MinValue(v float64) *float64 {
	return &v
}

// Names returns the fields the rule set knows about.
func (rs RuleSet) Names() []string {
	names := make([]string, len(rs))
	for i, r := range rs {
		names[i] = r.Field
	}
	return names
}

// Validate checks input against every rule and returns either the normalized fields
// or a validation AppError with all failing fields. Only the first failure per field is reported.
// Input keys without a rule are not carried into the result.
func (rs RuleSet) Validate(ctx context.Context, input map[string]any, opts Options) (Fields, error) {
	out := make(Fields)
	var failures []errors.ValidationError

	for _, rule := range rs {
		raw, present := input[rule.Field]

		if !present {
			if opts.Operation == OperationCreate && rule.Presence == Required {
				failures = append(failures, fieldError(rule.Field, errors.ErrCodeRequired, "The %s field is required.", rule.Field))
			}
			continue
		}

		value, failure, err := rule.check(ctx, raw, opts)
		if err != nil {
			return nil, err
		}
		if failure != nil {
			failures = append(failures, *failure)
			continue
		}
		out[rule.Field] = value
	}

	if len(failures) > 0 {
		return nil, errors.NewValidationErrors(failures)
	}
	return out, nil
}

func (r Rule) check(ctx context.Context, raw any, opts Options) (any, *errors.ValidationError, error) {
	if raw == nil {
		if r.Nullable && r.Presence == Sometimes {
			return nil, nil, nil
		}
		return nil, failf(r.Field, errors.ErrCodeRequired, "The %s field is required.", r.Field), nil
	}

	if s, ok := raw.(string); ok && strings.TrimSpace(s) == "" {
		if r.Presence != Sometimes {
			return nil, failf(r.Field, errors.ErrCodeRequired, "The %s field is required.", r.Field), nil
		}
		if r.Nullable {
			return nil, nil, nil
		}
	}

	value, failure := r.coerce(raw)
	if failure != nil {
		return nil, failure, nil
	}

	if failure := r.checkBounds(value); failure != nil {
		return nil, failure, nil
	}

	if r.Unique != nil && opts.Lookup != nil {
		excludeID := int64(0)
		if opts.Operation == OperationUpdate {
			excludeID = opts.ExcludeID
		}
		taken, err := opts.Lookup.IsTaken(ctx, r.Unique.Table, r.Unique.Column, value, excludeID)
		if err != nil {
			return nil, nil, errors.NewInternalError(errors.InternalErrorMessage, fmt.Errorf("unique check on %s.%s: %w", r.Unique.Table, r.Unique.Column, err))
		}
		if taken {
			return nil, failf(r.Field, errors.ErrCodeDuplicateValue, "The %s has already been taken.", r.Field), nil
		}
	}

	if r.Exists != nil && opts.Lookup != nil {
		found, err := opts.Lookup.Exists(ctx, r.Exists.Table, r.Exists.Column, value)
		if err != nil {
			return nil, nil, errors.NewInternalError(errors.InternalErrorMessage, fmt.Errorf("exists check on %s.%s: %w", r.Exists.Table, r.Exists.Column, err))
		}
		if !found {
			return nil, failf(r.Field, errors.ErrCodeUnknownReference, "The selected %s is invalid.", r.Field), nil
		}
	}

	return value, nil, nil
}

func (r Rule) coerce(raw any) (any, *errors.ValidationError) {
	switch r.Kind {
	case KindNumeric:
		if _, isBool := raw.(bool); isBool {
			return nil, failf(r.Field, errors.ErrCodeInvalidType, "The %s must be a number.", r.Field)
		}
		f, err := cast.ToFloat64E(raw)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, failf(r.Field, errors.ErrCodeInvalidType, "The %s must be a number.", r.Field)
		}
		return f, nil

	case KindInteger:
		if _, isBool := raw.(bool); isBool {
			return nil, failf(r.Field, errors.ErrCodeInvalidType, "The %s must be an integer.", r.Field)
		}
		f, err := cast.ToFloat64E(raw)
		// float64(math.MaxInt64) rounds up to 2^63, which no int64 holds
		if err != nil || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
			return nil, failf(r.Field, errors.ErrCodeInvalidType, "The %s must be an integer.", r.Field)
		}
		return int64(f), nil

	case KindBoolean:
		switch v := raw.(type) {
		case bool:
			return v, nil
		case float64:
			if v == 0 || v == 1 {
				return v == 1, nil
			}
		case string:
			if v == "0" || v == "1" || v == "true" || v == "false" {
				b, _ := cast.ToBoolE(v)
				return b, nil
			}
		}
		return nil, failf(r.Field, errors.ErrCodeInvalidType, "The %s field must be true or false.", r.Field)

	case KindEmail:
		s, ok := raw.(string)
		if !ok {
			return nil, failf(r.Field, errors.ErrCodeInvalidType, "The %s must be a string.", r.Field)
		}
		addr, err := mail.ParseAddress(s)
		if err != nil || addr.Address != s {
			return nil, failf(r.Field, errors.ErrCodeInvalidEmail, "The %s must be a valid email address.", r.Field)
		}
		return s, nil

	default:
		s, ok := raw.(string)
		if !ok {
			return nil, failf(r.Field, errors.ErrCodeInvalidType, "The %s must be a string.", r.Field)
		}
		return s, nil
	}
}

func (r Rule) checkBounds(value any) *errors.ValidationError {
	if s, ok := value.(string); ok {
		n := utf8.RuneCountInString(s)
		if r.MaxLength > 0 && n > r.MaxLength {
			return failf(r.Field, errors.ErrCodeTooLong, "The %s may not be greater than %d characters.", r.Field, r.MaxLength)
		}
		if r.MaxBytes > 0 && len(s) > r.MaxBytes {
			return failf(r.Field, errors.ErrCodeTooLong, "The %s may not be greater than %d bytes.", r.Field, r.MaxBytes)
		}
		if r.MinLength > 0 && n < r.MinLength {
			return failf(r.Field, errors.ErrCodeTooShort, "The %s must be at least %d characters.", r.Field, r.MinLength)
		}
		if len(r.OneOf) > 0 && !lo.Contains(r.OneOf, s) {
			return failf(r.Field, errors.ErrCodeInvalidEnum, "The selected %s is invalid. Allowed values: %s.", r.Field, strings.Join(r.OneOf, ", "))
		}
	}

	if r.Min != nil {
		var n float64
		switch v := value.(type) {
		case float64:
			n = v
		case int64:
			n = float64(v)
		default:
			return nil
		}
		if n < *r.Min {
			return failf(r.Field, errors.ErrCodeTooSmall, "The %s must be at least %s.", r.Field, cast.ToString(*r.Min))
		}
	}
	return nil
}

func fieldError(field string, code errors.ErrorCode, format string, args ...any) errors.ValidationError {
	return errors.ValidationError{Field: field, Message: fmt.Sprintf(format, args...), Code: string(code)}
}

func failf(field string, code errors.ErrorCode, format string, args ...any) *errors.ValidationError {
	e := fieldError(field, code, format, args...)
	return &e
}
