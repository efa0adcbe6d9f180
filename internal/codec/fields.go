package codec

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrMissingField is returned when a required wire field is absent or null.
	ErrMissingField = errors.New("missing required field")
	// ErrInvalidValue is returned when a wire field holds a value outside its domain.
	ErrInvalidValue = errors.New("invalid field value")
)

// Fallback is the explicit policy applied when a wire field is absent.
type Fallback int

const (
	// Required fields fail decoding when absent.
	Required Fallback = iota
	// NilWhenAbsent fields decode to nil. Blank strings count as absent.
	NilWhenAbsent
	// DefaultWhenAbsent fields decode to FieldSpec.Default.
	DefaultWhenAbsent
)

func (f Fallback) String() string {
	switch f {
	case NilWhenAbsent:
		return "nil-when-absent"
	case DefaultWhenAbsent:
		return "default-when-absent"
	default:
		return "required"
	}
}

// FieldSpec maps one domain field to its wire name.
type FieldSpec struct {
	Domain   string
	Wire     string
	Fallback Fallback
	Default  string
}

// Fields is an ordered mapping table for one record.
type Fields []FieldSpec

// Wire returns the wire name for a domain field. Unknown names panic: the
// tables are static and a miss is a programming error.
func (fs Fields) Wire(domain string) string {
	return fs.spec(domain).Wire
}

func (fs Fields) spec(domain string) FieldSpec {
	for _, f := range fs {
		if f.Domain == domain {
			return f
		}
	}
	panic(fmt.Sprintf("codec: no field mapping for %q", domain))
}

// FieldError names the record and wire field that failed to decode.
type FieldError struct {
	Record string
	Field  string
	Err    error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s.%s: %v", e.Record, e.Field, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// decoder collects the first failure while a record is being mapped.
type decoder struct {
	record string
	fields Fields
	err    error
}

func newDecoder(record string, fields Fields) *decoder {
	return &decoder{record: record, fields: fields}
}

func (d *decoder) fail(domain string, err error) {
	if d.err != nil {
		return
	}
	d.err = &FieldError{Record: d.record, Field: d.fields.Wire(domain), Err: err}
}

// str applies the field's fallback policy to an optional wire string.
func (d *decoder) str(domain string, v *string) *string {
	spec := d.fields.spec(domain)
	if v != nil && *v != "" {
		s := *v
		return &s
	}
	switch spec.Fallback {
	case Required:
		d.fail(domain, ErrMissingField)
	case DefaultWhenAbsent:
		s := spec.Default
		return &s
	}
	return nil
}

// required returns the value of a required string field or "" after recording a failure.
func (d *decoder) required(domain string, v *string) string {
	s := d.str(domain, v)
	if s == nil {
		return ""
	}
	return *s
}

func (d *decoder) amount(domain string, v *Amount, allowNegative bool) Amount {
	if v == nil {
		if d.fields.spec(domain).Fallback == Required {
			d.fail(domain, ErrMissingField)
		}
		return Amount{}
	}
	if !allowNegative && v.IsNegative() {
		d.fail(domain, fmt.Errorf("%w: negative amount %s", ErrInvalidValue, v.String()))
	}
	return *v
}

// timestamp returns nil for an absent optional field or after a failure.
func (d *decoder) timestamp(domain string, v *string) *time.Time {
	s := d.str(domain, v)
	if s == nil {
		return nil
	}
	t, err := ParseTimestamp(*s)
	if err != nil {
		d.fail(domain, err)
		return nil
	}
	return &t
}

func (d *decoder) requiredTimestamp(domain string, v *string) time.Time {
	if t := d.timestamp(domain, v); t != nil {
		return *t
	}
	return time.Time{}
}

func (d *decoder) check(domain string, err error) {
	if err != nil {
		d.fail(domain, fmt.Errorf("%w: %v", ErrInvalidValue, err))
	}
}

func (d *decoder) flag(domain string, v *bool) bool {
	if v == nil {
		if d.fields.spec(domain).Fallback == Required {
			d.fail(domain, ErrMissingField)
		}
		return false
	}
	return *v
}

func (d *decoder) integer(domain string, v *int) int {
	if v == nil {
		if d.fields.spec(domain).Fallback == Required {
			d.fail(domain, ErrMissingField)
		}
		return 0
	}
	return *v
}
