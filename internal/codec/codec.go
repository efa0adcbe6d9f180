// Package codec maps wire JSON records to domain records and back.
//
// Decoding accepts every historical timestamp layout the backend has used.
// Encoding writes exactly one layout, fixed per client build by a Profile.
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Codec encodes outbound records with one timestamp profile. Decoding does
// not depend on the profile and is exposed as package functions.
type Codec struct {
	profile Profile
	loc     *time.Location
}

// New returns a codec for profile. loc is used by ProfileLocalOffset and
// defaults to time.Local when nil.
func New(profile Profile, loc *time.Location) (*Codec, error) {
	if _, err := ParseProfile(string(profile)); err != nil {
		return nil, fmt.Errorf("codec.New: %w", err)
	}
	if loc == nil {
		loc = time.Local
	}
	return &Codec{profile: profile, loc: loc}, nil
}

// Must is New for static configuration.
func Must(profile Profile, loc *time.Location) *Codec {
	c, err := New(profile, loc)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Codec) Profile() Profile { return c.profile }

// FormatTimestamp renders t in the codec's single outbound layout.
func (c *Codec) FormatTimestamp(t time.Time) string {
	if c.profile == ProfileLocalOffset {
		return t.In(c.loc).Format(localOffsetLayout)
	}
	return t.UTC().Format(utcFractionLayout)
}

func (c *Codec) formatOptional(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := c.FormatTimestamp(*t)
	return &s
}

func marshal(record string, v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", record, err)
	}
	return b, nil
}

func unmarshal(record string, data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", record, err)
	}
	return nil
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func copyBool(b *bool) *bool {
	if b == nil {
		return nil
	}
	v := *b
	return &v
}

// decodeList unmarshals a JSON array, or the array under key when the body is
// an object.
func decodeList(record, key string, data []byte, v any) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return unmarshal(record, data, v)
	}
	var envelope map[string]json.RawMessage
	if err := unmarshal(record, trimmed, &envelope); err != nil {
		return err
	}
	raw, ok := envelope[key]
	if !ok {
		return &FieldError{Record: record, Field: key, Err: ErrMissingField}
	}
	return unmarshal(record, raw, v)
}
