package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Validator is implemented by every resource decoded from the API.
type Validator interface {
	Validate() error
}

// DecodeError reports a response body that does not match the expected
// resource shape. Rejection is set when the body came with a non-2xx status,
// so errors.As can recover both the decode failure and the HTTP rejection.
type DecodeError struct {
	Resource  string
	Err       error
	Rejection error
}

func (e *DecodeError) Error() string {
	if e.Rejection != nil {
		return fmt.Sprintf("decode %s: %v (%v)", e.Resource, e.Err, e.Rejection)
	}
	return fmt.Sprintf("decode %s: %v", e.Resource, e.Err)
}

func (e *DecodeError) Unwrap() []error {
	if e.Rejection != nil {
		return []error{e.Err, e.Rejection}
	}
	return []error{e.Err}
}

// Decode parses body into T and checks its invariants. Unknown fields are ignored.
func Decode[T Validator](resource string, body []byte) (T, error) {
	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		var zero T
		return zero, &DecodeError{Resource: resource, Err: err}
	}
	if err := v.Validate(); err != nil {
		var zero T
		return zero, &DecodeError{Resource: resource, Err: err}
	}
	return v, nil
}

// Pagination is the metadata Harvest attaches to every list response.
type Pagination struct {
	PerPage      int `json:"per_page"`
	TotalPages   int `json:"total_pages"`
	TotalEntries int `json:"total_entries"`
	Page         int `json:"page"`
}

var paginationFields = []string{"per_page", "total_pages", "total_entries", "page"}

// Page is one server-side page of a list resource.
type Page[T any] struct {
	Items []T
	Pagination
}

// Validate checks the page bounds and every item on the page. An empty
// listing may report zero total pages, so the page bound only applies when
// the listing has entries.
func (p Page[T]) Validate() error {
	if p.TotalEntries > 0 && p.Page > p.TotalPages {
		return fmt.Errorf("page %d exceeds total_pages %d", p.Page, p.TotalPages)
	}
	if len(p.Items) > p.PerPage {
		return fmt.Errorf("page holds %d items, per_page is %d", len(p.Items), p.PerPage)
	}
	for i, item := range p.Items {
		v, ok := any(item).(Validator)
		if !ok {
			continue
		}
		if err := v.Validate(); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
	}
	return nil
}

// DecodePage parses a list response whose items live under key, e.g.
// "time_entries". The item key and all pagination fields must be present.
func DecodePage[T any](key string, body []byte) (Page[T], error) {
	var p Page[T]
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return p, &DecodeError{Resource: key, Err: err}
	}
	if err := checkPresent(raw, append([]string{key}, paginationFields...)); err != nil {
		return p, &DecodeError{Resource: key, Err: err}
	}
	if err := json.Unmarshal(raw[key], &p.Items); err != nil {
		return Page[T]{}, &DecodeError{Resource: key, Err: err}
	}
	if err := json.Unmarshal(body, &p.Pagination); err != nil {
		return Page[T]{}, &DecodeError{Resource: key, Err: err}
	}
	if err := p.Validate(); err != nil {
		return Page[T]{}, &DecodeError{Resource: key, Err: err}
	}
	return p, nil
}

// requireFields fails unless data is a JSON object carrying every field with
// a non-null value. encoding/json alone would leave absent fields zeroed.
func requireFields(data []byte, fields ...string) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	return checkPresent(raw, fields)
}

func checkPresent(raw map[string]json.RawMessage, fields []string) error {
	for _, field := range fields {
		if v, ok := raw[field]; !ok || string(v) == "null" {
			return fmt.Errorf("missing field %q", field)
		}
	}
	return nil
}

// IsDecodeError reports whether err is or wraps a *DecodeError.
func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}
