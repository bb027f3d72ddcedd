package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
)

var (
	// ErrEmptyToken is returned by calls that need a bearer token when none was given.
	ErrEmptyToken = errors.New("bearer token can not be empty")

	// ErrMissingUser is returned when a successful auth response carries no user profile.
	ErrMissingUser = errors.New("auth response carries no user profile")

	// ErrMissingToken is returned when a successful login or register response carries no token.
	ErrMissingToken = errors.New("auth response carries no token")
)

// Error is a request the RelaOne API answered with a non-2xx status or success:false.
type Error struct {
	Status  int
	Message string
	Errors  FieldErrors
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("relaone api: status %d", e.Status)
	}

	return fmt.Sprintf("relaone api: %s (status %d)", e.Message, e.Status)
}

// Field returns the first message recorded for field, or "".
func (e *Error) Field(field string) string {
	if msgs := e.Errors[field]; len(msgs) > 0 {
		return msgs[0]
	}

	return ""
}

// IsUnauthorized reports whether err is a 401 answer from the API.
func IsUnauthorized(err error) bool {
	var apiErr *Error

	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// FieldErrors maps a form field to its validation messages.
//
// The API sends them as an object ({"email": ["taken"]}, {"email": "taken"} or
// {"email": {"msg": "taken"}}) or as a list ([{"path": "email", "msg": "taken"}]
// or ["taken"]). Messages that belong to no field land under the "_" key.
type FieldErrors map[string][]string

// GeneralField collects messages that name no field.
const GeneralField = "_"

// Fields returns the field names in sorted order.
func (f FieldErrors) Fields() []string {
	out := make([]string, 0, len(f))
	for k := range f {
		out = append(out, k)
	}

	sort.Strings(out)

	return out
}

type fieldErrorItem struct {
	Path    string `json:"path"`
	Param   string `json:"param"`
	Field   string `json:"field"`
	Msg     string `json:"msg"`
	Message string `json:"message"`
}

func (i fieldErrorItem) name() string {
	switch {
	case i.Path != "":
		return i.Path
	case i.Param != "":
		return i.Param
	default:
		return i.Field
	}
}

func (i fieldErrorItem) text() string {
	if i.Msg != "" {
		return i.Msg
	}

	return i.Message
}

// UnmarshalJSON implements json.Unmarshaler. It never fails: shapes it
// doesn't recognise are skipped, so the surrounding message survives.
func (f *FieldErrors) UnmarshalJSON(data []byte) error {
	*f = decodeFieldErrors(data)
	return nil
}

func decodeFieldErrors(data []byte) FieldErrors {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	out := make(FieldErrors)

	switch data[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return nil
		}

		for _, raw := range items {
			name, msgs := decodeFieldErrorItem(raw)
			out.add(name, msgs...)
		}

	case '{':
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(data, &fields); err != nil {
			return nil
		}

		for name, raw := range fields {
			_, msgs := decodeFieldErrorItem(raw)
			out.add(name, msgs...)
		}

	case '"':
		var single string
		if err := json.Unmarshal(data, &single); err == nil {
			out.add(GeneralField, single)
		}
	}

	if len(out) == 0 {
		return nil
	}

	return out
}

// decodeFieldErrorItem reads one entry: a string, a list of strings or an
// object with a field name and a message. name is "" when the entry names none.
func decodeFieldErrorItem(raw json.RawMessage) (string, []string) {
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return "", []string{single}
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return "", list
	}

	var item fieldErrorItem
	if err := json.Unmarshal(raw, &item); err == nil && item.text() != "" {
		return item.name(), []string{item.text()}
	}

	return "", nil
}

func (f FieldErrors) add(name string, msgs ...string) {
	if name == "" {
		name = GeneralField
	}

	for _, m := range msgs {
		if m != "" {
			f[name] = append(f[name], m)
		}
	}
}
