package validation

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// FieldDetail is one field error as exposed over HTTP.
type FieldDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldErrors collects per-field messages in declaration order, so the
// first error shown to the user is deterministic. The first message
// recorded for a field wins.
type FieldErrors struct {
	fields []string
	msgs   map[string]string
}

func NewFieldErrors() *FieldErrors {
	return &FieldErrors{msgs: map[string]string{}}
}

func (e *FieldErrors) Add(field, message string) {
	if _, ok := e.msgs[field]; ok {
		return
	}
	e.fields = append(e.fields, field)
	e.msgs[field] = message
}

func (e *FieldErrors) Has() bool {
	return len(e.fields) > 0
}

func (e *FieldErrors) Len() int {
	return len(e.fields)
}

func (e *FieldErrors) Get(field string) string {
	return e.msgs[field]
}

// First returns the first recorded field and message.
func (e *FieldErrors) First() (string, string) {
	if len(e.fields) == 0 {
		return "", ""
	}
	return e.fields[0], e.msgs[e.fields[0]]
}

// Map returns a field-indexed copy of all messages.
func (e *FieldErrors) Map() map[string]string {
	out := make(map[string]string, len(e.msgs))
	for k, v := range e.msgs {
		out[k] = v
	}
	return out
}

// Details returns the errors in declaration order for a 4xx response body.
func (e *FieldErrors) Details() []FieldDetail {
	out := make([]FieldDetail, 0, len(e.fields))
	for _, f := range e.fields {
		out = append(out, FieldDetail{Field: f, Message: e.msgs[f]})
	}
	return out
}

// check runs ozzo rules against a single value and records the first
// failure under the given field key.
func check(errs *FieldErrors, field string, value any, rules ...validation.Rule) {
	if err := validation.Validate(value, rules...); err != nil {
		errs.Add(field, err.Error())
	}
}
