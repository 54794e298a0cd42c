// Package validation runs declarative, per-field rule chains over submitted
// form values. A chain mixes sanitizers (which rewrite the value) and checks
// (which may fail with a message). Steps run in declaration order and a
// field stops at its first failing check.
package validation

import (
	"context"
	"net/url"
	"strconv"
	"strings"
)

// Error is a single failed check.
type Error struct {
	Field string `json:"param"`
	Msg   string `json:"msg"`
	Value string `json:"value"`
}

// Errors is the ordered list of failures for one request.
type Errors []Error

// Empty reports whether no check failed.
func (e Errors) Empty() bool { return len(e) == 0 }

// Messages returns the failure messages in order.
func (e Errors) Messages() []string {
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Msg)
	}
	return msgs
}

// For returns the message reported for field, or "".
func (e Errors) For(field string) string {
	for _, err := range e {
		if err.Field == field {
			return err.Msg
		}
	}
	return ""
}

func (e Errors) Error() string {
	return strings.Join(e.Messages(), "; ")
}

// CheckFunc reports whether value passes. Form holds the values sanitized so
// far. A non-nil error aborts the whole run.
type CheckFunc func(ctx context.Context, value string, form url.Values) (bool, error)

type step struct {
	sanitize func(string) string
	check    CheckFunc
	message  string
}

// Field is the rule chain for one form field.
type Field struct {
	name  string
	when  func(form url.Values) bool
	steps []step
}

// Body starts a chain for the named form field.
func Body(name string) *Field {
	return &Field{name: name}
}

// If activates the chain only when pred holds for the submitted form.
func (f *Field) If(pred func(form url.Values) bool) *Field {
	f.when = pred
	return f
}

// Sanitize appends a value rewrite.
func (f *Field) Sanitize(fn func(string) string) *Field {
	f.steps = append(f.steps, step{sanitize: fn})
	return f
}

// Check appends a check failing with msg.
func (f *Field) Check(msg string, fn CheckFunc) *Field {
	f.steps = append(f.steps, step{check: fn, message: msg})
	return f
}

func (f *Field) Trim() *Field           { return f.Sanitize(strings.TrimSpace) }
func (f *Field) Escape() *Field         { return f.Sanitize(Escape) }
func (f *Field) NormalizeEmail() *Field { return f.Sanitize(NormalizeEmail) }

// Custom appends a context-aware predicate, typically backed by the store.
func (f *Field) Custom(msg string, fn CheckFunc) *Field { return f.Check(msg, fn) }

func (f *Field) Required(msg string) *Field { return f.Check(msg, tag("required")) }

func (f *Field) MinLength(n int, msg string) *Field {
	return f.Check(msg, tag("min="+strconv.Itoa(n)))
}

func (f *Field) IsEmail(msg string) *Field { return f.Check(msg, tag("email")) }

func (f *Field) Alphanumeric(msg string) *Field { return f.Check(msg, tag("alphanum")) }

func (f *Field) StrongPassword(msg string) *Field { return f.Check(msg, tag("strongpassword")) }

func (f *Field) IntRange(min, max int, msg string) *Field { return f.Check(msg, intRange(min, max)) }

func (f *Field) FloatMin(min float64, msg string) *Field { return f.Check(msg, floatMin(min)) }

// Equals requires the value to match the (already sanitized) other field.
func (f *Field) Equals(other, msg string) *Field {
	return f.Check(msg, func(_ context.Context, value string, form url.Values) (bool, error) {
		return value == form.Get(other), nil
	})
}

// RuleSet is an ordered list of field chains.
type RuleSet []*Field

// Run applies every active chain to a copy of form and returns the sanitized
// values together with the failures. The input is not modified.
func (rs RuleSet) Run(ctx context.Context, form url.Values) (url.Values, Errors, error) {
	out := make(url.Values, len(form))
	for k, v := range form {
		out[k] = append([]string(nil), v...)
	}

	var errs Errors
	for _, f := range rs {
		if f.when != nil && !f.when(out) {
			continue
		}
		value := out.Get(f.name)
		for _, s := range f.steps {
			if s.sanitize != nil {
				value = s.sanitize(value)
				out.Set(f.name, value)
				continue
			}
			ok, err := s.check(ctx, value, out)
			if err != nil {
				return out, errs, err
			}
			if !ok {
				errs = append(errs, Error{Field: f.name, Msg: s.message, Value: value})
				break
			}
		}
	}
	return out, errs, nil
}
