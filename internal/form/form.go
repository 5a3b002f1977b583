// Package form holds the recipe form state: the draft values, one error
// message per field and the derived submit-disabled flag.
//
// Validation is asynchronous. Change hands back checks that the caller runs
// wherever it likes (a tea.Cmd, a goroutine, inline) and the results are fed
// back through ApplyField and ApplyEligibility on the owning goroutine. A Form
// is not safe for concurrent use; checks are.
package form

import (
	"errors"
	"fmt"
	"strings"

	"github.com/idilsaglam/recipes/internal/model"
	"github.com/idilsaglam/recipes/internal/schema"
)

// Ordering decides what happens to validation results that resolve out of order.
type Ordering int

const (
	// OrderLatest drops a result when a newer check for the same target was
	// dispatched after it.
	OrderLatest Ordering = iota
	// OrderResolved applies every result as it arrives, so the last one to
	// resolve wins even if it was dispatched first.
	OrderResolved
)

func (o Ordering) String() string {
	if o == OrderResolved {
		return "resolved"
	}
	return "latest"
}

// ParseOrdering accepts "latest" or "resolved" (case-insensitive).
func ParseOrdering(s string) (Ordering, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "latest":
		return OrderLatest, nil
	case "resolved":
		return OrderResolved, nil
	}
	return OrderLatest, fmt.Errorf("unknown validation ordering %q (want latest|resolved)", s)
}

// Option configures a Form.
type Option func(*Form)

// WithOrdering sets the stale-result policy.
func WithOrdering(o Ordering) Option {
	return func(f *Form) { f.ordering = o }
}

type Form struct {
	validator schema.Validator
	ordering  Ordering

	values   model.Recipe
	errors   model.FieldErrors
	disabled bool

	fieldSeq map[model.Field]uint64
	allSeq   uint64
}

// New returns a form with an empty draft and submission disabled.
func New(v schema.Validator, opts ...Option) *Form {
	f := &Form{
		validator: v,
		values:    model.NewRecipe(),
		errors:    model.NewFieldErrors(),
		disabled:  true,
		fieldSeq:  make(map[model.Field]uint64, len(model.Fields())),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Form) Values() model.Recipe           { return f.values }
func (f *Form) Errors() model.FieldErrors      { return f.errors.Clone() }
func (f *Form) Error(field model.Field) string { return f.errors.Get(field) }
func (f *Form) Disabled() bool                 { return f.disabled }
func (f *Form) Ordering() Ordering             { return f.ordering }

// Change stores raw for field as typed and returns the two checks the change
// schedules: one for the field itself and one for the whole draft.
func (f *Form) Change(field model.Field, raw string) (FieldCheck, EligibilityCheck, error) {
	if err := f.values.Set(field, raw); err != nil {
		return FieldCheck{}, EligibilityCheck{}, err
	}
	f.fieldSeq[field]++
	fc := FieldCheck{
		Field:     field,
		Value:     raw,
		Seq:       f.fieldSeq[field],
		validator: f.validator,
	}
	return fc, f.eligibilityCheck(), nil
}

func (f *Form) eligibilityCheck() EligibilityCheck {
	f.allSeq++
	return EligibilityCheck{
		Draft:     f.values,
		Seq:       f.allSeq,
		validator: f.validator,
	}
}

// ApplyField records a field result. It reports false when the result was
// dropped as stale.
func (f *Form) ApplyField(r FieldResult) bool {
	if f.ordering == OrderLatest && r.Seq < f.fieldSeq[r.Field] {
		return false
	}
	f.errors.Set(r.Field, r.Message)
	return true
}

// ApplyEligibility sets disabled to the negation of the whole-draft result.
// It reports false when the result was dropped as stale.
func (f *Form) ApplyEligibility(r EligibilityResult) bool {
	if f.ordering == OrderLatest && r.Seq < f.allSeq {
		return false
	}
	f.disabled = !r.Valid
	return true
}

// Submit returns the normalised payload and resets the draft to its defaults.
// The reset does not depend on what happens to the payload afterwards. The
// returned check recomputes eligibility for the fresh draft.
//
// Submit does not consult Disabled; gating is the caller's job.
func (f *Form) Submit() (model.Recipe, EligibilityCheck) {
	payload := f.values.Normalize()
	f.values = model.NewRecipe()
	return payload, f.eligibilityCheck()
}

// FieldCheck validates one field value.
type FieldCheck struct {
	Field model.Field
	Value string
	Seq   uint64

	validator schema.Validator
}

// FieldResult is the outcome of a FieldCheck; an empty Message means valid.
type FieldResult struct {
	Field   model.Field
	Seq     uint64
	Message string
}

// Run executes the check. Validation failures become the message; they are
// never returned as errors.
func (c FieldCheck) Run() FieldResult {
	res := FieldResult{Field: c.Field, Seq: c.Seq}
	if c.validator == nil {
		return res
	}
	if err := c.validator.ValidateField(c.Field, c.Value); err != nil {
		var fe *schema.FieldError
		if errors.As(err, &fe) {
			res.Message = fe.Message
		} else {
			res.Message = err.Error()
		}
	}
	return res
}

// EligibilityCheck validates a snapshot of the whole draft.
type EligibilityCheck struct {
	Draft model.Recipe
	Seq   uint64

	validator schema.Validator
}

type EligibilityResult struct {
	Seq   uint64
	Valid bool
}

func (c EligibilityCheck) Run() EligibilityResult {
	if c.validator == nil {
		return EligibilityResult{Seq: c.Seq}
	}
	return EligibilityResult{Seq: c.Seq, Valid: c.validator.ValidateAll(c.Draft)}
}
