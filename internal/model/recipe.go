package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownField is returned when a field name is not one of the five form fields.
var ErrUnknownField = errors.New("unknown field")

// Field names one of the five recipe form fields.
type Field string

const (
	FieldName         Field = "name"
	FieldSource       Field = "source"
	FieldCategory     Field = "category"
	FieldIngredients  Field = "ingredients"
	FieldInstructions Field = "instructions"
)

// Fields returns the form fields in display order.
func Fields() []Field {
	return []Field{FieldName, FieldSource, FieldCategory, FieldIngredients, FieldInstructions}
}

// ParseField maps a raw field name to a Field.
func ParseField(s string) (Field, error) {
	for _, f := range Fields() {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, s)
}

// Recipe is the in-progress recipe a user is composing.
// Values are stored exactly as typed; see Normalize.
type Recipe struct {
	Name         string   `json:"name"`
	Source       string   `json:"source"`
	Category     Category `json:"category"`
	Ingredients  string   `json:"ingredients"`
	Instructions string   `json:"instructions"`
}

// NewRecipe returns a fresh all-empty draft with the category unselected.
func NewRecipe() Recipe { return Recipe{} }

// Get returns the raw value stored for f.
func (r Recipe) Get(f Field) string {
	switch f {
	case FieldName:
		return r.Name
	case FieldSource:
		return r.Source
	case FieldCategory:
		return string(r.Category)
	case FieldIngredients:
		return r.Ingredients
	case FieldInstructions:
		return r.Instructions
	}
	return ""
}

// Set stores v for f without trimming.
func (r *Recipe) Set(f Field, v string) error {
	switch f {
	case FieldName:
		r.Name = v
	case FieldSource:
		r.Source = v
	case FieldCategory:
		r.Category = Category(v)
	case FieldIngredients:
		r.Ingredients = v
	case FieldInstructions:
		r.Instructions = v
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, string(f))
	}
	return nil
}

// Normalize returns the outbound payload: free-text fields lose leading and
// trailing whitespace, category passes through untouched.
func (r Recipe) Normalize() Recipe {
	return Recipe{
		Name:         strings.TrimSpace(r.Name),
		Source:       strings.TrimSpace(r.Source),
		Category:     r.Category,
		Ingredients:  strings.TrimSpace(r.Ingredients),
		Instructions: strings.TrimSpace(r.Instructions),
	}
}

// FieldErrors holds one human-readable message per field; "" means no error.
type FieldErrors struct {
	msgs map[Field]string
}

// NewFieldErrors returns an error set with every message empty.
func NewFieldErrors() FieldErrors {
	msgs := make(map[Field]string, len(Fields()))
	for _, f := range Fields() {
		msgs[f] = ""
	}
	return FieldErrors{msgs: msgs}
}

func (e FieldErrors) Get(f Field) string { return e.msgs[f] }

// Set replaces the message for f. The map is shared with copies of e.
func (e FieldErrors) Set(f Field, msg string) { e.msgs[f] = msg }

// Any reports whether at least one field carries a message.
func (e FieldErrors) Any() bool {
	for _, m := range e.msgs {
		if m != "" {
			return true
		}
	}
	return false
}

// Clone returns an independent copy.
func (e FieldErrors) Clone() FieldErrors {
	out := NewFieldErrors()
	for f, m := range e.msgs {
		out.msgs[f] = m
	}
	return out
}
