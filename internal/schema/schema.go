// Package schema validates recipe drafts against a declarative rule set.
//
// The rules live in an OpenAPI 3 document (recipe.yaml) as the Recipe
// component, the same schema the create endpoint accepts as its request body.
package schema

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/idilsaglam/recipes/internal/model"
)

//go:embed recipe.yaml
var document []byte

// RecipeComponent is the components.schemas key holding the recipe rules.
const RecipeComponent = "Recipe"

// Validator checks single fields and whole drafts.
type Validator interface {
	// ValidateField returns nil when value satisfies the rule for field,
	// otherwise a *FieldError carrying the first failure message.
	ValidateField(field model.Field, value string) error
	// ValidateAll reports whether every field rule holds for r as stored.
	ValidateAll(r model.Recipe) bool
}

// FieldError is a single-field rule violation.
type FieldError struct {
	Field   model.Field
	Message string
	Err     error
}

func (e *FieldError) Error() string { return string(e.Field) + ": " + e.Message }
func (e *FieldError) Unwrap() error { return e.Err }

// Schema is a Validator backed by a kin-openapi schema.
type Schema struct {
	recipe *openapi3.Schema
}

var _ Validator = (*Schema)(nil)

// Document returns the embedded OpenAPI document.
func Document() []byte { return document }

// Default loads the embedded recipe schema.
func Default() (*Schema, error) { return Load(document) }

// MustDefault is Default for package-level wiring and tests.
func MustDefault() *Schema {
	s, err := Default()
	if err != nil {
		panic(err)
	}
	return s
}

// Load parses an OpenAPI document (JSON or YAML) that defines a Recipe component.
func Load(data []byte) (*Schema, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("schema: load document: %w", err)
	}
	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("schema: validate document: %w", err)
	}
	if doc.Components == nil {
		return nil, errors.New("schema: document has no components")
	}
	ref := doc.Components.Schemas[RecipeComponent]
	if ref == nil || ref.Value == nil {
		return nil, fmt.Errorf("schema: component %q not found", RecipeComponent)
	}
	for _, f := range model.Fields() {
		if p := ref.Value.Properties[string(f)]; p == nil || p.Value == nil {
			return nil, fmt.Errorf("schema: component %q has no property %q", RecipeComponent, f)
		}
	}
	return &Schema{recipe: ref.Value}, nil
}

func (s *Schema) property(field model.Field) (*openapi3.Schema, error) {
	p := s.recipe.Properties[string(field)]
	if p == nil || p.Value == nil {
		return nil, fmt.Errorf("%w: %q", model.ErrUnknownField, string(field))
	}
	return p.Value, nil
}

func (s *Schema) ValidateField(field model.Field, value string) error {
	prop, err := s.property(field)
	if err != nil {
		return &FieldError{Field: field, Message: err.Error(), Err: err}
	}
	if err := prop.VisitJSON(value); err != nil {
		return &FieldError{Field: field, Message: message(field, prop, err), Err: err}
	}
	return nil
}

func (s *Schema) ValidateAll(r model.Recipe) bool {
	obj := make(map[string]any, len(model.Fields()))
	for _, f := range model.Fields() {
		obj[string(f)] = r.Get(f)
	}
	return s.recipe.VisitJSON(obj) == nil
}

// MaxLength returns the maxLength of field, or 0 when unbounded.
func (s *Schema) MaxLength(field model.Field) int {
	prop, err := s.property(field)
	if err != nil || prop.MaxLength == nil {
		return 0
	}
	return int(*prop.MaxLength)
}

// Title returns the display title of field.
func (s *Schema) Title(field model.Field) string {
	prop, err := s.property(field)
	if err != nil || prop.Title == "" {
		return string(field)
	}
	return prop.Title
}

func message(field model.Field, prop *openapi3.Schema, err error) string {
	title := prop.Title
	if title == "" {
		title = string(field)
	}
	var se *openapi3.SchemaError
	if !errors.As(err, &se) {
		return title + " is invalid"
	}
	switch se.SchemaField {
	case "enum":
		if field == model.FieldCategory {
			return "Please select a recipe category"
		}
		return title + " must be one of the listed options"
	case "pattern", "minLength", "required":
		return title + " is required"
	case "maxLength":
		if prop.MaxLength != nil {
			return fmt.Sprintf("%s must be at most %d characters", title, *prop.MaxLength)
		}
	}
	if se.Reason != "" {
		return title + ": " + se.Reason
	}
	return title + " is invalid"
}
