package validation

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"library/internal/types"
)

// Book is the form input shared by the add and update pages.
type Book struct {
	Title  string `validate:"required"`
	Author string `validate:"required"`
	Genre  string `validate:"required,genre"`
	Year   int    `validate:"required,min=1000,max=9999"`
}

type FieldError struct {
	Field   string
	Rule    string
	Message string
}

// Error lists failing fields. It matches types.ErrConstraintViolation with errors.Is.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}

	return "validation failed: " + strings.Join(msgs, "; ")
}

func (e *Error) Unwrap() error {
	return types.ErrConstraintViolation
}

// MissingFields reports whether any field failed the required rule.
func (e *Error) MissingFields() bool {
	for _, f := range e.Fields {
		if f.Rule == "required" {
			return true
		}
	}

	return false
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	err := v.RegisterValidation("genre", func(fl validator.FieldLevel) bool {
		return types.IsKnownGenre(fl.Field().String())
	})
	if err != nil {
		panic(err)
	}

	return v
}

// ParseYear returns 0 for anything that is not an integer, which then fails the required rule.
func ParseYear(raw string) int {
	year, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}

	return year
}

// Validate trims text fields in place and checks the form rules.
func Validate(b *Book) error {
	b.Title = strings.TrimSpace(b.Title)
	b.Author = strings.TrimSpace(b.Author)
	b.Genre = strings.TrimSpace(b.Genre)

	err := validate.Struct(b)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		fields = append(fields, FieldError{
			Field:   field,
			Rule:    fe.Tag(),
			Message: buildMessage(field, fe),
		})
	}

	return &Error{Fields: fields}
}

func buildMessage(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min", "max":
		return field + " must be between " + strconv.Itoa(types.YearMin) + " and " + strconv.Itoa(types.YearMax)
	case "genre":
		return field + " must be one of the listed genres"
	}

	return field + " is invalid (" + fe.Tag() + ")"
}
