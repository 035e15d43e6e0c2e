package validate

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
	"gitlab.com/dirk.krummacker/addressbook/internal/model"
)

// phonePattern is a literal 8 followed by exactly ten digits.
var phonePattern = regexp.MustCompile(`^8[0-9]{10}$`)

var (
	// ErrEmpty is returned for a missing mandatory value.
	ErrEmpty = errors.New("value must not be empty")

	// ErrPhone is returned for a value that is not a phone number.
	ErrPhone = errors.New("phone number must be 8 followed by ten digits")

	// ErrDelimiter is returned for a value containing the field delimiter of the address book
	// file.
	ErrDelimiter = errors.New("value must not contain ';'")
)

// Validator checks user input before it becomes part of a record.
type Validator struct {
	validate *validator.Validate
}

// New returns a validator with the phone rule registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	// the only registration error is an empty tag name
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	return &Validator{validate: v}
}

// Required checks that value is not empty and can be stored.
func (v *Validator) Required(value string) error {
	if err := v.validate.Var(value, "required"); err != nil {
		return ErrEmpty
	}
	if err := v.validate.Var(value, "excludesall=;"); err != nil {
		return ErrDelimiter
	}
	return nil
}

// Phone checks that value is a phone number.
func (v *Validator) Phone(value string) error {
	if err := v.Required(value); err != nil {
		return err
	}
	if err := v.validate.Var(value, "phone"); err != nil {
		return ErrPhone
	}
	return nil
}

// Field checks value with the rule of the field f: phone numbers must be valid, all other
// fields must not be empty.
func (v *Validator) Field(f model.Field, value string) error {
	if f.IsPhone() {
		return v.Phone(value)
	}
	return v.Required(value)
}

// Record checks a complete new record. The first failing field is reported.
func (v *Validator) Record(rec *model.Record) error {
	err := v.validate.Struct(rec)
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return err
	}
	first := errs[0]
	cause := ErrEmpty
	switch first.Tag() {
	case "phone":
		cause = ErrPhone
	case "excludesall":
		cause = ErrDelimiter
	}
	return fmt.Errorf("%s: %w", first.Field(), cause)
}
