package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	playground "github.com/go-playground/validator/v10"
)

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Validator validates request payloads before they leave the client.
type Validator struct {
	v *playground.Validate
}

func New() *Validator {
	v := playground.New(playground.WithRequiredStructEnabled())

	// appointmentDate and friends travel as plain YYYY-MM-DD strings.
	_ = v.RegisterValidation("dateonly", func(fl playground.FieldLevel) bool {
		return dateRe.MatchString(fl.Field().String())
	})

	return &Validator{v: v}
}

// Validate checks struct tags and flattens violations into one error.
func (val *Validator) Validate(obj interface{}) error {
	err := val.v.Struct(obj)
	if err == nil {
		return nil
	}

	var verrs playground.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("validation failed: %s", strings.Join(msgs, "; "))
}

func describe(fe playground.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "dateonly":
		return fmt.Sprintf("%s must be a YYYY-MM-DD date", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email", fe.Field())
	case "max":
		return fmt.Sprintf("%s must not exceed %s characters", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
