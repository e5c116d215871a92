package validation

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"studysmarter/internal/models"

	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

// Messages maps "field.tag" (field by its JSON name) to the client-facing
// message reported when that rule fails.
type Messages map[string]string

// Struct validates s against its `validate` tags. The first failing rule is
// returned as a validation AppError carrying the message registered for it
// in msgs, or a generic "Invalid value for <field>".
func Struct(s any, msgs Messages) error {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return models.NewInternalError("Validation failed", err)
	}

	first := verrs[0]
	if msg, ok := msgs[first.Field()+"."+first.Tag()]; ok {
		return models.NewValidationError(msg)
	}
	if msg, ok := msgs[first.Field()]; ok {
		return models.NewValidationError(msg)
	}
	return models.NewValidationError("Invalid value for " + first.Field())
}
