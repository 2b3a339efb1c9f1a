package validator

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/digital-profile/internal/pkg/errors"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Validate - validate a struct; failures come back as BAD_REQUEST with the offending fields
func Validate(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.ErrBadRequest
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field()+":"+fe.Tag())
	}

	return apperrors.ErrBadRequest.
		WithMessage("Invalid request parameters: " + strings.Join(fields, ", ")).
		WithDetails(map[string]interface{}{"fields": fields})
}

// GetValidator - access the shared validator for custom registration
func GetValidator() *validator.Validate {
	return validate
}
