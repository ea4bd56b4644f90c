package validator

import (
	stdErrors "errors"

	"github.com/go-playground/validator/v10"

	"github.com/sentimeter-team/sentimeter/errors"
)

// CustomValidator implements echo.Validator using go-playground/validator
type CustomValidator struct {
	v *validator.Validate
}

// New creates a new CustomValidator instance
func New() *CustomValidator {
	v := validator.New()
	return &CustomValidator{v: v}
}

// Validate performs struct validation. Failures come back as an invalid
// payload AppError with one detail entry per failed field, so handlers can
// pass the error straight to the response helper.
func (cv *CustomValidator) Validate(i interface{}) error {
	err := cv.v.Struct(i)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !stdErrors.As(err, &verrs) {
		return errors.ErrInternal(err)
	}

	appErr := errors.ErrInvalidPayload()
	for _, fe := range verrs {
		appErr = appErr.WithDetail(fe.Field(), fe.Tag())
	}
	appErr.Raw = err
	return appErr
}
