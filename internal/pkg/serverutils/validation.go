package serverutils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// ValidateRequest runs struct tag validation and turns failures into a 400
// fiber error listing the offending fields, so the error middleware renders
// them in the standard envelope.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var vErrs validator.ValidationErrors
	if errors.As(err, &vErrs) {
		fields := make([]string, 0, len(vErrs))
		for _, f := range vErrs {
			fields = append(fields, fmt.Sprintf("%s (%s)", f.Field(), f.Tag()))
		}
		return fiber.NewError(fiber.StatusBadRequest, "invalid fields: "+strings.Join(fields, ", "))
	}

	return fiber.NewError(fiber.StatusBadRequest, err.Error())
}
