package response

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Response is the common envelope: a success flag plus either an error
// message or a list of per-field validation errors.
type Response struct {
	Success bool         `json:"success"`
	Error   string       `json:"error,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
}

type FieldError struct {
	Param string `json:"param"`
	Msg   string `json:"msg"`
}

func OK() Response {
	return Response{Success: true}
}

func Error(msg string) Response {
	return Response{Success: false, Error: msg}
}

// ValidationError lists every violated field from a failed struct validation.
func ValidationError(errs validator.ValidationErrors) Response {
	fieldErrors := make([]FieldError, 0, len(errs))
	for _, err := range errs {
		param := strings.ToLower(err.Field())
		var msg string
		switch err.ActualTag() {
		case "required":
			msg = fmt.Sprintf("%s is required", param)
		case "email":
			msg = "Enter a valid email"
		case "min":
			msg = fmt.Sprintf("%s is too short", param)
		case "gt":
			msg = fmt.Sprintf("Enter a valid %s", param)
		default:
			msg = fmt.Sprintf("%s is not valid", param)
		}
		fieldErrors = append(fieldErrors, FieldError{Param: param, Msg: msg})
	}
	return Response{Success: false, Errors: fieldErrors}
}
