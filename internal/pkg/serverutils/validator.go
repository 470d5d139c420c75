package serverutils

import (
	"errors"
	"strings"

	"github.com/YohanReddy/ai-chatbot/internal/pkg/chaterror"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateRequest checks struct tags and reports failures as bad_request:api.
func ValidateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		return chaterror.New(chaterror.BadRequest, chaterror.SurfaceApi, describeValidation(err))
	}
	return nil
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Namespace()+" failed on '"+fe.Tag()+"'")
	}
	return strings.Join(fields, "; ")
}
