package interfaces

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var skillPattern = regexp.MustCompile(`^[\p{L}\p{N}][\p{L}\p{N} .+#/-]{0,63}$`)

// RegisterValidators adds the custom tags used by request bodies. It must run
// before any route binds input.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("skill", func(fl validator.FieldLevel) bool {
		return skillPattern.MatchString(fl.Field().String())
	})
}
