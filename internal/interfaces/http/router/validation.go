package router

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Senegalese numbering plan: optional +221 country code, then nine
// digits starting with 7 (mobile) or 3 (fixed line).
var snPhonePattern = regexp.MustCompile(`^(\+221)?[37]\d{8}$`)

func snPhone(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // emptiness is the job of the required tag
	}
	return snPhonePattern.MatchString(value)
}

// registerCustomValidations adds domain-specific binding rules to gin's
// validator engine. Called once per engine; registration errors only
// occur for invalid tag names, so they are ignored.
func registerCustomValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("sn_phone", snPhone)
	}
}
