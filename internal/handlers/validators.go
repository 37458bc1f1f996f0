package handlers

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/finbooks/bookkeeping_app/internal/core/domain"
)

// registerCustomValidators hooks domain enum checks into gin's binding
// validator so malformed enums are rejected before reaching the services.
func registerCustomValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	_ = v.RegisterValidation("accounttype", func(fl validator.FieldLevel) bool {
		return domain.AccountType(fl.Field().String()).IsValid()
	})

	_ = v.RegisterValidation("createstatus", func(fl validator.FieldLevel) bool {
		switch domain.JournalStatus(fl.Field().String()) {
		case "", domain.Draft, domain.Posted:
			return true
		}
		return false
	})
}
