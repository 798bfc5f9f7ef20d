package dto

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/mdnahid/baki_khata_app/internal/models"
)

// RegisterCustomValidators installs domain validators on gin's binding
// engine. Called once from main before routes are registered.
func RegisterCustomValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("entrykind", validEntryKind)
	}
}

// validEntryKind accepts only the four recognized entry kind labels.
func validEntryKind(fl validator.FieldLevel) bool {
	return models.EntryKind(fl.Field().String()).IsValid()
}
