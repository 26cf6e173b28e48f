package validator

import (
	"github.com/go-playground/validator/v10"

	"github.com/report-microservice/internal/domain"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// reporting_mode - кастомный тег для domain.ReportingMode
	_ = validate.RegisterValidation("reporting_mode", func(fl validator.FieldLevel) bool {
		return domain.ReportingMode(fl.Field().String()).Valid()
	})

	// report_status - кастомный тег для domain.ReportStatus
	_ = validate.RegisterValidation("report_status", func(fl validator.FieldLevel) bool {
		return domain.ReportStatus(fl.Field().String()).Valid()
	})
}

// Validate - валидация структуры
func Validate(s interface{}) error {
	return validate.Struct(s)
}

// GetValidator - получить валидатор для кастомной конфигурации
func GetValidator() *validator.Validate {
	return validate
}
