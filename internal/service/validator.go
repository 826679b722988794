package service

import (
	"regexp"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/class-scheduling-api/internal/models"
)

var academicYearPattern = regexp.MustCompile(`^(\d{4})-(\d{4})$`)

// NewValidator returns a validator with the scheduling tags registered:
// weekday, clock, department and academic_year.
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
		_, err := models.ParseWeekday(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		_, err := models.ParseClock(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("department", func(fl validator.FieldLevel) bool {
		_, ok := models.ParseDepartment(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("academic_year", func(fl validator.FieldLevel) bool {
		return validAcademicYear(fl.Field().String())
	})
	return v
}

// validAcademicYear accepts "YYYY-YYYY" where the second year follows the first.
func validAcademicYear(raw string) bool {
	m := academicYearPattern.FindStringSubmatch(raw)
	if m == nil {
		return false
	}
	first, _ := strconv.Atoi(m[1])
	second, _ := strconv.Atoi(m[2])
	return second == first+1
}
