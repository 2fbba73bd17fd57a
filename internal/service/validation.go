package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"applicantreview/internal/apperr"
	"applicantreview/internal/model"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return v
}

var requiredMessages = map[string]string{
	"FirstName":          "First name is required",
	"LastName":           "Last name is required",
	"Age":                "Age is required",
	"Degree":             "Degree is required",
	"RelevantExperience": "Relevant experience is required",
	"Email":              "Email is required",
	"ProjectAppliedFor":  "Project selection is required",
}

// rulePhase orders failures: presence first, then age, then email format.
func rulePhase(tag string) int {
	switch tag {
	case "required", "notblank":
		return 0
	case "min":
		return 1
	case "email":
		return 2
	default:
		return 3
	}
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		if msg, ok := requiredMessages[fe.StructField()]; ok {
			return msg
		}
		return fe.StructField() + " is required"
	case "min":
		return fmt.Sprintf("Age must be at least %s", fe.Param())
	case "email":
		return "Email should be valid"
	default:
		return fe.StructField() + " is invalid"
	}
}

// normalizeProfile trims the free-text fields in place.
func normalizeProfile(p *model.Profile) {
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.LastName = strings.TrimSpace(p.LastName)
	p.Degree = strings.TrimSpace(p.Degree)
	p.RelevantExperience = strings.TrimSpace(p.RelevantExperience)
	p.Email = strings.TrimSpace(p.Email)
	p.ProjectAppliedFor = strings.TrimSpace(p.ProjectAppliedFor)
}

// validateProfile returns the first failing field rule as a validation error.
func validateProfile(p model.Profile) error {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperr.Validation("Invalid applicant data")
	}

	first := fieldErrs[0]
	for _, fe := range fieldErrs[1:] {
		if rulePhase(fe.Tag()) < rulePhase(first.Tag()) {
			first = fe
		}
	}
	return apperr.Validation(ruleMessage(first))
}
