package api

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/sells-group/assess-cli/internal/model"
)

// ValidationError lists every problem found in a request.
type ValidationError struct {
	Details []string
}

func (e *ValidationError) Error() string {
	return "api: invalid request: " + strings.Join(e.Details, "; ")
}

// Validator checks assessment requests before they reach the service.
type Validator struct {
	v               *validator.Validate
	minBudget       float64
	maxFundingRatio float64
}

// NewValidator builds a Validator. minBudget is the lowest accepted
// consortium budget; maxFundingRatio caps requested funding per company as
// a share of its budget. Zero disables either check.
func NewValidator(minBudget, maxFundingRatio float64) *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("businessid", func(fl validator.FieldLevel) bool {
		return model.ValidBusinessID(fl.Field().String())
	})
	return &Validator{v: v, minBudget: minBudget, maxFundingRatio: maxFundingRatio}
}

// Check normalizes business ids in place and validates in. It returns a
// *ValidationError when anything is wrong.
func (val *Validator) Check(in *model.ProjectInput) error {
	for i := range in.Consortium {
		in.Consortium[i].BusinessID = model.NormalizeBusinessID(in.Consortium[i].BusinessID)
	}

	var details []string
	if err := val.v.Struct(in); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return &ValidationError{Details: []string{err.Error()}}
		}
		for _, fe := range verrs {
			details = append(details, describe(fe))
		}
	}

	for _, id := range in.Consortium.DuplicateBusinessIDs() {
		details = append(details, fmt.Sprintf("consortium: business id %s appears more than once", id))
	}
	if val.minBudget > 0 && len(in.Consortium) > 0 && in.Consortium.TotalBudget() < val.minBudget {
		details = append(details, fmt.Sprintf("consortium: total budget must be at least %.0f", val.minBudget))
	}
	if val.maxFundingRatio > 0 {
		for i, c := range in.Consortium {
			if c.RequestedFunding > c.Budget*val.maxFundingRatio {
				details = append(details, fmt.Sprintf(
					"consortium[%d].requestedFunding: must not exceed %.0f%% of the budget", i, val.maxFundingRatio*100))
			}
		}
	}

	if len(details) > 0 {
		return &ValidationError{Details: details}
	}
	return nil
}

// describe renders a field error as "path: message". The leading struct
// name is dropped from the namespace.
func describe(fe validator.FieldError) string {
	path := fe.Namespace()
	if i := strings.IndexByte(path, '.'); i >= 0 {
		path = path[i+1:]
	}

	var msg string
	switch fe.Tag() {
	case "required":
		msg = "is required"
	case "businessid":
		msg = "is not a valid business id (expected 1234567-8 with a valid check digit)"
	case "min":
		if fe.Kind() == reflect.String {
			msg = fmt.Sprintf("must be at least %s characters", fe.Param())
		} else {
			msg = fmt.Sprintf("must contain at least %s entries", fe.Param())
		}
	case "max":
		msg = fmt.Sprintf("must be at most %s characters", fe.Param())
	case "len":
		msg = fmt.Sprintf("must contain exactly %s values", fe.Param())
	case "gt":
		msg = fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		msg = fmt.Sprintf("must be at least %s", fe.Param())
	case "ltefield":
		msg = "must not exceed budget"
	default:
		msg = fmt.Sprintf("failed %q check", fe.Tag())
	}
	return path + ": " + msg
}
