// Package planner checks generated task lists against the shape the prompt asks for.
// Findings are advisory: the relay logs them and still returns the tasks unchanged.
package planner

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/josephgoksu/TaskFlow/internal/task"
	"github.com/josephgoksu/TaskFlow/internal/utils"
)

// Guideline bounds communicated to the model in the system prompt.
const (
	MinTasks = 3
	MaxTasks = 7
	MinHours = 1
	MaxHours = 40
)

// validate is a singleton validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()

	// Register custom validation for non-empty trimmed strings
	_ = validate.RegisterValidation("nonempty", func(fl validator.FieldLevel) bool {
		s := strings.TrimSpace(fl.Field().String())
		return s != ""
	})

	// Whole-number check for float fields such as deadline_days
	_ = validate.RegisterValidation("integral", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return f == math.Trunc(f)
	})
}

// TaskSchema is the validation view of a generated task.
type TaskSchema struct {
	// Title is the display label and dependency key
	Title string `validate:"nonempty,max=200"`

	// Priority must be one of the three labels the UI knows how to render
	Priority string `validate:"oneof=low medium high"`

	// EstimatedHours, when present, should fall in the prompted 1-40 range
	EstimatedHours *float64 `validate:"omitempty,gte=1,lte=40"`

	// DeadlineDays, when present, is a positive whole number of days
	DeadlineDays *float64 `validate:"omitempty,gte=1,integral"`

	Dependencies []string `validate:"dive,nonempty"`
}

func schemaFor(t task.Task) TaskSchema {
	return TaskSchema{
		Title:          t.Title,
		Priority:       string(t.Priority),
		EstimatedHours: t.EstimatedHours,
		DeadlineDays:   t.DeadlineDays,
		Dependencies:   t.Dependencies,
	}
}

// ValidationError provides structured error information for schema validation failures
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Value   any    `json:"value,omitempty"`
	Message string `json:"message"`
}

// ValidationResult contains the result of schema validation
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// ValidateTask checks one task against the prompted schema.
// An element that is not a JSON object yields a single "object" error.
func ValidateTask(t task.Task) ValidationResult {
	if !t.IsObject() {
		return ValidationResult{Valid: false, Errors: []ValidationError{{
			Field:   "Task",
			Tag:     "object",
			Value:   utils.Truncate(string(t.Raw), 40),
			Message: "Task must be a JSON object",
		}}}
	}
	return validateStruct(schemaFor(t))
}

// TaskFinding ties a validation result to the task's position in the list.
type TaskFinding struct {
	Index  int
	Title  string
	Result ValidationResult
}

// Report is the outcome of checking a whole task list.
type Report struct {
	TaskCount    int
	CountInRange bool
	Findings     []TaskFinding
	Dependencies task.DependencyReport
}

// Clean reports whether nothing in the list deviates from the prompted shape.
func (r Report) Clean() bool {
	return r.CountInRange && len(r.Findings) == 0 && r.Dependencies.OK()
}

// Issues returns the number of individual deviations found.
func (r Report) Issues() int {
	n := 0
	for _, f := range r.Findings {
		n += len(f.Result.Errors)
	}
	if !r.CountInRange {
		n++
	}
	if !r.Dependencies.OK() {
		n++
	}
	return n
}

// Check validates every task and the title references between them.
func Check(tasks []task.Task) Report {
	report := Report{
		TaskCount:    len(tasks),
		CountInRange: len(tasks) >= MinTasks && len(tasks) <= MaxTasks,
		Dependencies: task.CheckDependencies(tasks),
	}
	for i, t := range tasks {
		res := ValidateTask(t)
		if !res.Valid {
			report.Findings = append(report.Findings, TaskFinding{Index: i, Title: t.Title, Result: res})
		}
	}
	return report
}

// validateStruct is a helper that validates any struct and returns ValidationResult
func validateStruct(s any) ValidationResult {
	err := validate.Struct(s)
	if err == nil {
		return ValidationResult{Valid: true}
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return ValidationResult{Valid: false, Errors: []ValidationError{{Message: err.Error()}}}
	}

	var errors []ValidationError
	for _, err := range fieldErrs {
		errors = append(errors, ValidationError{
			Field:   err.Field(),
			Tag:     err.Tag(),
			Value:   err.Value(),
			Message: formatValidationError(err),
		})
	}

	return ValidationResult{
		Valid:  false,
		Errors: errors,
	}
}

// formatValidationError creates a human-readable error message
func formatValidationError(err validator.FieldError) string {
	switch err.Tag() {
	case "nonempty":
		return fmt.Sprintf("%s cannot be empty or whitespace", err.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", err.Field(), err.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
	case "integral":
		return fmt.Sprintf("%s must be a whole number", err.Field())
	default:
		return fmt.Sprintf("%s failed validation: %s", err.Field(), err.Tag())
	}
}

// ErrorSummary returns a single string summarizing all validation errors
func (r ValidationResult) ErrorSummary() string {
	if r.Valid {
		return ""
	}
	var parts []string
	for _, e := range r.Errors {
		parts = append(parts, e.Message)
	}
	return strings.Join(parts, "; ")
}
