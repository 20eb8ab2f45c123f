package types

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

type Validater interface {
	Validate() map[string]string
}

// ProjectionParams are the user-tunable t-SNE knobs exposed by the
// dashboard sidebar. Ranges match the sliders.
type ProjectionParams struct {
	Perplexity   int     `json:"perplexity" validate:"required,min=5,max=50"`
	Iterations   int     `json:"iterations" validate:"required,min=250,max=2000"`
	LearningRate float64 `json:"learning_rate" validate:"required,min=10,max=1000"`
}

const (
	DefaultPerplexity   = 30
	DefaultIterations   = 300
	DefaultLearningRate = 200
)

func Validate(v Validater) map[string]string {
	return v.Validate()
}

func (params *ProjectionParams) Validate() map[string]string {
	validate := validator.New()
	if err := validate.Struct(params); err != nil {
		errs := err.(validator.ValidationErrors)
		errors := make(map[string]string)
		for _, e := range errs {
			errors[e.Field()] = fmt.Sprintf("failed on '%s' tag", e.Tag())
		}
		return errors
	}
	return nil
}

func NewValidationError(errors map[string]string) ValidationError {
	return ValidationError{
		Status: http.StatusUnprocessableEntity,
		Errors: errors,
	}
}

type ValidationError struct {
	Status int               `json:"status"`
	Errors map[string]string `json:"errors"`
}

func (e ValidationError) Error() string {
	return "validation failed"
}

// ProjectionPoint is one plotted chunk. Content arrives with newlines
// already converted to <br> for the hover template.
type ProjectionPoint struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	ChunkID string  `json:"chunk_id"`
	FileID  string  `json:"file_id"`
	Content string  `json:"content"`
}

type ProjectionResponse struct {
	Points  []ProjectionPoint `json:"points"`
	Count   int               `json:"count"`
	Warning string            `json:"warning,omitempty"`
}
