package validator

import (
	"reflect"
	"strings"

	"github.com/brightpath-ed/tutoring-service/internal/adaptive"
	"github.com/brightpath-ed/tutoring-service/internal/models"
	"github.com/go-playground/validator/v10"
)

// Validator wraps struct-tag validation with the domain's custom tags
// registered.
type Validator struct {
	structValidator *validator.Validate
}

// New creates a new centralized validator instance
func New() *Validator {
	structValidator := validator.New()
	registerCustomValidators(structValidator)
	return &Validator{structValidator: structValidator}
}

// ValidateStruct validates struct tags only
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.structValidator.Struct(s)
}

// Validate validates s and normalizes failures into ValidationErrors
func (v *Validator) Validate(s interface{}) error {
	if err := v.structValidator.Struct(s); err != nil {
		if ve := ToValidationErrors(err); len(ve) > 0 {
			return ve
		}
		return err
	}
	return nil
}

// registerCustomValidators registers all custom validation functions
func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("learning_pace", validateLearningPace)
	validate.RegisterValidation("event_type", validateEventType)
	validate.RegisterValidation("session_phase", validateSessionPhase)
	validate.RegisterValidation("difficulty_tier", validateDifficultyTier)

	// Custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateLearningPace(fl validator.FieldLevel) bool {
	validPaces := []models.LearningPace{
		models.PaceSlow,
		models.PaceMedium,
		models.PaceFast,
	}

	value := fl.Field().String()
	for _, validPace := range validPaces {
		if string(validPace) == value {
			return true
		}
	}
	return false
}

func validateEventType(fl validator.FieldLevel) bool {
	validTypes := []models.EventType{
		models.EventLearningSession,
		models.EventSessionStart,
		models.EventContentGenerated,
		models.EventChatInteraction,
		models.EventAssessment,
		models.EventProgressUpdate,
	}

	value := fl.Field().String()
	for _, validType := range validTypes {
		if string(validType) == value {
			return true
		}
	}
	return false
}

func validateDifficultyTier(fl validator.FieldLevel) bool {
	validTiers := []adaptive.DifficultyTier{
		adaptive.TierBasic,
		adaptive.TierModerate,
		adaptive.TierChallenging,
	}

	value := fl.Field().String()
	for _, validTier := range validTiers {
		if string(validTier) == value {
			return true
		}
	}
	return false
}

func validateSessionPhase(fl validator.FieldLevel) bool {
	validPhases := []models.SessionPhase{
		models.PhaseIntroduction,
		models.PhaseLearning,
		models.PhasePractice,
		models.PhaseAssessment,
	}

	value := fl.Field().String()
	for _, validPhase := range validPhases {
		if string(validPhase) == value {
			return true
		}
	}
	return false
}
