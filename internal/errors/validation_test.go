package errors

import (
	"testing"
)

func TestValidationError(t *testing.T) {
	err := NewValidationError("student_id", "is required", "")

	if err.Field != "student_id" {
		t.Errorf("Expected field to be 'student_id', got '%s'", err.Field)
	}

	if err.Message != "is required" {
		t.Errorf("Expected message to be 'is required', got '%s'", err.Message)
	}

	if err.Value != "" {
		t.Errorf("Expected value to be empty, got '%v'", err.Value)
	}

	// Test Error method
	expected := "validation error on field 'student_id': is required"
	if err.Error() != expected {
		t.Errorf("Expected error message to be '%s', got '%s'", expected, err.Error())
	}
}

func TestValidationErrors(t *testing.T) {
	// Test empty ValidationErrors
	var errs ValidationErrors
	if errs.Error() != "validation failed" {
		t.Errorf("Expected 'validation failed' for empty errors, got '%s'", errs.Error())
	}

	// Test single ValidationError
	errs = append(errs, *NewValidationError("grade", "must be at least 1", 0))
	expected := "validation failed: grade must be at least 1"
	if errs.Error() != expected {
		t.Errorf("Expected '%s' for single error, got '%s'", expected, errs.Error())
	}

	// Test multiple ValidationErrors
	errs = append(errs, *NewValidationError("subjects", "is required", nil))
	expected = "validation failed: 2 field errors"
	if errs.Error() != expected {
		t.Errorf("Expected '%s' for multiple errors, got '%s'", expected, errs.Error())
	}
}

func TestNewValidationErrorWithRule(t *testing.T) {
	err := NewValidationErrorWithRule("learning_pace", "must be a valid learning pace (slow, medium, fast)", "learning_pace", "frantic")

	if err.Rule != "learning_pace" {
		t.Errorf("Expected rule to be 'learning_pace', got '%s'", err.Rule)
	}

	if err.Field != "learning_pace" {
		t.Errorf("Expected field to be 'learning_pace', got '%s'", err.Field)
	}
}
