package usecase

import (
	"errors"
	"strings"
	"time"

	"github.com/ferdian3456/brewlog/internal/constant"
	"github.com/ferdian3456/brewlog/internal/model"
)

func asNotFound(err error, target **model.NotFoundError) bool {
	return errors.As(err, target)
}

func asValidation(err error, target **model.ValidationError) bool {
	return errors.As(err, target)
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}

func cleanNotes(notes []string) []string {
	cleaned := make([]string, 0, len(notes))
	for _, note := range notes {
		note = strings.TrimSpace(note)
		if note != "" {
			cleaned = append(cleaned, note)
		}
	}
	return cleaned
}

func parseDate(value string, param string) (time.Time, error) {
	date, err := time.Parse("2006-01-02", value)
	if err != nil {
		date, err = time.Parse(time.RFC3339, value)
	}
	if err != nil {
		return time.Time{}, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Date must be formatted as YYYY-MM-DD",
			Param:   param,
		}
	}
	return date.UTC(), nil
}

func requireText(value string, param string, label string) error {
	if strings.TrimSpace(value) == "" {
		return &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: label + " is required to not be empty",
			Param:   param,
		}
	}
	return nil
}

func requireOneOf(value string, allowed []string, param string, label string) error {
	if !contains(allowed, value) {
		return &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: label + " must be one of: " + strings.Join(allowed, ", "),
			Param:   param,
		}
	}
	return nil
}

func trimOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
