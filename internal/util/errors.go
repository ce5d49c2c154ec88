package util

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var ErrNotFound = errors.New("not found")

var (
	ErrUserNotFound            = fmt.Errorf("user %w", ErrNotFound)
	ErrModuleNotFound          = fmt.Errorf("module %w", ErrNotFound)
	ErrLessonNotFound          = fmt.Errorf("lesson %w", ErrNotFound)
	ErrQuestionNotFound        = fmt.Errorf("question %w", ErrNotFound)
	ErrAnswerNotFound          = fmt.Errorf("answer %w", ErrNotFound)
	ErrProgressNotFound        = fmt.Errorf("progress %w", ErrNotFound)
	ErrTestResultNotFound      = fmt.Errorf("test result %w", ErrNotFound)
	ErrAIAgentNotFound         = fmt.Errorf("AI agent %w", ErrNotFound)
	ErrAIAgentForUserNotFound  = fmt.Errorf("AI agent %w for this user", ErrNotFound)
	ErrAIAgentQuestionNotFound = fmt.Errorf("AI agent question %w", ErrNotFound)
)

// ValidationError 字段级校验错误，键为 JSON 字段名
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = message
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func IsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
