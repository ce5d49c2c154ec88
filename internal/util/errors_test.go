package util

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestValidationErrorMessage(t *testing.T) {
	ve := NewValidationError("score", "must be less than or equal to 100")
	ve.Add("module", "object does not exist")

	want := "validation failed: module: object does not exist; score: must be less than or equal to 100"
	if ve.Error() != want {
		t.Errorf("Error() = %q", ve.Error())
	}

	wrapped := fmt.Errorf("record: %w", ve)
	if got, ok := IsValidationError(wrapped); !ok || got != ve {
		t.Error("IsValidationError did not unwrap")
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		in   string
		want uint
		ok   bool
	}{
		{"1", 1, true},
		{"42", 42, true},
		{"0", 0, false},
		{"-3", 0, false},
		{"abc", 0, false},
		{"", 0, false},
		{"99999999999", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseID(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseID(%q) = %d, %v", tt.in, got, ok)
		}
	}
}

func TestHandleError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"validation", NewValidationError("title", "this field is required"), http.StatusBadRequest, "validation failed"},
		{"not found", ErrLessonNotFound, http.StatusNotFound, "lesson not found"},
		{"wrapped not found", fmt.Errorf("load: %w", ErrUserNotFound), http.StatusNotFound, "load: user not found"},
		{"internal", errors.New("connection reset"), http.StatusInternalServerError, "internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			HandleError(c, tt.err)

			if w.Code != tt.code {
				t.Fatalf("status = %d, want %d", w.Code, tt.code)
			}
			var body ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatal(err)
			}
			if body.Error != tt.message {
				t.Errorf("error = %q, want %q", body.Error, tt.message)
			}
		})
	}
}
