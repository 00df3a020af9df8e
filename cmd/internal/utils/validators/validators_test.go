package validators

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

type sample struct {
	Date  string   `json:"date" validate:"required,isodate"`
	Title string   `json:"title" validate:"notblank"`
	Email string   `json:"email" validate:"nospaces"`
	Start float64  `json:"startTime" validate:"quarterhour"`
	End   *float64 `json:"endTime,omitempty" validate:"omitempty,quarterhour"`
}

func TestRules(t *testing.T) {
	validate := validator.New()
	Register(validate)

	half := 15.5
	odd := 15.1
	tests := []struct {
		name  string
		in    sample
		field string
	}{
		{"valid", sample{Date: "2025-06-01", Title: "x", Email: "a@b.c", Start: 14.25, End: &half}, ""},
		{"rfc3339 date", sample{Date: "2025-06-01T00:00:00Z", Title: "x", Email: "a", Start: 7}, ""},
		{"bad date", sample{Date: "June 1", Title: "x", Email: "a", Start: 7}, "date"},
		{"blank title", sample{Date: "2025-06-01", Title: "   ", Email: "a", Start: 7}, "title"},
		{"spaces", sample{Date: "2025-06-01", Title: "x", Email: "a b", Start: 7}, "email"},
		{"odd start", sample{Date: "2025-06-01", Title: "x", Email: "a", Start: 7.1}, "startTime"},
		{"odd end", sample{Date: "2025-06-01", Title: "x", Email: "a", Start: 7, End: &odd}, "endTime"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Struct(tt.in)
			if tt.field == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			verrs, ok := err.(validator.ValidationErrors)
			if !ok || len(verrs) != 1 {
				t.Fatalf("expected one validation error, got %v", err)
			}
			if verrs[0].Field() != tt.field {
				t.Errorf("field = %s, want %s", verrs[0].Field(), tt.field)
			}
		})
	}
}
