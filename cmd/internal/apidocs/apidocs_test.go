package apidocs

import (
	"encoding/json"
	"testing"
)

func TestJSON(t *testing.T) {
	raw, err := JSON()
	if err != nil {
		t.Fatal(err)
	}

	var doc struct {
		OpenAPI string                    `json:"openapi"`
		Paths   map[string]map[string]any `json:"paths"`
	}
	if err = json.Unmarshal(raw, &doc); err != nil {
		t.Fatal(err)
	}
	if doc.OpenAPI == "" {
		t.Error("missing openapi version")
	}
	for _, path := range []string{"/api/bookings", "/api/bookings/{id}/cancel", "/api/exports/bookings", "/health"} {
		if _, ok := doc.Paths[path]; !ok {
			t.Errorf("path %s not documented", path)
		}
	}
}
