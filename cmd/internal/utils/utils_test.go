package utils

import "testing"

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"2025-06-01", "2025-06-01", false},
		{" 2025-06-01 ", "2025-06-01", false},
		{"2025-06-01T10:00:00Z", "2025-06-01", false},
		{"2025-06-01T23:30:00-02:00", "2025-06-02", false},
		{"01/06/2025", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseDate(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDate(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatHour(t *testing.T) {
	tests := map[float64]string{
		7:      "07:00",
		14.5:   "14:30",
		21.25:  "21:15",
		22.999: "23:00",
	}
	for in, want := range tests {
		if got := FormatHour(in); got != want {
			t.Errorf("FormatHour(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestSanitize(t *testing.T) {
	notes := "  bring balls "
	req := struct {
		Name  string
		Notes *string
		Tags  []string
		count int
	}{Name: "  Blue ", Notes: &notes, Tags: []string{" a", "b "}}

	Sanitize(&req)

	if req.Name != "Blue" {
		t.Errorf("Name = %q", req.Name)
	}
	if *req.Notes != "bring balls" {
		t.Errorf("Notes = %q", *req.Notes)
	}
	if req.Tags[0] != "a" || req.Tags[1] != "b" {
		t.Errorf("Tags = %v", req.Tags)
	}
}
