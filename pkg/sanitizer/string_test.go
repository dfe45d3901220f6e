package sanitizer

import "testing"

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain name", "Garden Room", "Garden Room"},
		{"leading and trailing spaces", "  Garden Room  ", "Garden Room"},
		{"interior whitespace collapsed", "Garden\t\tRoom", "Garden Room"},
		{"control characters stripped", "Garden\x00Room\x07", "GardenRoom"},
		{"newlines collapsed", "Garden\nRoom", "Garden Room"},
		{"empty string", "", ""},
		{"only whitespace", "   \t  ", ""},
		{"unicode preserved", "Café Privé", "Café Privé"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeName(tt.input); got != tt.want {
				t.Errorf("SanitizeName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeAddress(t *testing.T) {
	got := SanitizeAddress("  12  Harbour   St,\nFloor 3 ")
	want := "12 Harbour St, Floor 3"
	if got != want {
		t.Errorf("SanitizeAddress = %q, want %q", got, want)
	}
}

func TestSanitizeEmail(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercased", "Diner@Example.COM", "diner@example.com"},
		{"trimmed", "  diner@example.com ", "diner@example.com"},
		{"control stripped", "diner@example.com\r\n", "diner@example.com"},
		{"already clean", "diner@example.com", "diner@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeEmail(tt.input); got != tt.want {
				t.Errorf("SanitizeEmail(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
