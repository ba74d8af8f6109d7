package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "basic trim",
			input: "  owner unavailable  ",
			want:  "owner unavailable",
		},
		{
			name:  "multiple spaces",
			input: "owner    unavailable",
			want:  "owner unavailable",
		},
		{
			name:  "tabs and newlines",
			input: "owner\t\nunavailable",
			want:  "owner unavailable",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "only whitespace",
			input: "   \t\n  ",
			want:  "",
		},
		{
			name:  "preserve punctuation",
			input: " key handover at 9:30, please confirm ",
			want:  "key handover at 9:30, please confirm",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TrimAndNormalize(tt.input)
			if got != tt.want {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeCityOrLabel(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "simple city",
			input: "Lisbon",
			want:  "lisbon",
		},
		{
			name:  "two words",
			input: "New York",
			want:  "new_york",
		},
		{
			name:  "hyphens and digits stripped",
			input: "Tel-Aviv 2",
			want:  "tel_aviv",
		},
		{
			name:  "leading and trailing noise",
			input: "  --Porto--  ",
			want:  "porto",
		},
		{
			name:  "unicode letters preserved",
			input: "São Paulo",
			want:  "são_paulo",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeCityOrLabel(tt.input)
			if got != tt.want {
				t.Errorf("SanitizeCityOrLabel(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeSlice(t *testing.T) {
	got := SanitizeSlice([]string{" Lisbon ", "lisbon", "", "Porto"}, SanitizeCityOrLabel)

	want := []string{"lisbon", "porto"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}
