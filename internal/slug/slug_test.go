package slug

import (
	"regexp"
	"strings"
	"testing"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

func TestBase(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple name", "Dr. Amina Tazi", "dr-amina-tazi"},
		{"diacritics stripped", "Cabinet Dentaire Fès", "cabinet-dentaire-fes"},
		{"accented vowels", "Clinique Général Béni Mellal", "clinique-general-beni-mellal"},
		{"uppercase", "SMILE CENTER", "smile-center"},
		{"digits kept", "Dentiste 2000", "dentiste-2000"},
		{"punctuation runs collapse", "Dr.  El-Fassi // Rabat", "dr-el-fassi-rabat"},
		{"leading and trailing junk", "  --Dr Omar--  ", "dr-omar"},
		{"apostrophe", "Cabinet d'Orthodontie", "cabinet-d-orthodontie"},
		{"only punctuation falls back", "!!! ???", FallbackToken},
		{"empty name falls back", "", FallbackToken},
		{"arabic-only falls back", "عيادة الأسنان", FallbackToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Base(tt.input); got != tt.expected {
				t.Errorf("Base(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestMake_Shape(t *testing.T) {
	inputs := []string{"Dr. Amina Tazi", "Fès", "", "---", "Centre Dentaire Aïn Sebaâ"}

	for _, in := range inputs {
		got := Make(in)
		if !slugPattern.MatchString(got) {
			t.Errorf("Make(%q) = %q, not a valid slug", in, got)
		}
		if strings.HasPrefix(got, "-") || strings.HasSuffix(got, "-") {
			t.Errorf("Make(%q) = %q has a leading or trailing hyphen", in, got)
		}
		// suffix is the last hyphen-separated segment
		parts := strings.Split(got, "-")
		suffix := parts[len(parts)-1]
		if len(suffix) != SuffixLength {
			t.Errorf("Make(%q) suffix = %q, want length %d", in, suffix, SuffixLength)
		}
	}
}

func TestMake_Prefix(t *testing.T) {
	got := Make("Dr. Amina Tazi")
	if !strings.HasPrefix(got, "dr-amina-tazi-") {
		t.Errorf("Make() = %q, want prefix %q", got, "dr-amina-tazi-")
	}
}

func TestMake_DistinctForSameName(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		s := Make("Dr. Amina Tazi")
		if seen[s] {
			t.Fatalf("Make() produced duplicate slug %q", s)
		}
		seen[s] = true
	}
}
