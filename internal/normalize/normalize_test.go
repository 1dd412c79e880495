package normalize

import "testing"

func TestText(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		// Lowercasing and punctuation stripping
		{"Baby's First Zoo", "baby s first zoo"},
		{"The Very Hungry Caterpillar!", "the very hungry caterpillar"},
		{"STEM & Science: Vol. 2", "stem science vol 2"},
		// Hyphens survive
		{"Award-Winning Picture Book", "award-winning picture book"},
		// Whitespace collapsing
		{"  too   many\tspaces \n here ", "too many spaces here"},
		// Unicode punctuation becomes a space
		{"Héllo—world", "h llo world"},
		// Edge cases
		{"", ""},
		{"   ", ""},
		{"!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := Text(tt.input)
			if result != tt.expected {
				t.Errorf("Text(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestTextIdempotent(t *testing.T) {
	inputs := []string{
		"Baby's First Zoo",
		"board book for toddlers",
		"A!B@C#D$E",
		"",
		"already normalized text",
	}

	for _, in := range inputs {
		once := Text(in)
		twice := Text(once)
		if once != twice {
			t.Errorf("Text not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestISBN(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		valid    bool
	}{
		{"9780000000002", "9780000000002", true},
		{"978-0-00-000000-2", "9780000000002", true},
		{"0439708184", "0439708184", true},
		{"0-439-70818-4", "0439708184", true},
		{" 978 0000000002 ", "9780000000002", true},
		// Wrong lengths
		{"12345", "12345", false},
		{"97800000000021", "97800000000021", false},
		// Non-digits
		{"97800000000ab", "97800000000ab", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result, ok := ISBN(tt.input)
			if result != tt.expected || ok != tt.valid {
				t.Errorf("ISBN(%q) = (%q, %v), want (%q, %v)", tt.input, result, ok, tt.expected, tt.valid)
			}
		})
	}
}

func TestHasToken(t *testing.T) {
	tests := []struct {
		text     string
		keyword  string
		expected bool
	}{
		{"board book for toddlers", "board book", true},
		{"board book for toddlers", "toddlers", true},
		{"board book for toddlers", "board", true},
		// Substring but not a whole token
		{"keyboarding for kids", "board", false},
		{"caterpillars", "caterpillar", false},
		{"", "board", false},
		{"board book", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.text+"/"+tt.keyword, func(t *testing.T) {
			if got := HasToken(tt.text, tt.keyword); got != tt.expected {
				t.Errorf("HasToken(%q, %q) = %v, want %v", tt.text, tt.keyword, got, tt.expected)
			}
		})
	}
}
