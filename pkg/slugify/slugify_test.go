package slugify_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/slugkit/pkg/slugify"
)

func TestMake(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		opts     []slugify.Option
		expected string
	}{
		{
			name:     "simple text",
			input:    "Hello World",
			expected: "hello-world",
		},
		{
			name:     "with punctuation",
			input:    "Hello, World!",
			expected: "hello-world",
		},
		{
			name:     "with numbers",
			input:    "Product 123",
			expected: "product-123",
		},
		{
			name:     "multiple spaces",
			input:    "Too    Many     Spaces",
			expected: "too-many-spaces",
		},
		{
			name:     "leading and trailing spaces",
			input:    "  Trim Me  ",
			expected: "trim-me",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "only special characters",
			input:    "!@#$%^&*()",
			expected: "",
		},
		{
			name:     "unicode diacritics",
			input:    "Café résumé naïve",
			expected: "cafe-resume-naive",
		},
		{
			name:     "spanish characters",
			input:    "Niño español",
			expected: "nino-espanol",
		},
		{
			name:     "cyrillic",
			input:    "Москва",
			expected: "moskva",
		},
		{
			name:     "cjk pinyin",
			input:    "中文",
			expected: "zhong-wen",
		},
		{
			name:     "consecutive separators",
			input:    "Too---Many---Dashes",
			expected: "too-many-dashes",
		},
		{
			name:     "trailing separator removed",
			input:    "Ends with dash-",
			expected: "ends-with-dash",
		},
		{
			name:     "tabs and newlines",
			input:    "Line1\nLine2\tTabbed",
			expected: "line1-line2-tabbed",
		},
		{
			name:     "emoji dropped",
			input:    "Hello 😀 World",
			expected: "hello-world",
		},
		{
			name:     "path like string",
			input:    "path/to/file.txt",
			expected: "path-to-file-txt",
		},
		{
			name:     "mixed case with lowercase disabled",
			input:    "Hello World",
			opts:     []slugify.Option{slugify.Lowercase(false)},
			expected: "Hello-World",
		},
		{
			name:     "custom separator",
			input:    "Hello World",
			opts:     []slugify.Option{slugify.Separator("_")},
			expected: "hello_world",
		},
		{
			name:     "empty separator",
			input:    "No Separator",
			opts:     []slugify.Option{slugify.Separator("")},
			expected: "noseparator",
		},
		{
			name:     "max length",
			input:    "This is a very long title that should be truncated",
			opts:     []slugify.Option{slugify.MaxLength(20)},
			expected: "this-is-a-very-long",
		},
		{
			name:     "max length at separator boundary",
			input:    "Cut off cleanly",
			opts:     []slugify.Option{slugify.MaxLength(7)},
			expected: "cut-off",
		},
		{
			name:     "zero max length does not truncate",
			input:    "Should not truncate",
			opts:     []slugify.Option{slugify.MaxLength(0)},
			expected: "should-not-truncate",
		},
		{
			name:     "strip specific characters",
			input:    "Remove (these) [chars]",
			opts:     []slugify.Option{slugify.StripChars("()[]")},
			expected: "remove-these-chars",
		},
		{
			name:  "custom replacements",
			input: "Fish & Chips @ Home",
			opts: []slugify.Option{
				slugify.CustomReplace(map[string]string{
					"&": "and",
					"@": "at",
				}),
			},
			expected: "fish-and-chips-at-home",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, slugify.Make(tt.input, tt.opts...))
		})
	}
}

// Fixtures mirrored from production lookups: transliteration must be stable
// across Latin, Cyrillic, and CJK inputs.
func TestMakeTransliteration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"A Thousand Plateaus", "a-thousand-plateaus"},
		{"Капитал", "kapital"},
		{"中文", "zhong-wen"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, slugify.Make(tt.input))
		})
	}
}

func TestJoin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		values   []string
		expected string
	}{
		{
			name:     "two fields",
			values:   []string{"Jane", "Doe"},
			expected: "Jane Doe",
		},
		{
			name:     "skips empty values",
			values:   []string{"", "Doe", " "},
			expected: "Doe",
		},
		{
			name:     "no values",
			values:   nil,
			expected: "",
		},
		{
			name:     "trims whitespace",
			values:   []string{"  Jane ", "Doe  "},
			expected: "Jane Doe",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, slugify.Join(tt.values...))
		})
	}
}

func TestMakeIdempotent(t *testing.T) {
	t.Parallel()

	// Re-slugging an existing slug must be a no-op; the manager relies on this
	// to avoid spurious history entries.
	inputs := []string{"a-thousand-plateaus", "kapital", "zhong-wen", "product-123"}
	for _, in := range inputs {
		assert.Equal(t, in, slugify.Make(in))
	}
}
