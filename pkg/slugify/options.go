package slugify

// Option configures slug generation.
type Option func(*options)

type options struct {
	separator    string
	stripChars   string
	replacements map[string]string
	maxLength    int
	lowercase    bool
}

func defaultOptions() *options {
	return &options{
		separator: "-",
		lowercase: true,
	}
}

// Separator sets the string inserted between word tokens.
// Default: "-".
func Separator(s string) Option {
	return func(o *options) {
		o.separator = s
	}
}

// Lowercase controls case folding of the result.
// Default: true.
func Lowercase(enabled bool) Option {
	return func(o *options) {
		o.lowercase = enabled
	}
}

// MaxLength truncates the slug to at most n runes, trimming any trailing
// separator left by the cut. Zero means unlimited.
// Default: 0.
func MaxLength(n int) Option {
	return func(o *options) {
		o.maxLength = n
	}
}

// StripChars removes the listed characters from the input before slugification
// instead of letting them become separators.
func StripChars(chars string) Option {
	return func(o *options) {
		o.stripChars = chars
	}
}

// CustomReplace applies literal string replacements before slugification.
// Useful for domain-specific terms: {"&": "and", "@": "at"}.
func CustomReplace(replacements map[string]string) Option {
	return func(o *options) {
		o.replacements = replacements
	}
}
