// Package slugify converts arbitrary text into URL-safe slugs.
//
// The pipeline applies custom replacements and character stripping, folds the
// input with Unicode NFKC, transliterates non-ASCII characters to their
// closest ASCII equivalents (Latin diacritics, Cyrillic, Greek, and CJK
// pinyin), lowercases, and collapses every run of non-alphanumeric characters
// into a single separator. Characters without an ASCII equivalent are dropped.
//
// Basic usage:
//
//	slugify.Make("A Thousand Plateaus")
//	// Output: "a-thousand-plateaus"
//
//	slugify.Make("Капитал")
//	// Output: "kapital"
//
//	slugify.Make("中文")
//	// Output: "zhong-wen"
//
// With options:
//
//	slugify.Make("Long Article Title", slugify.MaxLength(12))
//	// Output: "long-article"
//
//	slugify.Make("Product Name", slugify.Separator("_"))
//	// Output: "product_name"
//
//	slugify.Make("Fish & Chips", slugify.CustomReplace(map[string]string{"&": "and"}))
//	// Output: "fish-and-chips"
//
// Join builds a single input string from multiple field values:
//
//	slugify.Make(slugify.Join("Jane", "Doe"))
//	// Output: "jane-doe"
//
// All functions are pure and safe for concurrent use.
package slugify
