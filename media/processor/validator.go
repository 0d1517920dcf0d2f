package processor

import (
	"errors"
	"strings"

	"github.com/leeforge/genico/i18n"
)

// Warning is one violated rule. It is rendered into a sentence by an
// i18n.Printer so that the same result can be shown in any language.
type Warning struct {
	Key  i18n.Key `json:"key"`
	Args []any    `json:"args,omitempty"`
}

// Message renders the warning with p, or in English when p is nil.
func (w Warning) Message(p *i18n.Printer) string {
	if p == nil {
		p = i18n.Default()
	}
	return p.Sprintf(w.Key, w.Args...)
}

func (w Warning) String() string {
	return w.Message(nil)
}

// ValidationResult is valid iff Warnings is empty.
type ValidationResult struct {
	IsValid  bool
	Warnings []Warning
}

// Messages renders every warning in order.
func (r ValidationResult) Messages(p *i18n.Printer) []string {
	out := make([]string, 0, len(r.Warnings))
	for _, w := range r.Warnings {
		out = append(out, w.Message(p))
	}
	return out
}

// Has reports whether a warning with key was produced.
func (r ValidationResult) Has(key i18n.Key) bool {
	for _, w := range r.Warnings {
		if w.Key == key {
			return true
		}
	}
	return false
}

func newResult(warnings []Warning) ValidationResult {
	return ValidationResult{IsValid: len(warnings) == 0, Warnings: warnings}
}

// Rules holds the thresholds used by Validate.
type Rules struct {
	MinSize int

	// IgnoreFilename judges the format by content alone, for callers
	// whose files were picked by the user rather than uploaded.
	IgnoreFilename bool
}

func DefaultRules() Rules {
	return Rules{MinSize: MinSize}
}

// Validate applies the rules in order, accumulating every warning:
//
//  1. 0x0 metadata: only the empty warning, nothing else is checked
//  2. filename without .png suffix (unless IgnoreFilename) or format
//     other than png
//  3. width != height
//  4. width or height below MinSize
func (r Rules) Validate(meta ImageMetadata, filename string) ValidationResult {
	if meta.Width <= 0 || meta.Height <= 0 {
		return newResult([]Warning{{Key: i18n.KeyEmpty}})
	}

	var warnings []Warning
	namedPNG := r.IgnoreFilename || strings.HasSuffix(strings.ToLower(filename), ".png")
	if !namedPNG || meta.Format != FormatPNG {
		warnings = append(warnings, Warning{Key: i18n.KeyNotPNG})
	}
	if meta.Width != meta.Height {
		warnings = append(warnings, Warning{Key: i18n.KeyNotSquare})
	}
	if meta.Width < r.MinSize || meta.Height < r.MinSize {
		warnings = append(warnings, Warning{Key: i18n.KeyTooSmall, Args: []any{r.MinSize}})
	}
	return newResult(warnings)
}

// ValidateBytes probes data and validates it. Empty input yields the empty
// warning and undecodable input the unreadable warning; both stop there.
func (r Rules) ValidateBytes(data []byte, filename string) (ValidationResult, ImageMetadata) {
	meta, err := Probe(data)
	switch {
	case errors.Is(err, ErrEmptyImage):
		return newResult([]Warning{{Key: i18n.KeyEmpty}}), meta
	case err != nil:
		return newResult([]Warning{{Key: i18n.KeyUnreadable}}), meta
	}
	return r.Validate(meta, filename), meta
}

// RuleError is the first violated rule, returned by flows that stop at the
// first problem instead of collecting all of them.
type RuleError struct {
	Warning Warning
}

func (e *RuleError) Error() string {
	return e.Warning.String()
}

// FirstViolation returns nil for a valid result, otherwise a *RuleError
// carrying the first warning.
func (r ValidationResult) FirstViolation() error {
	if r.IsValid || len(r.Warnings) == 0 {
		return nil
	}
	return &RuleError{Warning: r.Warnings[0]}
}

// ValidationError carries a complete invalid result and what probing found.
type ValidationError struct {
	Result   ValidationResult
	Metadata ImageMetadata
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Result.Messages(nil), "; ")
}
