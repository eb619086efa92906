package security

import "github.com/microcosm-cc/bluemonday"

// Sanitizer strips dangerous markup from user-supplied rich text before it
// reaches the store. Question and answer bodies keep basic formatting,
// plain fields keep nothing.
type Sanitizer struct {
	rich  *bluemonday.Policy
	plain *bluemonday.Policy
}

func NewSanitizer() *Sanitizer {
	return &Sanitizer{
		rich:  bluemonday.UGCPolicy(),
		plain: bluemonday.StrictPolicy(),
	}
}

func (s *Sanitizer) RichText(input string) string {
	return s.rich.Sanitize(input)
}

func (s *Sanitizer) PlainText(input string) string {
	return s.plain.Sanitize(input)
}
