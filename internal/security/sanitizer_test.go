package security

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRichTextKeepsFormattingDropsScripts(t *testing.T) {
	s := NewSanitizer()

	out := s.RichText(`<p>hello <b>world</b></p><script>alert(1)</script>`)
	require.Equal(t, `<p>hello <b>world</b></p>`, out)

	out = s.RichText(`<a href="javascript:alert(1)">click</a>`)
	require.NotContains(t, out, "javascript:")
}

func TestPlainTextDropsAllMarkup(t *testing.T) {
	s := NewSanitizer()

	out := s.PlainText(`title with <b>bold</b> and <img src=x onerror=alert(1)>`)
	require.Equal(t, "title with bold and ", out)
}
