package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTMLStripsScripts(t *testing.T) {
	dirty := `<p>hello</p><script>alert("xss")</script>`
	clean := HTML(dirty)
	assert.Contains(t, clean, "hello")
	assert.NotContains(t, clean, "script")
	assert.NotContains(t, clean, "alert")
}

func TestHTMLKeepsBasicFormatting(t *testing.T) {
	clean := HTML(`<p>hi <strong>there</strong></p>`)
	assert.Contains(t, clean, "<strong>there</strong>")
}

func TestTextRendersPlain(t *testing.T) {
	text := Text(`<p>Your code is <b>123456</b></p><script>evil()</script>`)
	assert.Contains(t, text, "Your code is")
	assert.Contains(t, text, "123456")
	assert.NotContains(t, text, "evil")
}

func TestTextLinks(t *testing.T) {
	text := Text(`<a href="https://example.test/verify">Verify</a>`)
	assert.Contains(t, text, "https://example.test/verify")
}
