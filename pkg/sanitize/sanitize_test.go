package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestText(t *testing.T) {
	assert.Equal(t, "ola", Text("  ola  "))
	assert.Equal(t, "hi", Text(`<script>alert(1)</script>hi`))
	assert.Equal(t, "a & b", Text("<b>a &amp; b</b>"))
	assert.Equal(t, "", Text("<img src=x onerror=alert(1)>"))
}
