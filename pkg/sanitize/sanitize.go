package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var policy = bluemonday.StrictPolicy()

// Text 去除 HTML 标签并还原实体，结果两端去空白
func Text(val string) string {
	return strings.TrimSpace(html.UnescapeString(policy.Sanitize(val)))
}
