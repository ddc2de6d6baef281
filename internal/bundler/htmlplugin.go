package bundler

import (
	"regexp"
	"strings"
)

var scriptTagPattern = regexp.MustCompile(`<script.*?src=["'](.*?)["'].*?></script>`)

// RewriteScripts points every external script tag at filename, except tags
// loading mraid.js which the ad container injects itself.
func RewriteScripts(html, filename string) string {
	replacement := `<script src="` + filename + `"></script>`
	return scriptTagPattern.ReplaceAllStringFunc(html, func(tag string) string {
		m := scriptTagPattern.FindStringSubmatch(tag)
		if len(m) > 1 && strings.Contains(m[1], "mraid.js") {
			return tag
		}
		return replacement
	})
}
