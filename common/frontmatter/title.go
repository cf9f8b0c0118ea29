package frontmatter

import (
	"strings"

	"github.com/juicelabs/juice-content/common/slug"
)

// Title resolves the display title for a document. Preference order: the
// frontmatter title field, the first "# " heading in the body, a humanized
// form of the filename, then "Untitled".
func Title(meta *Metadata, body, filename string) string {
	if t := strings.TrimSpace(meta.GetString("title")); t != "" {
		return t
	}
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			if h := strings.TrimSpace(trimmed[2:]); h != "" {
				return h
			}
		}
	}
	if t := slug.Humanize(filename); t != "" {
		return t
	}
	return "Untitled"
}
