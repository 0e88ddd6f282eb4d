package httpmetrics

import (
	"strings"

	"github.com/google/uuid"
)

// idAfter lists the path segments that are always followed by an entity id.
var idAfter = map[string]struct{}{
	"project":     {},
	"groups":      {},
	"columns":     {},
	"tasks":       {},
	"editProfile": {},
}

// NormalizePath replaces ids in path with {id}. It is the label fallback for
// requests that matched no route, so arbitrary paths stay low-cardinality.
func NormalizePath(path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	if len(segments) == 1 && segments[0] == "" {
		return "/"
	}

	out := make([]string, len(segments))
	for i, seg := range segments {
		_, afterResource := idAfter[prev(segments, i)]
		if afterResource || looksLikeID(seg) {
			out[i] = "{id}"
			continue
		}
		out[i] = seg
	}
	return "/" + strings.Join(out, "/")
}

func prev(segments []string, i int) string {
	if i == 0 {
		return ""
	}
	return segments[i-1]
}

func looksLikeID(seg string) bool {
	if seg == "" {
		return false
	}
	if _, err := uuid.Parse(seg); err == nil {
		return true
	}
	return strings.Trim(seg, "0123456789") == ""
}
