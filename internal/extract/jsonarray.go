package extract

import "strings"

// FindJSONArray locates a JSON array embedded in free-form model output by
// taking the substring between the first '[' and the last ']'. This is a
// deliberate heuristic: models wrap payloads in prose or code fences, and
// scanning beats asking them to stop. The caller still has to parse the
// result; absence of either bracket reports found=false.
func FindJSONArray(s string) (arr string, found bool) {
	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	return s[start : end+1], true
}
