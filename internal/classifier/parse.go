package classifier

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// reply is the untyped intermediate form of a model response. Pointer fields
// distinguish "absent" from "present but empty" so validation can default each
// field independently.
type reply struct {
	Domain     string   `json:"domain"`
	Section    string   `json:"section"`
	Subject    string   `json:"subject"`
	Category   string   `json:"category"`
	Confidence *float64 `json:"confidence"`
	Reasoning  string   `json:"reasoning"`
}

var fieldPatterns = map[string]*regexp.Regexp{
	"domain":     regexp.MustCompile(`"domain"\s*:\s*"([^"]+)"`),
	"section":    regexp.MustCompile(`"section"\s*:\s*"([^"]+)"`),
	"subject":    regexp.MustCompile(`"subject"\s*:\s*"([^"]+)"`),
	"category":   regexp.MustCompile(`"category"\s*:\s*"([^"]+)"`),
	"confidence": regexp.MustCompile(`"confidence"\s*:\s*([0-9.]+)`),
	"reasoning":  regexp.MustCompile(`"reasoning"\s*:\s*"([^"]+)"`),
}

// parseReply attempts strict JSON parsing first, then falls back to per-field
// pattern extraction. The second return value is false only when neither tier
// recovered a single field.
func parseReply(raw string) (reply, bool) {
	if r, ok := parseJSON(raw); ok {
		return r, true
	}
	return extractFields(raw)
}

// parseJSON isolates the first JSON object in the response and unmarshals it.
// Models often wrap the object in code fences or prose.
func parseJSON(raw string) (reply, bool) {
	trimmed := strings.TrimSpace(raw)

	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start < 0 || end <= start {
		return reply{}, false
	}

	var r reply
	if err := json.Unmarshal([]byte(trimmed[start:end+1]), &r); err != nil {
		return reply{}, false
	}
	return r, true
}

// extractFields pulls key/value pairs out of a malformed response one pattern
// at a time.
func extractFields(raw string) (reply, bool) {
	var r reply
	found := false

	for field, pattern := range fieldPatterns {
		m := pattern.FindStringSubmatch(raw)
		if m == nil {
			continue
		}
		found = true
		switch field {
		case "domain":
			r.Domain = m[1]
		case "section":
			r.Section = m[1]
		case "subject":
			r.Subject = m[1]
		case "category":
			r.Category = m[1]
		case "confidence":
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				r.Confidence = &v
			}
		case "reasoning":
			r.Reasoning = m[1]
		}
	}

	return r, found
}
