package classifier

// Categories is the closed set of content tags a capture can receive. A reply
// naming anything else falls back to the configured default category.
var Categories = []string{"meeting", "task", "idea", "reference", "journal", "question"}

// Sections is the fixed organizational vocabulary for the second vault level.
// Vault folders outside this set are still accepted when they exist on disk.
var Sections = []string{"1_Projects", "2_Areas", "3_Resources", "4_Archive"}

// defaultConfidence is substituted when a reply omits the confidence field.
const defaultConfidence = 0.5

// Result is a validated four-level classification. Every field is guaranteed
// to be either a member of the vault vocabulary (or the fixed category and
// section sets) or its configured default.
type Result struct {
	Domain     string  `json:"domain"`
	Section    string  `json:"section"`
	Subject    string  `json:"subject"`
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
	Raw        string  `json:"raw_response,omitempty"`
}

// ValidCategory reports whether name is in the closed category set,
// case-insensitively, returning the canonical spelling.
func ValidCategory(name string) (string, bool) {
	return matchExact(name, Categories)
}
