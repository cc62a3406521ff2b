package vault

import "sort"

// Hierarchy is the three-level vault taxonomy: domain -> section -> sorted
// subject names. Keys are exact, case-preserving directory names. It is
// rebuilt wholesale on each scan, never mutated incrementally.
type Hierarchy map[string]map[string][]string

// Vocabulary is the flattened, sorted view of a hierarchy used to build
// classification prompts.
type Vocabulary struct {
	Domains  []string `json:"domains"`
	Sections []string `json:"sections"`
	Subjects []string `json:"subjects"`
}

// Clone returns a deep copy, so callers can mutate the result without
// affecting the receiver.
func (h Hierarchy) Clone() Hierarchy {
	if h == nil {
		return nil
	}
	out := make(Hierarchy, len(h))
	for domain, sections := range h {
		copied := make(map[string][]string, len(sections))
		for section, subjects := range sections {
			copied[section] = append([]string(nil), subjects...)
		}
		out[domain] = copied
	}
	return out
}

// Domains returns the domain names in sorted order.
func (h Hierarchy) Domains() []string {
	domains := make([]string, 0, len(h))
	for name := range h {
		domains = append(domains, name)
	}
	sort.Strings(domains)
	return domains
}

// Vocabulary flattens the hierarchy into sorted, de-duplicated name lists.
func (h Hierarchy) Vocabulary() Vocabulary {
	sections := map[string]bool{}
	subjects := map[string]bool{}

	for _, byDomain := range h {
		for section, subjectList := range byDomain {
			sections[section] = true
			for _, s := range subjectList {
				subjects[s] = true
			}
		}
	}

	return Vocabulary{
		Domains:  h.Domains(),
		Sections: sortedKeys(sections),
		Subjects: sortedKeys(subjects),
	}
}

// SubjectsForDomain returns all subjects under the given domain, across all
// of its sections, sorted and de-duplicated.
func (h Hierarchy) SubjectsForDomain(domain string) []string {
	byDomain, ok := h[domain]
	if !ok {
		return nil
	}
	seen := map[string]bool{}
	for _, subjectList := range byDomain {
		for _, s := range subjectList {
			seen[s] = true
		}
	}
	return sortedKeys(seen)
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
