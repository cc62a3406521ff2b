package classifier

import (
	"strings"

	"github.com/parakeep/parakeep/internal/config"
	"github.com/parakeep/parakeep/internal/vault"
)

// validate checks every parsed field independently against the vault
// vocabulary and substitutes the configured default for any field that fails.
// A bad subject never invalidates a good domain. Validation order is domain,
// section, subject, category so the later checks can use the earlier results.
func validate(r reply, h vault.Hierarchy, defaults config.DefaultsConfig) Result {
	domain := validateDomain(r.Domain, h, defaults.Domain)
	section := validateSection(r.Section, h[domain], defaults.Section)
	subject := validateSubject(r.Subject, h, domain, section, defaults.Subject)
	category := validateCategory(r.Category, defaults.Category)

	confidence := defaultConfidence
	if r.Confidence != nil {
		confidence = clamp(*r.Confidence)
	}

	reasoning := r.Reasoning
	if reasoning == "" {
		reasoning = "model reply gave no reasoning"
	}

	return Result{
		Domain:     domain,
		Section:    section,
		Subject:    subject,
		Category:   category,
		Confidence: confidence,
		Reasoning:  reasoning,
	}
}

func validateDomain(domain string, h vault.Hierarchy, fallback string) string {
	if domain == "" {
		return fallback
	}
	domains := h.Domains()
	if m, ok := matchExact(domain, domains); ok {
		return m
	}
	if m, ok := matchPartial(domain, domains); ok {
		return m
	}
	return fallback
}

// validateSection accepts any section folder that exists under the chosen
// domain, then falls back to the fixed organizational set with fuzzy matching
// so a reply of "Projects" still resolves to "1_Projects".
func validateSection(section string, byDomain map[string][]string, fallback string) string {
	if section == "" {
		return fallback
	}

	existing := make([]string, 0, len(byDomain))
	for name := range byDomain {
		existing = append(existing, name)
	}
	if m, ok := matchExact(section, existing); ok {
		return m
	}

	if m, ok := matchExact(section, Sections); ok {
		return m
	}
	lower := strings.ToLower(section)
	for _, valid := range Sections {
		validLower := strings.ToLower(valid)
		// "Projects" matches "1_Projects" by its bare name.
		bare := validLower[strings.Index(validLower, "_")+1:]
		if strings.Contains(validLower, lower) || strings.Contains(lower, bare) {
			return valid
		}
	}

	return fallback
}

// validateSubject resolves a subject by widening scope: first within the
// chosen domain+section, then anywhere in the domain, then anywhere in the
// vault, finally the catch-all.
func validateSubject(subject string, h vault.Hierarchy, domain, section, fallback string) string {
	if subject == "" || strings.EqualFold(subject, fallback) {
		return fallback
	}

	if byDomain, ok := h[domain]; ok {
		if m, ok := matchExact(subject, byDomain[section]); ok {
			return m
		}
		if m, ok := matchExact(subject, h.SubjectsForDomain(domain)); ok {
			return m
		}
	}
	for other := range h {
		if m, ok := matchExact(subject, h.SubjectsForDomain(other)); ok {
			return m
		}
	}

	return fallback
}

func validateCategory(category string, fallback string) string {
	if m, ok := matchExact(category, Categories); ok {
		return m
	}
	return fallback
}

// matchExact returns the canonical spelling of name within candidates,
// compared case-insensitively.
func matchExact(name string, candidates []string) (string, bool) {
	for _, c := range candidates {
		if strings.EqualFold(name, c) {
			return c, true
		}
	}
	return "", false
}

// matchPartial returns the first candidate that contains name or is contained
// by it, case-insensitively.
func matchPartial(name string, candidates []string) (string, bool) {
	lower := strings.ToLower(name)
	for _, c := range candidates {
		cLower := strings.ToLower(c)
		if strings.Contains(cLower, lower) || strings.Contains(lower, cLower) {
			return c, true
		}
	}
	return "", false
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
