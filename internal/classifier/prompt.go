package classifier

import (
	"fmt"
	"strings"

	"github.com/parakeep/parakeep/internal/llm"
	"github.com/parakeep/parakeep/internal/vault"
)

const systemPrompt = `You are a classification assistant for a personal knowledge management system. You assign each capture a domain, section, subject, and category from a fixed vocabulary. Be precise. Respond only with valid JSON.`

const promptTemplate = `Classify the following capture using ONLY these values:

Domains: %s
Sections: %s
Categories: %s

Subjects by domain:
%s

CAPTURE:
"%s"

Respond with ONLY this JSON (no other text):
{"domain": "...", "section": "...", "subject": "...", "category": "...", "confidence": 0.0-1.0, "reasoning": "..."}

RULES:
- domain MUST be one from the Domains list
- section MUST be one from the Sections list
- subject should be one of the domain's subjects, or "general" if none fit
- category MUST be one from the Categories list
- confidence between 0.0 and 1.0 based on certainty
- reasoning is a brief explanation`

// buildMessages serializes the vault vocabulary and the capture text into a
// single combined instruction. One call covers all four levels at once so a
// cold model load is paid only once per capture.
func buildMessages(text string, h vault.Hierarchy) []llm.Message {
	domains := h.Domains()

	var subjectLines []string
	for _, domain := range domains {
		subjects := h.SubjectsForDomain(domain)
		if len(subjects) == 0 {
			continue
		}
		subjectLines = append(subjectLines, fmt.Sprintf("  %s: %s", domain, strings.Join(subjects, ", ")))
	}
	subjectsSection := "  (no subjects discovered)"
	if len(subjectLines) > 0 {
		subjectsSection = strings.Join(subjectLines, "\n")
	}

	userPrompt := fmt.Sprintf(promptTemplate,
		strings.Join(domains, ", "),
		strings.Join(Sections, ", "),
		strings.Join(Categories, ", "),
		subjectsSection,
		text,
	)

	return []llm.Message{
		{Role: llm.RoleSystem, Content: systemPrompt},
		{Role: llm.RoleUser, Content: userPrompt},
	}
}
