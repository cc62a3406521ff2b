// Package note writes classified captures into the vault as markdown files
// with a YAML front-matter header, and relocates them when the user corrects
// a classification.
package note

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/parakeep/parakeep/internal/classifier"
)

const (
	frontMatterMarker = "---"
	maxSlugLength     = 30
	untitledSlug      = "untitled"
)

// FrontMatter is the structured header of a vault note. The external
// note-taking tool reads it; parakeep writes it on creation and updates it on
// relocation.
type FrontMatter struct {
	Domain     string     `yaml:"domain"`
	Section    string     `yaml:"section"`
	Subject    string     `yaml:"subject"`
	Category   string     `yaml:"category"`
	Confidence float64    `yaml:"confidence"`
	Reasoning  string     `yaml:"reasoning"`
	Created    time.Time  `yaml:"created"`
	Tags       []string   `yaml:"tags"`
	MovedFrom  string     `yaml:"moved_from,omitempty"`
	MovedAt    *time.Time `yaml:"moved_at,omitempty"`
}

var (
	slugInvalid = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSpaces  = regexp.MustCompile(`\s+`)
	slugHyphens = regexp.MustCompile(`-+`)
)

// Slug converts free text to a safe kebab-case filename fragment, at most
// maxSlugLength characters. Empty or fully-stripped input yields "untitled".
func Slug(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = slugInvalid.ReplaceAllString(s, "")
	s = slugSpaces.ReplaceAllString(s, "-")
	s = slugHyphens.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return untitledSlug
	}
	if len(s) > maxSlugLength {
		s = strings.TrimRight(s[:maxSlugLength], "-")
	}
	return s
}

// render builds the full note content: front matter between marker lines,
// then the capture body. Task captures get a checkbox so the note-taking
// tool picks them up as open tasks.
func render(fm FrontMatter, text string) (string, error) {
	header, err := yaml.Marshal(fm)
	if err != nil {
		return "", fmt.Errorf("marshaling front matter: %w", err)
	}

	capture := text
	if fm.Category == "task" {
		capture = "- [ ] " + text
	}

	var b strings.Builder
	b.WriteString(frontMatterMarker + "\n")
	b.Write(header)
	b.WriteString(frontMatterMarker + "\n")
	fmt.Fprintf(&b, `
## Original Capture

%s

## Classification

- **Domain:** %s
- **Section:** %s
- **Subject:** %s
- **Category:** %s
- **Confidence:** %.0f%%
- **Reasoning:** %s
`, capture, fm.Domain, fm.Section, fm.Subject, fm.Category, fm.Confidence*100, fm.Reasoning)

	return b.String(), nil
}

// newFrontMatter maps a classification onto a note header.
func newFrontMatter(result *classifier.Result, created time.Time) FrontMatter {
	return FrontMatter{
		Domain:     result.Domain,
		Section:    result.Section,
		Subject:    result.Subject,
		Category:   result.Category,
		Confidence: result.Confidence,
		Reasoning:  result.Reasoning,
		Created:    created,
		Tags:       []string{},
	}
}

// splitFrontMatter separates a note into its header and body. The body keeps
// its leading newline so a rewrite is byte-faithful outside the header.
func splitFrontMatter(content string) (header, body string, ok bool) {
	if !strings.HasPrefix(content, frontMatterMarker+"\n") {
		return "", "", false
	}
	rest := content[len(frontMatterMarker)+1:]
	idx := strings.Index(rest, "\n"+frontMatterMarker+"\n")
	if idx < 0 {
		return "", "", false
	}
	return rest[:idx+1], rest[idx+len(frontMatterMarker)+2:], true
}
