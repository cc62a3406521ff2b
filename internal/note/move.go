package note

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Move relocates a note to the domain/section/subject folder under root,
// updating its front matter to the new location and recording where it came
// from. It returns the new path. A name conflict at the destination gets a
// timestamped suffix rather than overwriting.
func Move(notePath, root, domain, section, subject string) (string, error) {
	content, err := os.ReadFile(notePath)
	if err != nil {
		return "", fmt.Errorf("reading note: %w", err)
	}

	folder := filepath.Join(root, domain, section, subject)
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return "", fmt.Errorf("creating destination folder: %w", err)
	}

	now := time.Now()
	dest := filepath.Join(folder, filepath.Base(notePath))
	if _, err := os.Stat(dest); err == nil {
		ext := filepath.Ext(dest)
		stem := strings.TrimSuffix(filepath.Base(dest), ext)
		dest = filepath.Join(folder, fmt.Sprintf("%s-moved-%s%s", stem, now.Format("20060102-150405"), ext))
	}

	updated, err := retarget(string(content), notePath, domain, section, subject, now)
	if err != nil {
		// A note without a parseable header still moves; only the header
		// update is skipped.
		updated = string(content)
	}

	if err := os.WriteFile(dest, []byte(updated), 0o644); err != nil {
		return "", fmt.Errorf("writing relocated note: %w", err)
	}
	if err := os.Remove(notePath); err != nil {
		return "", fmt.Errorf("removing original note: %w", err)
	}
	return dest, nil
}

// retarget rewrites the front matter for the new location.
func retarget(content, oldPath, domain, section, subject string, now time.Time) (string, error) {
	header, body, ok := splitFrontMatter(content)
	if !ok {
		return "", fmt.Errorf("note has no front matter")
	}

	var fm FrontMatter
	if err := yaml.Unmarshal([]byte(header), &fm); err != nil {
		return "", fmt.Errorf("parsing front matter: %w", err)
	}

	fm.Domain = domain
	fm.Section = section
	fm.Subject = subject
	fm.MovedFrom = filepath.Base(filepath.Dir(oldPath))
	fm.MovedAt = &now

	rewritten, err := yaml.Marshal(fm)
	if err != nil {
		return "", fmt.Errorf("marshaling front matter: %w", err)
	}

	var b strings.Builder
	b.WriteString(frontMatterMarker + "\n")
	b.Write(rewritten)
	b.WriteString(frontMatterMarker + "\n")
	b.WriteString(body)
	return b.String(), nil
}
