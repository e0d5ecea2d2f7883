package domain

import (
	"fmt"
	"regexp"
	"time"
)

var workspaceCodePattern = regexp.MustCompile(`^[A-Z][A-Z0-9]{1,7}$`)

// Workspace owns every WBS node, pricing class, BOQ definition and location
// factor. All store queries are scoped by its ID.
type Workspace struct {
	ID        string
	Code      string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidateCode checks that Code is non-empty and matches the required
// format: an uppercase letter followed by 1-7 uppercase letters or digits
// (e.g. VILLA01, RSD).
func (w *Workspace) ValidateCode() error {
	if w.Code == "" {
		return fmt.Errorf("workspace code is required (use --code flag)")
	}
	if !workspaceCodePattern.MatchString(w.Code) {
		return fmt.Errorf("workspace code %q must be an uppercase letter followed by 1-7 uppercase letters or digits (e.g. VILLA01)", w.Code)
	}
	return nil
}

// DisplayID returns the best short identifier for display.
// It prefers Code; if empty it truncates ID to 8 characters.
func (w *Workspace) DisplayID() string {
	if w.Code != "" {
		return w.Code
	}
	if len(w.ID) >= 8 {
		return w.ID[:8]
	}
	return w.ID
}
