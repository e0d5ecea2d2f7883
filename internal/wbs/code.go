package wbs

import (
	"fmt"
	"strings"

	"github.com/adidayastudio/from-adidaya-sub005/internal/domain"
)

// NextChildCode returns "{parent.Code}.{n}" with n one past the parent's
// current child count. Gaps left by deleted children are not filled, so
// removing the last child and adding another reissues its code.
func NextChildCode(parent *domain.WBSNode) string {
	return fmt.Sprintf("%s.%d", parent.Code, len(parent.Children)+1)
}

// NextRootCode returns the code of a root created from a discipline.
func NextRootCode(d domain.Discipline) string {
	return d.Code
}

// ValidateCode rejects candidate when it matches, after uppercasing, any of
// existing or any catalog discipline code. exempt names the catalog
// discipline being instantiated as a root; its own catalog entry is not a
// collision, though an existing node with the same code still is.
func ValidateCode(candidate string, existing []string, catalog *domain.DisciplineCatalog, exempt string) error {
	key := normalizeCode(candidate)
	if key == "" {
		return fmt.Errorf("code is required")
	}
	for _, c := range existing {
		if normalizeCode(c) == key {
			return &domain.DuplicateCodeError{Code: candidate, Source: "wbs"}
		}
	}
	if _, ok := catalog.Lookup(key); ok && normalizeCode(exempt) != key {
		return &domain.DuplicateCodeError{Code: candidate, Source: "discipline"}
	}
	return nil
}

// Codes returns the codes of nodes.
func Codes(nodes []*domain.WBSNode) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Code)
	}
	return out
}

func normalizeCode(c string) string {
	return strings.ToUpper(strings.TrimSpace(c))
}
