package importer

import (
	"fmt"
	"strings"

	"github.com/adidayastudio/from-adidaya-sub005/internal/domain"
)

// ValidateImportSchema checks the file on its own, before any workspace
// state is consulted. All problems are returned, not just the first.
func ValidateImportSchema(schema *ImportSchema, catalog *domain.DisciplineCatalog) []error {
	var errs []error

	nodeRefs := make(map[string]bool)
	errs = append(errs, validateNodes(schema.Nodes, catalog, nodeRefs)...)
	errs = append(errs, validateClasses(schema.PricingClasses)...)
	errs = append(errs, validateLocations(schema.Locations)...)

	return errs
}

func validateNodes(nodes []NodeImport, catalog *domain.DisciplineCatalog, nodeRefs map[string]bool) []error {
	var errs []error

	for i, n := range nodes {
		prefix := fmt.Sprintf("nodes[%d]", i)

		if n.Ref == "" {
			errs = append(errs, fmt.Errorf("%s.ref is required", prefix))
		} else if nodeRefs[n.Ref] {
			errs = append(errs, fmt.Errorf("%s.ref: duplicate ref %q", prefix, n.Ref))
		}

		if n.ParentRef != nil && *n.ParentRef != "" {
			if !nodeRefs[*n.ParentRef] {
				errs = append(errs, fmt.Errorf("%s.parent_ref: ref %q not found (must appear earlier in nodes list)", prefix, *n.ParentRef))
			}
			if n.Discipline != "" || n.Code != "" {
				errs = append(errs, fmt.Errorf("%s: child nodes get their code from the parent; drop discipline/code", prefix))
			}
			if n.Name == "" && n.NameID == "" {
				errs = append(errs, fmt.Errorf("%s.name is required", prefix))
			}
		} else {
			errs = append(errs, validateRoot(prefix, n, catalog)...)
		}

		if n.Ref != "" {
			nodeRefs[n.Ref] = true
		}
	}

	return errs
}

func validateRoot(prefix string, n NodeImport, catalog *domain.DisciplineCatalog) []error {
	switch {
	case n.Discipline != "" && n.Code != "":
		return []error{fmt.Errorf("%s: set either discipline or code, not both", prefix)}
	case n.Discipline != "":
		if _, ok := catalog.Lookup(n.Discipline); !ok {
			return []error{fmt.Errorf("%s.discipline: unknown discipline %q", prefix, n.Discipline)}
		}
	case n.Code != "":
		if strings.Contains(n.Code, ".") {
			return []error{fmt.Errorf("%s.code: root codes cannot contain '.'", prefix)}
		}
		if n.Name == "" && n.NameID == "" {
			return []error{fmt.Errorf("%s.name is required for a custom root", prefix)}
		}
	default:
		return []error{fmt.Errorf("%s: a root needs a discipline or a code", prefix)}
	}
	return nil
}

func validateClasses(classes []ClassImport) []error {
	var errs []error
	seen := make(map[string]bool)

	for i, c := range classes {
		prefix := fmt.Sprintf("pricing_classes[%d]", i)
		code := strings.ToUpper(strings.TrimSpace(c.Code))
		if code == "" {
			errs = append(errs, fmt.Errorf("%s.code is required", prefix))
			continue
		}
		if seen[code] {
			errs = append(errs, fmt.Errorf("%s.code: duplicate class %q", prefix, code))
		}
		seen[code] = true
	}

	return errs
}

func validateLocations(rows []LocationImport) []error {
	var errs []error

	for i, l := range rows {
		prefix := fmt.Sprintf("locations[%d]", i)
		if strings.TrimSpace(l.Province) == "" {
			errs = append(errs, fmt.Errorf("%s.province is required", prefix))
		}
		if l.Regional != nil && *l.Regional < 0 {
			errs = append(errs, fmt.Errorf("%s.regional_factor must not be negative", prefix))
		}
		if l.Difficulty != nil && *l.Difficulty < 0 {
			errs = append(errs, fmt.Errorf("%s.difficulty_factor must not be negative", prefix))
		}
	}

	return errs
}
