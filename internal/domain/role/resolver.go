package role

import (
	"fmt"

	"github.com/gestio-app/gestio-backend-go/internal/domain/permission"
)

// EffectivePermissions computes the final permission set for a role:
// start from the base set, then apply overrides. An override of true adds
// the code, false removes it even when it is part of the base set. The
// result depends on nothing but the role itself.
func EffectivePermissions(r Role) map[string]struct{} {
	effective := make(map[string]struct{}, len(r.BasePermissions))
	for _, code := range r.BasePermissions {
		effective[code] = struct{}{}
	}
	for code, allowed := range r.Overrides {
		if allowed {
			effective[code] = struct{}{}
		} else {
			delete(effective, code)
		}
	}
	return effective
}

// HasCategoryAccess reports whether an effective permission set grants
// access to a category: either some held permission carries the category,
// or a conventionally named VIEW_<CATEGORY>_CATEGORY / MANAGE_<CATEGORY>
// code is held. Codes missing from the catalog only count through the
// naming convention.
func HasCategoryAccess(effective map[string]struct{}, catalog permission.Catalog, category permission.Category) bool {
	viewCode := fmt.Sprintf("VIEW_%s_CATEGORY", category)
	manageCode := fmt.Sprintf("MANAGE_%s", category)

	for code := range effective {
		if code == viewCode || code == manageCode {
			return true
		}
		if cat, ok := catalog.CategoryOf(code); ok && cat == category {
			return true
		}
	}
	return false
}

// SortedCodes returns the effective set as a deterministic slice, mainly
// for diagnostics and API payloads.
func SortedCodes(effective map[string]struct{}) []string {
	codes := make([]string, 0, len(effective))
	for code := range effective {
		codes = append(codes, code)
	}
	for i := 1; i < len(codes); i++ {
		for j := i; j > 0 && codes[j] < codes[j-1]; j-- {
			codes[j], codes[j-1] = codes[j-1], codes[j]
		}
	}
	return codes
}
