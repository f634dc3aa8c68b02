package owners

import (
	"strings"

	"landfunnel/internal/types"
)

const ownerSeparator = ", "

// summarizeNormalized lists the owners as "NAME [CF - QUOTA]". Repeated
// fiscal codes are listed once.
func summarizeNormalized(owners []types.NormalizedOwner) string {
	seen := make(map[string]bool, len(owners))
	var entries []string
	for _, o := range owners {
		key := o.FiscalCode
		if key == "" {
			key = "name:" + CleanName(o.Name)
		}
		if seen[key] {
			continue
		}
		seen[key] = true

		tag := o.FiscalCode
		if q := strings.TrimSpace(o.Quota); q != "" {
			tag += " - " + q
		}
		entries = append(entries, entry(CleanName(o.Name), tag))
	}
	return strings.Join(entries, ownerSeparator)
}

// summarizeRaw is the fallback when no normalized owner matched:
// "NAME [CF]" per distinct raw candidate. Rows with neither name nor fiscal
// code add nothing to the list.
func summarizeRaw(cands []types.RawOwner) string {
	seen := make(map[string]bool, len(cands))
	var entries []string
	for _, c := range cands {
		name := rawDisplayName(c)
		if name == "" && c.FiscalCode == "" {
			continue
		}
		key := c.FiscalCode
		if key == "" {
			key = "name:" + name
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		entries = append(entries, entry(name, c.FiscalCode))
	}
	return strings.Join(entries, ownerSeparator)
}

func rawDisplayName(c types.RawOwner) string {
	if d := CleanName(c.Denomination); d != "" {
		return d
	}
	if n := CleanName(c.FirstName + " " + c.LastName); n != "" {
		return n
	}
	return CleanName(c.CombinedName)
}

func entry(name, tag string) string {
	if tag == "" {
		return name
	}
	return strings.TrimSpace(name + " [" + tag + "]")
}
