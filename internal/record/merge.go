package record

import "strings"

// Merge folds fragments in order into one mapping. A non-empty value
// overwrites whatever an earlier fragment set for the key; empty values
// never overwrite and never introduce a key.
func Merge(fragments []map[string]string) map[string]string {
	out := make(map[string]string)
	for _, f := range fragments {
		for k, v := range f {
			if strings.TrimSpace(v) == "" {
				continue
			}
			out[k] = v
		}
	}
	return out
}

// GroupFragments splits the export rows of one case into per-document
// fragment lists. Rows without a redcap_repeat_instance are the base of the
// case and lead every group; each repeat instance (per instrument) forms its
// own group in first-seen order. With no repeat rows there is one group.
func GroupFragments(rows []map[string]string) [][]map[string]string {
	var base []map[string]string
	var order []string
	instances := make(map[string][]map[string]string)

	for _, row := range rows {
		inst := strings.TrimSpace(row["redcap_repeat_instance"])
		if inst == "" {
			base = append(base, row)
			continue
		}
		key := row["redcap_repeat_instrument"] + "#" + inst
		if _, seen := instances[key]; !seen {
			order = append(order, key)
		}
		instances[key] = append(instances[key], row)
	}

	if len(order) == 0 {
		if len(base) == 0 {
			return nil
		}
		return [][]map[string]string{base}
	}

	groups := make([][]map[string]string, 0, len(order))
	for _, key := range order {
		g := make([]map[string]string, 0, len(base)+len(instances[key]))
		g = append(g, base...)
		g = append(g, instances[key]...)
		groups = append(groups, g)
	}
	return groups
}
