package selectable

import (
	"fmt"
	"slices"

	"github.com/pitabwire/selectable/source"
)

// dynamicKeyPrefix is prepended to the id of entries synthesised from override records.
const dynamicKeyPrefix = "entry_"

// merge combines the declared entries with the override records.
//
// Overrides are emitted first, in their order, each either replacing the name
// of the matching declared entry or synthesising a dynamic one. Declared
// entries not mentioned by the overrides follow in declaration order.
func merge[ID comparable](statics []Entry[ID], overrides []source.Record[ID]) []Entry[ID] {
	if len(overrides) == 0 {
		return slices.Clone(statics)
	}

	byID := make(map[ID]int, len(statics))
	taken := make(map[string]struct{}, len(statics)+len(overrides))
	for i, e := range statics {
		byID[e.id] = i
		taken[e.key] = struct{}{}
	}

	consumed := make([]bool, len(statics))
	seen := make(map[ID]struct{}, len(overrides))
	merged := make([]Entry[ID], 0, len(statics)+len(overrides))

	for _, rec := range overrides {
		if _, dup := seen[rec.ID]; dup {
			continue
		}
		seen[rec.ID] = struct{}{}

		if i, ok := byID[rec.ID]; ok {
			e := statics[i]
			if rec.Name != "" {
				e = e.withName(rec.Name)
			}
			consumed[i] = true
			merged = append(merged, e)
			continue
		}

		key := dynamicKey(rec.ID, taken)
		taken[key] = struct{}{}
		merged = append(merged, newDynamicEntry(rec.ID, key, rec.Name))
	}

	for i, e := range statics {
		if !consumed[i] {
			merged = append(merged, e)
		}
	}
	return merged
}

func dynamicKey[ID comparable](id ID, taken map[string]struct{}) string {
	base := fmt.Sprintf("%s%v", dynamicKeyPrefix, id)
	if _, clash := taken[base]; !clash {
		return base
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s_%d", base, n)
		if _, clash := taken[candidate]; !clash {
			return candidate
		}
	}
}
