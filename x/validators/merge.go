package validators

import (
	"bytes"
	"sort"
)

// Merge applies updates to the current validators and returns the result
// ordered by public key. For a key present more than once in updates, the
// last update wins. Zero power entries are kept so that the caller can
// tell a removal apart. Neither input is modified.
func Merge(current []ValidatorRecord, updates []ValidatorChangeProposal) []ValidatorRecord {
	index := make(map[string]int, len(current)+len(updates))
	merged := make([]ValidatorRecord, 0, len(current)+len(updates))

	put := func(key PubKey, power int64) {
		if i, ok := index[string(key)]; ok {
			merged[i].Power = power
			return
		}
		index[string(key)] = len(merged)
		merged = append(merged, ValidatorRecord{
			PubKey: append(PubKey(nil), key...),
			Power:  power,
		})
	}
	for _, v := range current {
		put(v.PubKey, v.Power)
	}
	for _, u := range updates {
		put(u.PubKey, u.Power)
	}

	sort.Slice(merged, func(i, j int) bool {
		return bytes.Compare(merged[i].PubKey, merged[j].PubKey) < 0
	})
	return merged
}

// withPositivePower returns the records that have power greater than zero.
func withPositivePower(records []ValidatorRecord) []ValidatorRecord {
	res := make([]ValidatorRecord, 0, len(records))
	for _, r := range records {
		if r.Power > 0 {
			res = append(res, r)
		}
	}
	return res
}
