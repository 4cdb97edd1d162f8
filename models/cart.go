package models

import "sort"

// Cart maps product ids to quantities. It lives in the session store for the
// lifetime of a browsing session and is consumed once by checkout; it is
// never persisted on its own.
type Cart map[uint]int

func (c Cart) IsEmpty() bool {
	return len(c) == 0
}

// ProductIDs returns the cart's product ids in ascending order, so callers
// iterating the cart produce deterministic output.
func (c Cart) ProductIDs() []uint {
	ids := make([]uint, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
