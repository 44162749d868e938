package forest

import "sort"

// shiftFrom increments, by one, the Sort of every sibling in siblingIDs
// whose current Sort is >= threshold, except excludeID. It does nothing
// when the level has one or zero members. Used both to make room during
// insertion and to resolve a duplicate sort during Normalize.
func shiftFrom(nodes map[int64]*Node, siblingIDs []int64, threshold int, excludeID int64) {
	if len(siblingIDs) <= 1 {
		return
	}
	for _, id := range siblingIDs {
		if id == excludeID {
			continue
		}
		n := nodes[id]
		if n.Sort >= threshold {
			n.Sort++
		}
	}
}

// normalize forces siblingIDs' Sort values to the contiguous permutation
// 1..k. It clamps out-of-range starting values, resolves duplicates, and
// closes gaps, in that order, and is idempotent: applying it twice is
// equivalent to applying it once.
func normalize(nodes map[int64]*Node, siblingIDs []int64) {
	switch len(siblingIDs) {
	case 0:
		return
	case 1:
		nodes[siblingIDs[0]].Sort = 1
		return
	}

	orderedBySort := func() []int64 {
		ordered := append([]int64(nil), siblingIDs...)
		sort.Slice(ordered, func(i, j int) bool {
			ni, nj := nodes[ordered[i]], nodes[ordered[j]]
			if ni.Sort != nj.Sort {
				return ni.Sort < nj.Sort
			}
			return ordered[i] < ordered[j]
		})
		return ordered
	}

	ordered := orderedBySort()
	minSort := nodes[ordered[0]].Sort
	switch {
	case minSort > 1:
		for _, id := range ordered {
			nodes[id].Sort -= minSort - 1
		}
	case minSort < 1:
		shift := -minSort + 1
		for _, id := range ordered {
			nodes[id].Sort += shift
		}
	}

	// Resolve duplicates: when two siblings share a Sort, the later one
	// in ascending (sort, id) order is treated as "the duplicate" and
	// shiftFrom is invoked on its behalf, which leaves it in place and
	// pushes every other sibling at or above that value up by one. A
	// shift can itself create a fresh collision further along, so this
	// repeats until a full pass finds none; each resolution strictly
	// increases the level's maximum assigned sort, so the loop
	// terminates within len(siblingIDs) passes.
	for {
		ordered = orderedBySort()
		seen := make(map[int]bool, len(ordered))
		collided := false
		for _, id := range ordered {
			s := nodes[id].Sort
			if seen[s] {
				shiftFrom(nodes, siblingIDs, s, id)
				collided = true
				break
			}
			seen[s] = true
		}
		if !collided {
			break
		}
	}

	// Close gaps: now that sorts are unique and ascending, walk once
	// more and pull each sibling down to its predecessor's sort + 1
	// wherever a gap opened up.
	ordered = orderedBySort()
	for i := 1; i < len(ordered); i++ {
		prevSort := nodes[ordered[i-1]].Sort
		cur := nodes[ordered[i]]
		if cur.Sort > prevSort+1 {
			cur.Sort = prevSort + 1
		}
	}
}
