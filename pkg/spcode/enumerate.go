package spcode

import "sort"

// Enumerate returns the power set of codes as canonical removal sets. The
// empty set is always first, followed by sets in increasing size. Codes must
// be unique and there can be at most 63 of them.
func Enumerate(codes []string) []RemovalSet {
	n := len(codes)
	seen := make(map[uint64]struct{}, 1<<min(n, 16))
	out := make([]RemovalSet, 0, 1<<min(n, 16))

	// Not produced by the choose step, which always picks at least one code.
	seen[0] = struct{}{}
	out = append(out, RemovalSet{})

	for size := 1; size <= n; size++ {
		var batch []RemovalSet
		choose(n, size, 0, 0, func(mask uint64) {
			if _, dup := seen[mask]; dup {
				return
			}
			seen[mask] = struct{}{}
			batch = append(batch, canonical(codes, mask))
		})
		sort.Slice(batch, func(i, j int) bool { return lessSet(batch[i], batch[j]) })
		out = append(out, batch...)
	}
	return out
}

// choose calls emit with every bitmask of k indices drawn from [start, n).
func choose(n, k, start int, mask uint64, emit func(uint64)) {
	if k == 0 {
		emit(mask)
		return
	}
	for i := start; i <= n-k; i++ {
		choose(n, k-1, i+1, mask|1<<uint(i), emit)
	}
}

func canonical(codes []string, mask uint64) RemovalSet {
	set := make(RemovalSet, 0, popcount(mask))
	for i, c := range codes {
		if mask&(1<<uint(i)) != 0 {
			set = append(set, c)
		}
	}
	sort.Strings(set)
	return set
}

func popcount(x uint64) int {
	n := 0
	for ; x != 0; x &= x - 1 {
		n++
	}
	return n
}

// lessSet orders canonical sets lexicographically by their codes.
func lessSet(a, b RemovalSet) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}
