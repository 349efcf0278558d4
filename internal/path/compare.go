package path

// CommonAncestor returns the longest shared prefix of p and q.
func CommonAncestor(p, q Path) Path {
	var out Path
	for i := 0; i < len(p) && i < len(q); i++ {
		if p[i] != q[i] {
			break
		}
		out = append(out, p[i])
	}
	return out
}

// Distance classifies how far apart two paths are: 0 when identical, 1
// when they are siblings (same parent and relation, different offset), 2
// otherwise.
func Distance(p, q Path) int {
	i := 0
	for i < len(p) && i < len(q) && p[i] == q[i] {
		i++
	}
	switch {
	case i == len(p) && i == len(q):
		return 0
	case i+1 == len(p) && i+1 == len(q) && p[i].Relation == q[i].Relation:
		return 1
	default:
		return 2
	}
}

// Compare orders two positions in document order, returning -1, 0 or 1.
// A position inside the atom at offset k of a list comes after the caret
// at k-1 and before the caret at k. Relations of the same parent are
// ordered by branch navigation order, cells after branches in row-major
// order.
func Compare(p, q Path) int {
	for i := 0; i < len(p) && i < len(q); i++ {
		if p[i].Relation != q[i].Relation {
			return sign(relationRank(p[i].Relation) - relationRank(q[i].Relation))
		}
		pk := offsetKey(p, i)
		qk := offsetKey(q, i)
		if pk != qk {
			return sign(pk - qk)
		}
	}
	return sign(len(p) - len(q))
}

// offsetKey doubles offsets so that "inside atom k" (2k-1) sorts between
// the carets k-1 (2k-2) and k (2k).
func offsetKey(p Path, i int) int {
	if i == len(p)-1 {
		return 2 * p[i].Offset
	}
	return 2*p[i].Offset - 1
}

func relationRank(r Relation) int {
	if r.IsCell() {
		// Row-major; columns are bounded well below this stride in practice.
		return 1000 + r.Row*1000 + r.Col
	}
	return r.Branch.Rank()
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}
