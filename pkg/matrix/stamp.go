package matrix

// Reference marks the eliminated reference node in StampConductance calls.
// The reference's own equation is never formed.
const Reference = -1

// StampConductance applies the standard two-terminal conductance stamp for
// an edge between reduced node indices ia and ib. When both endpoints are
// non-reference it adds +g to both diagonals and -g to both off-diagonals.
// When exactly one endpoint is the reference, only the other endpoint's
// diagonal receives +g and the known term g*vRef moves across to that
// row's right-hand side. A nil rhs skips the rhs contribution (used when
// the reference sits at 0 V, as in two-terminal resistance queries).
func StampConductance(b *Builder, rhs []float64, ia, ib int, g, vRef float64) {
	switch {
	case ia != Reference && ib != Reference:
		b.Add(ia, ia, g)
		b.Add(ib, ib, g)
		b.Add(ia, ib, -g)
		b.Add(ib, ia, -g)
	case ia != Reference:
		b.Add(ia, ia, g)
		if rhs != nil {
			rhs[ia] += g * vRef
		}
	case ib != Reference:
		b.Add(ib, ib, g)
		if rhs != nil {
			rhs[ib] += g * vRef
		}
	}
}
