package kinfit

// MichaelisMenten returns the reaction velocity at substrate concentration s:
//
//	v(S) = Vmax·S / (Km + S)
//
// The function is monotone non-decreasing in s for s ≥ 0 (when vmax, km > 0),
// equals vmax/2 exactly at s = km, and approaches vmax as s → ∞.
//
// It is a pure function; it performs no validation. Passing km = -s divides
// by zero and yields ±Inf, which is the honest answer for a model evaluated
// at its pole.
func MichaelisMenten(s, vmax, km float64) float64 {
	return vmax * s / (km + s)
}
