package domain

// Float64Ptr returns a pointer to v. Schedule cells use nil for "not set".
func Float64Ptr(v float64) *float64 {
	return &v
}

// Float64FromPtrWithDefault returns the first non-nil value, or fallback.
func Float64FromPtrWithDefault(fallback float64, ptrs ...*float64) float64 {
	for _, p := range ptrs {
		if p != nil {
			return *p
		}
	}
	return fallback
}
