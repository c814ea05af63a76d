package common

// IsEmpty returns true if the slice is empty.
func IsEmpty[S ~[]E, E any](s S) bool {
	return len(s) == 0
}

// IsMultiple returns true if the slice has more than one element.
func IsMultiple[S ~[]E, E any](s S) bool {
	return len(s) > 1
}

// Last returns the last element and true, or the zero value and false if empty.
func Last[S ~[]E, E any](s S) (E, bool) {
	if len(s) == 0 {
		var zero E
		return zero, false
	}

	return s[len(s)-1], true
}

// FirstNonNil returns the first non-nil pointer, or nil.
func FirstNonNil[S ~[]*E, E any](s S) *E {
	for _, e := range s {
		if e != nil {
			return e
		}
	}

	return nil
}
