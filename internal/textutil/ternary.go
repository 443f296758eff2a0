package textutil

// Ternary returns ifTrue when cond holds and ifFalse otherwise.
func Ternary[T any](cond bool, ifTrue, ifFalse T) T {
	if cond {
		return ifTrue
	}
	return ifFalse
}
