package fulano

// Fib is the naive, recursive fibonacci implementation.
func Fib(n int64) int64 {
	if n < 2 {
		return 1
	}
	return Fib(n-1) + Fib(n-2)
}

// Fab is the iterative fibonacci implementation. It agrees with Fib on
// every input.
func Fab(n int64) int64 {
	p, c := int64(0), int64(1)
	for ; n > 0; n-- {
		p, c = c, c+p
	}
	return c
}
