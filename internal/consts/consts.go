package consts

const (
	DefaultAbsTol  = 1e-10 // absolute residual tolerance for iterative solvers
	DefaultMaxIter = 1000  // iteration cap for iterative solvers
)
