package analysis

import "errors"

var (
	// ErrInvalidNetwork reports an empty node set, a missing FIXED anchor,
	// or a network with no usable R/C elements.
	ErrInvalidNetwork = errors.New("analysis: invalid network")

	// ErrMissingBoundaryValue reports a FIXED or SOURCE node whose externally
	// given voltage or current was not supplied.
	ErrMissingBoundaryValue = errors.New("analysis: boundary node is missing its given value")

	// ErrUnknownNode reports a referenced node ID absent from the network.
	ErrUnknownNode = errors.New("analysis: node not found in network")

	// ErrRoleMismatch reports a boundary map entry naming a node of the wrong role.
	ErrRoleMismatch = errors.New("analysis: node role does not match boundary map")

	// ErrInconsistentRoots reports FIXED nodes with unequal voltages handed to
	// the tree solver, which can only represent a single root potential.
	ErrInconsistentRoots = errors.New("analysis: fixed nodes carry different voltages")

	// ErrSolveFailed reports a singular factorization or iterative non-convergence.
	ErrSolveFailed = errors.New("analysis: linear solve failed")
)
