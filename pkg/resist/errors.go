package resist

import "errors"

var (
	// ErrInvalidNetwork reports a net with no usable resistor elements.
	ErrInvalidNetwork = errors.New("resist: invalid network")

	// ErrUnknownNode reports a query terminal absent from the network.
	ErrUnknownNode = errors.New("resist: node not found in network")

	// ErrDisconnected reports a network whose resistor graph is not fully
	// connected, leaving general two-terminal queries ill-defined.
	ErrDisconnected = errors.New("resist: network is not connected")

	// ErrNoPath reports two terminals with no resistive path between them.
	ErrNoPath = errors.New("resist: no path between nodes")

	// ErrSolveFailed reports a singular factorization or iterative non-convergence.
	ErrSolveFailed = errors.New("resist: linear solve failed")
)
