package spantree

import (
	"errors"
	"fmt"

	mazeerrors "github.com/matzehuels/tiltmaze/pkg/errors"
	"github.com/matzehuels/tiltmaze/pkg/maze/grid"
)

// ErrDisconnected indicates that the input graph was not connected, so no
// spanning tree exists. Match with errors.Is.
var ErrDisconnected = errors.New("graph is disconnected")

// DisconnectedError reports a spanning forest with fewer than V-1 edges.
// It wraps [ErrDisconnected] and carries [mazeerrors.ErrCodeDisconnectedGraph].
type DisconnectedError struct {
	Accepted   int // edges accepted into the forest
	Expected   int // V-1
	Components int // connected components in the input
}

func (e *DisconnectedError) Error() string {
	return fmt.Sprintf("spanning tree: %v: accepted %d of %d edges (%d components)",
		ErrDisconnected, e.Accepted, e.Expected, e.Components)
}

// Unwrap returns ErrDisconnected.
func (e *DisconnectedError) Unwrap() error { return ErrDisconnected }

// Code returns the structured error code.
func (e *DisconnectedError) Code() mazeerrors.Code { return mazeerrors.ErrCodeDisconnectedGraph }

// InvalidEdgeError reports a stored corridor that cannot belong to a spanning
// tree of the grid: either its endpoints are not adjacent or it closes a cycle.
type InvalidEdgeError struct {
	Edge  grid.Edge
	Cycle bool
}

func (e *InvalidEdgeError) Error() string {
	if e.Cycle {
		return fmt.Sprintf("spanning tree: edge %s closes a cycle", e.Edge)
	}
	return fmt.Sprintf("spanning tree: edge %s joins non-adjacent cells", e.Edge)
}

// Code returns the structured error code.
func (e *InvalidEdgeError) Code() mazeerrors.Code { return mazeerrors.ErrCodeInvalidLevel }
