package types

// ClosureEdge records one reachability fact: Ancestor reaches Descendant
// in Depth parent-steps. Depth 0 is the self-edge every live node has.
// At most one edge exists per (ancestor, descendant) pair.
type ClosureEdge struct {
	AncestorID   string `json:"ancestor_id"`
	DescendantID string `json:"descendant_id"`
	Depth        int    `json:"depth"`
}

// DepthRange bounds ancestor and descendant queries by path length.
// Min below zero is treated as zero. Max of zero or less means unbounded.
type DepthRange struct {
	Min int
	Max int
}

// Proper is the default range for ancestor and descendant queries:
// depth 1 and up, excluding the node itself.
var Proper = DepthRange{Min: 1}

// Whole includes the node itself (depth 0 and up). Subtree queries use it.
var Whole = DepthRange{Min: 0}

// Immediate selects only direct parent or child edges.
var Immediate = DepthRange{Min: 1, Max: 1}
