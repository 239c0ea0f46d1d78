// Package netmodel holds the read-only network view consumed by the solvers:
// nodes with boundary roles and two-terminal RC elements grouped into nets.
// Netlist ingestion fills these structures; the solvers never mutate them.
package netmodel

import "sort"

// NodeRole classifies a node's boundary condition.
type NodeRole int

const (
	RoleFree   NodeRole = iota // unconstrained, voltage is solved
	RoleFixed                  // externally given voltage (P marker)
	RoleSource                 // externally given injected current (I marker)
)

func (r NodeRole) String() string {
	switch r {
	case RoleFixed:
		return "FIXED"
	case RoleSource:
		return "SOURCE"
	default:
		return "FREE"
	}
}

// ElementKind classifies a two-terminal element. Kinds other than resistor
// and capacitor are carried through but ignored by every solver.
type ElementKind int

const (
	KindOther ElementKind = iota
	KindResistor
	KindCapacitor
)

func (k ElementKind) String() string {
	switch k {
	case KindResistor:
		return "R"
	case KindCapacitor:
		return "C"
	default:
		return "OTHER"
	}
}

type Node struct {
	ID   string
	Role NodeRole
}

// Element is an undirected two-terminal element. Value is ohms for
// resistors and farads for capacitors.
type Element struct {
	ID    string
	NodeA string
	NodeB string
	Kind  ElementKind
	Value float64
}

// Net is one independent sub-network: its nodes and elements.
type Net struct {
	ID   string
	Name string

	nodes    map[string]*Node
	elements map[string]*Element
	order    []string // element insertion order
}

func NewNet(id, name string) *Net {
	return &Net{
		ID:       id,
		Name:     name,
		nodes:    make(map[string]*Node),
		elements: make(map[string]*Element),
	}
}

func (n *Net) AddNode(node *Node) {
	n.nodes[node.ID] = node
}

func (n *Net) AddElement(elem *Element) {
	if _, exists := n.elements[elem.ID]; !exists {
		n.order = append(n.order, elem.ID)
	}
	n.elements[elem.ID] = elem
}

func (n *Net) Node(id string) *Node {
	return n.nodes[id]
}

// Nodes returns all nodes sorted by ID so that every derived indexing is
// reproducible across runs.
func (n *Net) Nodes() []*Node {
	ids := make([]string, 0, len(n.nodes))
	for id := range n.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	nodes := make([]*Node, len(ids))
	for i, id := range ids {
		nodes[i] = n.nodes[id]
	}
	return nodes
}

// Elements returns elements in insertion order.
func (n *Net) Elements() []*Element {
	elems := make([]*Element, len(n.order))
	for i, id := range n.order {
		elems[i] = n.elements[id]
	}
	return elems
}

func (n *Net) Element(id string) *Element {
	return n.elements[id]
}

func (n *Net) NumNodes() int { return len(n.nodes) }

func (n *Net) NumElements() int { return len(n.elements) }
