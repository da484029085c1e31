package skeleton

import (
	"fmt"
	"sort"
)

// ID returns the skeleton identifier.
func (s *Skeleton) ID() string { return s.id }

// Name returns the neuron name, or "" when unset.
func (s *Skeleton) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.name
}

// AddNode inserts n into the skeleton.
//
// The parent must already be present unless n.ParentID == NoParent; build
// skeletons root-first (decoders that accept arbitrary row order are
// responsible for topological insertion).
//
// Returns ErrNodeExists on a duplicate ID and ErrParentNotFound when the
// referenced parent is missing.
// Complexity: O(1) amortized.
func (s *Skeleton) AddNode(n Node) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// 1. Reject duplicates
	if _, ok := s.nodes[n.ID]; ok {
		return fmt.Errorf("%w: %d", ErrNodeExists, n.ID)
	}

	// 2. Validate parent linkage
	if n.ParentID != NoParent {
		if _, ok := s.nodes[n.ParentID]; !ok {
			return fmt.Errorf("%w: node %d references %d", ErrParentNotFound, n.ID, n.ParentID)
		}
	}

	// 3. Register node, adjacency bucket and root bookkeeping
	stored := n
	s.nodes[n.ID] = &stored
	if _, ok := s.children[n.ID]; !ok {
		s.children[n.ID] = make(map[int64]struct{})
	}
	if n.ParentID == NoParent {
		s.roots[n.ID] = struct{}{}
	} else {
		s.children[n.ParentID][n.ID] = struct{}{}
	}

	// 4. Soma auto-tag from the SWC label when none was set explicitly
	if s.soma == 0 && n.Label == SomaLabel {
		s.soma = n.ID
	}

	return nil
}

// AddConnector attaches a synaptic site to an existing node.
func (s *Skeleton) AddConnector(c Connector) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.nodes[c.NodeID]; !ok {
		return fmt.Errorf("%w: connector %d on node %d", ErrNodeNotFound, c.ID, c.NodeID)
	}
	s.connectors = append(s.connectors, c)

	return nil
}

// Node returns the node with the given ID.
func (s *Skeleton) Node(id int64) (Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.nodes[id]
	if !ok {
		return Node{}, fmt.Errorf("%w: %d", ErrNodeNotFound, id)
	}

	return *n, nil
}

// HasNode reports whether the node exists.
func (s *Skeleton) HasNode(id int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.nodes[id]

	return ok
}

// NumNodes returns the node count.
func (s *Skeleton) NumNodes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.nodes)
}

// Nodes returns all nodes sorted by ID ascending.
//
// The stable order makes downstream outputs reproducible.
// Complexity: O(V log V)
func (s *Skeleton) Nodes() []Node {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Node, 0, len(s.nodes))
	for _, n := range s.nodes {
		out = append(out, *n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out
}

// Root returns the single root node ID.
//
// Returns ErrNoNodes on an empty skeleton and ErrFragmented when the
// skeleton has more than one root.
func (s *Skeleton) Root() (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch len(s.roots) {
	case 0:
		return 0, ErrNoNodes
	case 1:
		for r := range s.roots {
			return r, nil
		}
	}

	return 0, ErrFragmented
}

// Roots returns all fragment roots sorted ascending.
func (s *Skeleton) Roots() []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]int64, 0, len(s.roots))
	for r := range s.roots {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}

// Fragmented reports whether the skeleton has more than one root.
func (s *Skeleton) Fragmented() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.roots) > 1
}

// Soma returns the tagged soma node ID, or ErrNoSoma when untagged or the
// tagged node is no longer present.
func (s *Skeleton) Soma() (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.soma == 0 {
		return 0, ErrNoSoma
	}
	if _, ok := s.nodes[s.soma]; !ok {
		return 0, ErrNoSoma
	}

	return s.soma, nil
}

// SetSoma tags the soma node. The node must exist.
func (s *Skeleton) SetSoma(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.nodes[id]; !ok {
		return fmt.Errorf("%w: %d", ErrNodeNotFound, id)
	}
	s.soma = id

	return nil
}

// Children returns the direct child IDs of a node, sorted ascending.
func (s *Skeleton) Children(id int64) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.nodes[id]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrNodeNotFound, id)
	}
	out := make([]int64, 0, len(s.children[id]))
	for c := range s.children[id] {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out, nil
}

// Connectors returns a copy of all synaptic sites.
func (s *Skeleton) Connectors() []Connector {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Connector, len(s.connectors))
	copy(out, s.connectors)

	return out
}

// Presynapses returns connectors at which the neuron provides output.
func (s *Skeleton) Presynapses() []Connector {
	return s.connectorsByRelation(Presynaptic)
}

// Postsynapses returns connectors at which the neuron receives input.
func (s *Skeleton) Postsynapses() []Connector {
	return s.connectorsByRelation(Postsynaptic)
}

func (s *Skeleton) connectorsByRelation(rel Relation) []Connector {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Connector, 0, len(s.connectors))
	for _, c := range s.connectors {
		if c.Relation == rel {
			out = append(out, c)
		}
	}

	return out
}
