package skeleton

import (
	"fmt"
	"math"
	"sort"
)

// Reroot makes newRoot the root of its fragment by reversing every parent
// link on the path from newRoot to the current fragment root.
//
// The node and edge multiset is unchanged; only link direction flips.
// Rerooting to the current root is a no-op.
// Complexity: O(depth)
func (s *Skeleton) Reroot(newRoot int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.nodes[newRoot]
	if !ok {
		return fmt.Errorf("%w: %d", ErrNodeNotFound, newRoot)
	}
	if n.ParentID == NoParent {
		return nil
	}

	// 1. Collect the path newRoot → fragment root.
	path := []int64{newRoot}
	for s.nodes[path[len(path)-1]].ParentID != NoParent {
		path = append(path, s.nodes[path[len(path)-1]].ParentID)
	}
	oldRoot := path[len(path)-1]

	// 2. Reverse each link along the path.
	for i := 0; i < len(path)-1; i++ {
		child, parent := path[i], path[i+1]
		delete(s.children[parent], child)
		s.children[child][parent] = struct{}{}
		s.nodes[parent].ParentID = child
	}
	s.nodes[newRoot].ParentID = NoParent

	// 3. Update root bookkeeping.
	delete(s.roots, oldRoot)
	s.roots[newRoot] = struct{}{}

	return nil
}

// RerootToSoma is shorthand for Reroot at the tagged soma.
func (s *Skeleton) RerootToSoma() error {
	soma, err := s.Soma()
	if err != nil {
		return err
	}

	return s.Reroot(soma)
}

// SubsetOptions configures Subset behavior.
type SubsetOptions struct {
	// PreventFragments, when true, keeps only one connected component of
	// the kept node set: the one containing the soma when the soma is
	// kept, otherwise the component whose root sits nearest the source
	// root along the cable.
	PreventFragments bool
}

// Subset returns a new Skeleton restricted to the given node set.
//
// Nodes whose parent is not kept become fragment roots. Connectors on
// kept nodes are carried over; the soma tag is carried when its node is
// kept. An empty or unmatched keep set errors with ErrNoNodes.
// Complexity: O(V log V)
func (s *Skeleton) Subset(keep map[int64]struct{}, opts SubsetOptions) (*Skeleton, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// 1. Materialize kept nodes in ID order; re-link parents.
	ids := make([]int64, 0, len(keep))
	for id := range keep {
		if _, ok := s.nodes[id]; ok {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: subset matched no nodes", ErrNoNodes)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out, err := New(s.id, WithName(s.name))
	if err != nil {
		return nil, err
	}

	// Insert in dependency order: roots of the kept forest first.
	pending := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		pending[id] = struct{}{}
	}
	var insert func(id int64) error
	insert = func(id int64) error {
		if _, waiting := pending[id]; !waiting {
			return nil
		}
		delete(pending, id)
		n := *s.nodes[id]
		if n.ParentID != NoParent {
			if _, kept := keep[n.ParentID]; kept {
				if err = insert(n.ParentID); err != nil {
					return err
				}
			} else {
				n.ParentID = NoParent
			}
		}

		return out.AddNode(n)
	}
	for _, id := range ids {
		if err = insert(id); err != nil {
			return nil, err
		}
	}

	// 2. Carry connectors and the soma tag.
	for _, c := range s.connectors {
		if _, kept := keep[c.NodeID]; kept {
			if err = out.AddConnector(c); err != nil {
				return nil, err
			}
		}
	}
	if s.soma != 0 {
		if _, kept := keep[s.soma]; kept {
			out.soma = s.soma
		}
	}

	// 3. Optionally collapse to a single component. Fragment roots are
	// ranked by their cable distance to the source root, measured while
	// the source lock is still held.
	if opts.PreventFragments && out.Fragmented() {
		rootDist := make(map[int64]float64, len(out.roots))
		for r := range out.roots {
			rootDist[r] = s.rootDistanceLocked(r)
		}

		return out.keepOneFragment(rootDist)
	}

	return out, nil
}

// rootDistanceLocked sums the parent-link lengths from id up to its
// fragment root. Caller holds s.mu.
func (s *Skeleton) rootDistanceLocked(id int64) float64 {
	var d float64
	n := s.nodes[id]
	for n.ParentID != NoParent {
		p := s.nodes[n.ParentID]
		d += dist(n, p)
		n = p
	}

	return d
}

// keepOneFragment returns the fragment containing the soma when tagged,
// otherwise the fragment whose root is nearest the source root per the
// given distances (ties to the lower root ID).
func (s *Skeleton) keepOneFragment(rootDist map[int64]float64) (*Skeleton, error) {
	roots := s.Roots()

	// Pick the winning root.
	winner := roots[0]
	if soma, err := s.Soma(); err == nil {
		winner = s.fragmentRootOf(soma)
	} else {
		best := math.Inf(1)
		for _, r := range roots {
			if d := rootDist[r]; d < best {
				best, winner = d, r
			}
		}
	}

	frag, err := s.fragmentNodes(winner)
	if err != nil {
		return nil, err
	}

	return s.Subset(frag, SubsetOptions{})
}

// fragmentRootOf walks id up to its fragment root.
func (s *Skeleton) fragmentRootOf(id int64) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for s.nodes[id].ParentID != NoParent {
		id = s.nodes[id].ParentID
	}

	return id
}

// fragmentNodes returns root plus everything downstream of it.
func (s *Skeleton) fragmentNodes(root int64) (map[int64]struct{}, error) {
	distal, err := s.DistalTo(root)
	if err != nil {
		return nil, err
	}
	distal[root] = struct{}{}

	return distal, nil
}

// PruneDistalTo returns a new Skeleton with every node strictly downstream
// of cut removed. The cut node itself is kept.
func (s *Skeleton) PruneDistalTo(cut int64) (*Skeleton, error) {
	drop, err := s.DistalTo(cut)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	keep := make(map[int64]struct{}, len(s.nodes)-len(drop))
	for id := range s.nodes {
		if _, gone := drop[id]; !gone {
			keep[id] = struct{}{}
		}
	}
	s.mu.RUnlock()

	return s.Subset(keep, SubsetOptions{})
}

// Clone returns a deep copy of the skeleton.
// Complexity: O(V + C)
func (s *Skeleton) Clone() *Skeleton {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := &Skeleton{
		id:       s.id,
		name:     s.name,
		soma:     s.soma,
		nodes:    make(map[int64]*Node, len(s.nodes)),
		children: make(map[int64]map[int64]struct{}, len(s.children)),
		roots:    make(map[int64]struct{}, len(s.roots)),
	}
	for id, n := range s.nodes {
		cp := *n
		out.nodes[id] = &cp
	}
	for id, kids := range s.children {
		bucket := make(map[int64]struct{}, len(kids))
		for c := range kids {
			bucket[c] = struct{}{}
		}
		out.children[id] = bucket
	}
	for r := range s.roots {
		out.roots[r] = struct{}{}
	}
	out.connectors = make([]Connector, len(s.connectors))
	copy(out.connectors, s.connectors)

	return out
}
