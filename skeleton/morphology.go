package skeleton

import (
	"fmt"
	"math"
	"sort"
)

// dist returns the Euclidean distance between two nodes in nanometers.
func dist(a, b *Node) float64 {
	dx, dy, dz := a.X-b.X, a.Y-b.Y, a.Z-b.Z

	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Leaves returns the IDs of all nodes with no child, sorted ascending.
//
// End tags are ignored on purpose: a leaf is any node without a child.
// Complexity: O(V log V)
func (s *Skeleton) Leaves() []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]int64, 0)
	for id := range s.nodes {
		if len(s.children[id]) == 0 {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}

// BranchNodes returns the IDs of all nodes with two or more children,
// sorted ascending.
func (s *Skeleton) BranchNodes() []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]int64, 0)
	for id := range s.nodes {
		if len(s.children[id]) >= 2 {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}

// CableLength returns the summed parent-link length of the whole skeleton
// in nanometers. A single-node or empty skeleton has zero cable.
// Complexity: O(V)
func (s *Skeleton) CableLength() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.cableLengthLocked()
}

func (s *Skeleton) cableLengthLocked() float64 {
	var total float64
	for _, n := range s.nodes {
		if n.ParentID == NoParent {
			continue
		}
		if p, ok := s.nodes[n.ParentID]; ok {
			total += dist(n, p)
		}
	}

	return total
}

// PathLength returns the geodesic distance in nanometers between nodes a
// and b along the tree.
//
// Both nodes must exist and share a fragment; otherwise ErrNodeNotFound or
// ErrFragmented is returned.
// Complexity: O(depth)
func (s *Skeleton) PathLength(a, b int64) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.nodes[a]; !ok {
		return 0, fmt.Errorf("%w: %d", ErrNodeNotFound, a)
	}
	if _, ok := s.nodes[b]; !ok {
		return 0, fmt.Errorf("%w: %d", ErrNodeNotFound, b)
	}

	// 1. Accumulate distance from a to every ancestor of a.
	toA := make(map[int64]float64)
	var acc float64
	cur := a
	for {
		toA[cur] = acc
		n := s.nodes[cur]
		if n.ParentID == NoParent {
			break
		}
		p := s.nodes[n.ParentID]
		acc += dist(n, p)
		cur = p.ID
	}

	// 2. Walk b upward until the first common ancestor.
	acc = 0
	cur = b
	for {
		if d, ok := toA[cur]; ok {
			return acc + d, nil
		}
		n := s.nodes[cur]
		if n.ParentID == NoParent {
			// Ran out of ancestors without meeting a's chain.
			return 0, fmt.Errorf("%w: nodes %d and %d", ErrFragmented, a, b)
		}
		p := s.nodes[n.ParentID]
		acc += dist(n, p)
		cur = p.ID
	}
}

// DistalTo returns the set of node IDs strictly downstream of id,
// excluding id itself.
// Complexity: O(subtree)
func (s *Skeleton) DistalTo(id int64) (map[int64]struct{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.nodes[id]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrNodeNotFound, id)
	}

	out := make(map[int64]struct{})
	stack := make([]int64, 0, len(s.children[id]))
	for c := range s.children[id] {
		stack = append(stack, c)
	}
	var cur int64
	for len(stack) > 0 {
		cur, stack = stack[len(stack)-1], stack[:len(stack)-1]
		out[cur] = struct{}{}
		for c := range s.children[cur] {
			stack = append(stack, c)
		}
	}

	return out, nil
}

// LongestNeurite returns the root-to-leaf path with the greatest geodesic
// length, ordered root first, together with that length in nanometers.
//
// On a fragmented skeleton the search starts from every fragment root and
// the overall longest path wins. Ties resolve to the lower leaf ID.
// Complexity: O(V)
func (s *Skeleton) LongestNeurite() ([]int64, float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.nodes) == 0 {
		return nil, 0, ErrNoNodes
	}

	// 1. Depth-first accumulation of geodesic distance from each root.
	distTo := make(map[int64]float64, len(s.nodes))
	bestLeaf := int64(0)
	bestDist := math.Inf(-1)
	roots := make([]int64, 0, len(s.roots))
	for r := range s.roots {
		roots = append(roots, r)
	}
	sort.Slice(roots, func(i, j int) bool { return roots[i] < roots[j] })

	var stack []int64
	for _, r := range roots {
		distTo[r] = 0
		stack = append(stack[:0], r)
		var cur int64
		for len(stack) > 0 {
			cur, stack = stack[len(stack)-1], stack[:len(stack)-1]
			n := s.nodes[cur]
			if len(s.children[cur]) == 0 {
				if distTo[cur] > bestDist || (distTo[cur] == bestDist && cur < bestLeaf) {
					bestDist, bestLeaf = distTo[cur], cur
				}
				continue
			}
			for c := range s.children[cur] {
				distTo[c] = distTo[cur] + dist(s.nodes[c], n)
				stack = append(stack, c)
			}
		}
	}

	// 2. Reconstruct the winning path by walking the leaf back to its root.
	path := []int64{bestLeaf}
	for s.nodes[path[len(path)-1]].ParentID != NoParent {
		path = append(path, s.nodes[path[len(path)-1]].ParentID)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	return path, bestDist, nil
}

// Strahler returns the Strahler stream order of every node.
//
// Leaves have order 1; a node whose children share a maximum order k has
// order k when exactly one child attains it, and k+1 otherwise.
// Complexity: O(V)
func (s *Skeleton) Strahler() map[int64]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order := make(map[int64]int, len(s.nodes))

	// Iterative post-order over every fragment.
	type frame struct {
		id       int64
		expanded bool
	}
	var stack []frame
	for r := range s.roots {
		stack = append(stack, frame{id: r})
		for len(stack) > 0 {
			f := stack[len(stack)-1]
			if !f.expanded {
				stack[len(stack)-1].expanded = true
				for c := range s.children[f.id] {
					stack = append(stack, frame{id: c})
				}
				continue
			}
			stack = stack[:len(stack)-1]

			if len(s.children[f.id]) == 0 {
				order[f.id] = 1
				continue
			}
			maxOrder, count := 0, 0
			for c := range s.children[f.id] {
				switch {
				case order[c] > maxOrder:
					maxOrder, count = order[c], 1
				case order[c] == maxOrder:
					count++
				}
			}
			if count > 1 {
				maxOrder++
			}
			order[f.id] = maxOrder
		}
	}

	return order
}

// MaxStrahler returns the highest Strahler order present, or 0 on an
// empty skeleton.
func (s *Skeleton) MaxStrahler() int {
	var top int
	for _, o := range s.Strahler() {
		if o > top {
			top = o
		}
	}

	return top
}
