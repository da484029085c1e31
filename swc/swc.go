// Package swc reads and writes SWC morphology files, the plain-text
// interchange format for neuron reconstructions: one node per line,
// seven whitespace-separated fields (id, label, x, y, z, radius, parent),
// '#' comment lines, parent -1 for the root.
//
// Decode tolerates rows in any order (children may precede parents) and
// tags the soma from label 1.
//
// Errors:
//
//	ErrBadLine       - a row does not have seven fields or fails to parse.
//	ErrDuplicateNode - two rows share a node ID.
//	ErrOrphanNode    - a row references a parent that never appears.
//	ErrEmptyFile     - no data rows at all.
package swc

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/NikDrummond/pntools/skeleton"
)

// Sentinel errors for SWC decoding.
var (
	// ErrBadLine indicates a malformed data row.
	ErrBadLine = errors.New("swc: malformed line")

	// ErrDuplicateNode indicates two rows share a node ID.
	ErrDuplicateNode = errors.New("swc: duplicate node ID")

	// ErrOrphanNode indicates a row references a parent that never appears.
	ErrOrphanNode = errors.New("swc: parent never defined")

	// ErrEmptyFile indicates no data rows were found.
	ErrEmptyFile = errors.New("swc: no data rows")
)

// Decode parses an SWC stream into a Skeleton with the given ID.
// Complexity: O(V log V)
func Decode(r io.Reader, id string) (*skeleton.Skeleton, error) {
	s, err := skeleton.New(id)
	if err != nil {
		return nil, err
	}

	// 1. Parse every row.
	rows := make(map[int64]skeleton.Node)
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		n, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("%w (line %d)", err, lineNo)
		}
		if _, seen := rows[n.ID]; seen {
			return nil, fmt.Errorf("%w: %d (line %d)", ErrDuplicateNode, n.ID, lineNo)
		}
		rows[n.ID] = n
	}
	if err = scanner.Err(); err != nil {
		return nil, fmt.Errorf("swc: read: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}

	// 2. Insert parents-first regardless of row order.
	kids := make(map[int64][]int64, len(rows))
	var roots []int64
	for _, n := range rows {
		if n.ParentID == skeleton.NoParent {
			roots = append(roots, n.ID)
			continue
		}
		if _, ok := rows[n.ParentID]; !ok {
			return nil, fmt.Errorf("%w: node %d references %d", ErrOrphanNode, n.ID, n.ParentID)
		}
		kids[n.ParentID] = append(kids[n.ParentID], n.ID)
	}
	sort.Slice(roots, func(i, j int) bool { return roots[i] < roots[j] })

	stack := make([]int64, 0, len(rows))
	stack = append(stack, roots...)
	var cur int64
	for len(stack) > 0 {
		cur, stack = stack[len(stack)-1], stack[:len(stack)-1]
		if err = s.AddNode(rows[cur]); err != nil {
			return nil, err
		}
		stack = append(stack, kids[cur]...)
	}
	if s.NumNodes() != len(rows) {
		// Rows unreachable from any root form a parent cycle.
		return nil, fmt.Errorf("%w: %d rows unreachable from a root", ErrOrphanNode, len(rows)-s.NumNodes())
	}

	return s, nil
}

// parseLine parses one SWC data row.
func parseLine(line string) (skeleton.Node, error) {
	fields := strings.Fields(line)
	if len(fields) != 7 {
		return skeleton.Node{}, fmt.Errorf("%w: want 7 fields, got %d", ErrBadLine, len(fields))
	}

	id, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return skeleton.Node{}, fmt.Errorf("%w: id %q", ErrBadLine, fields[0])
	}
	label, err := strconv.Atoi(fields[1])
	if err != nil {
		return skeleton.Node{}, fmt.Errorf("%w: label %q", ErrBadLine, fields[1])
	}
	var coords [4]float64
	for i := 0; i < 4; i++ {
		coords[i], err = strconv.ParseFloat(fields[2+i], 64)
		if err != nil {
			return skeleton.Node{}, fmt.Errorf("%w: field %q", ErrBadLine, fields[2+i])
		}
	}
	parent, err := strconv.ParseInt(fields[6], 10, 64)
	if err != nil {
		return skeleton.Node{}, fmt.Errorf("%w: parent %q", ErrBadLine, fields[6])
	}
	if parent < 0 {
		parent = skeleton.NoParent
	}

	return skeleton.Node{
		ID:       id,
		ParentID: parent,
		X:        coords[0],
		Y:        coords[1],
		Z:        coords[2],
		Radius:   coords[3],
		Label:    label,
	}, nil
}

// Encode writes the skeleton as SWC, nodes sorted by ID.
func Encode(w io.Writer, s *skeleton.Skeleton) error {
	if s == nil || s.NumNodes() == 0 {
		return ErrEmptyFile
	}

	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "# skeleton %s\n# id label x y z radius parent\n", s.ID()); err != nil {
		return fmt.Errorf("swc: write: %w", err)
	}
	for _, n := range s.Nodes() {
		parent := n.ParentID
		if parent == skeleton.NoParent {
			parent = -1
		}
		if _, err := fmt.Fprintf(bw, "%d %d %g %g %g %g %d\n",
			n.ID, n.Label, n.X, n.Y, n.Z, n.Radius, parent); err != nil {
			return fmt.Errorf("swc: write: %w", err)
		}
	}

	return bw.Flush()
}
