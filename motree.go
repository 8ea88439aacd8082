package sqrtdec

import (
	"fmt"
	"sort"
)

// NodeQuery names two tree nodes; the answer aggregates over every
// node on the path between them, endpoints included.
type NodeQuery struct {
	U, V int
	ID   int
}

// Tree is a rooted tree prepared for path queries: an Euler tour
// recording each node at both entry and exit reduces any path to a
// contiguous tour range, and a binary-lifting table answers lowest
// common ancestors in O(log n).
type Tree struct {
	n     int
	root  int
	in    []int
	out   []int
	tour  []int // node at each of the 2n tour positions
	depth []int
	up    [][]int // up[k][v] = 2^k-th ancestor of v
}

// NewTree builds the tour and ancestor table from an undirected edge
// list, which must connect all n nodes without cycles.
func NewTree(n int, edges [][2]int, root int) (*Tree, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: tree must have at least one node", ErrInvalidInput)
	}
	if root < 0 || root >= n {
		return nil, fmt.Errorf("%w: root %d outside [0, %d)", ErrOutOfBounds, root, n)
	}
	if len(edges) != n-1 {
		return nil, fmt.Errorf("%w: %d nodes need %d edges, got %d", ErrInvalidInput, n, n-1, len(edges))
	}

	adj := make([][]int, n)
	for _, e := range edges {
		u, v := e[0], e[1]
		if u < 0 || u >= n || v < 0 || v >= n {
			return nil, fmt.Errorf("%w: edge (%d, %d) outside [0, %d)", ErrOutOfBounds, u, v, n)
		}
		adj[u] = append(adj[u], v)
		adj[v] = append(adj[v], u)
	}

	levels := 1
	for 1<<levels < n {
		levels++
	}

	t := &Tree{
		n:     n,
		root:  root,
		in:    make([]int, n),
		out:   make([]int, n),
		tour:  make([]int, 0, 2*n),
		depth: make([]int, n),
		up:    make([][]int, levels),
	}
	parent := make([]int, n)
	for i := range parent {
		parent[i] = -1
	}

	// iterative DFS; a node is pushed twice, once to enter and once
	// to leave
	type frame struct {
		node int
		exit bool
	}
	visited := make([]bool, n)
	stack := []frame{{node: root}}
	visited[root] = true
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.exit {
			t.out[f.node] = len(t.tour)
			t.tour = append(t.tour, f.node)
			continue
		}
		t.in[f.node] = len(t.tour)
		t.tour = append(t.tour, f.node)
		stack = append(stack, frame{node: f.node, exit: true})
		for _, next := range adj[f.node] {
			if visited[next] {
				continue
			}
			visited[next] = true
			parent[next] = f.node
			t.depth[next] = t.depth[f.node] + 1
			stack = append(stack, frame{node: next})
		}
	}
	for _, ok := range visited {
		if !ok {
			return nil, fmt.Errorf("%w: edges do not form a connected tree", ErrInvalidInput)
		}
	}

	t.up[0] = make([]int, n)
	for v := 0; v < n; v++ {
		if parent[v] == -1 {
			t.up[0][v] = v
		} else {
			t.up[0][v] = parent[v]
		}
	}
	for k := 1; k < levels; k++ {
		t.up[k] = make([]int, n)
		for v := 0; v < n; v++ {
			t.up[k][v] = t.up[k-1][t.up[k-1][v]]
		}
	}
	return t, nil
}

// Len returns the node count.
func (t *Tree) Len() int {
	return t.n
}

// LCA returns the lowest common ancestor of u and v.
func (t *Tree) LCA(u, v int) int {
	if t.depth[u] < t.depth[v] {
		u, v = v, u
	}
	diff := t.depth[u] - t.depth[v]
	for k := 0; diff > 0; k++ {
		if diff&1 == 1 {
			u = t.up[k][u]
		}
		diff >>= 1
	}
	if u == v {
		return u
	}
	for k := len(t.up) - 1; k >= 0; k-- {
		if t.up[k][u] != t.up[k][v] {
			u = t.up[k][u]
			v = t.up[k][v]
		}
	}
	return t.up[0][u]
}

// RunTreeBatch answers a batch of tree-path queries by reducing each
// one to a range over the Euler tour, then replaying them with the
// offline window engine. Values and aggregate indices are node ids.
//
// A node whose entry and exit both fall inside the window cancels
// out; the window tracks per-node parity and only nodes present an
// odd number of times contribute to the aggregate. When the lowest
// common ancestor of a pair is neither endpoint it lies outside the
// reduced range and is toggled in just for that query's answer.
func RunTreeBatch(tree *Tree, values []float64, factory func() WindowAggregate, queries []NodeQuery) ([]float64, error) {
	if tree == nil {
		return nil, fmt.Errorf("%w: nil tree", ErrInvalidInput)
	}
	if factory == nil {
		return nil, fmt.Errorf("%w: nil aggregate factory", ErrInvalidInput)
	}
	if len(values) != tree.n {
		return nil, fmt.Errorf("%w: %d values for %d nodes", ErrInvalidInput, len(values), tree.n)
	}
	if len(queries) == 0 {
		return []float64{}, nil
	}

	type tourQuery struct {
		l, r int
		lca  int // -1 when one endpoint is the ancestor of the other
		id   int
	}
	seen := make([]bool, len(queries))
	reduced := make([]tourQuery, 0, len(queries))
	for _, q := range queries {
		if q.U < 0 || q.U >= tree.n || q.V < 0 || q.V >= tree.n {
			return nil, fmt.Errorf("%w: node pair (%d, %d) outside [0, %d)", ErrOutOfBounds, q.U, q.V, tree.n)
		}
		if q.ID < 0 || q.ID >= len(queries) || seen[q.ID] {
			return nil, fmt.Errorf("%w: query ids must be distinct and dense in [0, %d)", ErrInvalidInput, len(queries))
		}
		seen[q.ID] = true

		u, v := q.U, q.V
		if tree.in[u] > tree.in[v] {
			u, v = v, u
		}
		if a := tree.LCA(u, v); a == u {
			reduced = append(reduced, tourQuery{l: tree.in[u], r: tree.in[v], lca: -1, id: q.ID})
		} else {
			reduced = append(reduced, tourQuery{l: tree.out[u], r: tree.in[v], lca: a, id: q.ID})
		}
	}

	c := defaultBlockSize(len(tree.tour))
	sort.SliceStable(reduced, func(i, j int) bool {
		bi, bj := reduced[i].l/c, reduced[j].l/c
		if bi != bj {
			return bi < bj
		}
		if reduced[i].r != reduced[j].r {
			return reduced[i].r < reduced[j].r
		}
		return reduced[i].id < reduced[j].id
	})

	agg := factory()
	if agg == nil {
		return nil, fmt.Errorf("%w: aggregate factory returned nil", ErrInvalidInput)
	}
	inWindow := make([]bool, tree.n)
	toggle := func(pos int) {
		node := tree.tour[pos]
		if inWindow[node] {
			inWindow[node] = false
			agg.Shrink(node)
		} else {
			inWindow[node] = true
			agg.Extend(node)
		}
	}

	answers := make([]float64, len(queries))
	l, r := 0, -1
	for _, q := range reduced {
		for r < q.r {
			r++
			toggle(r)
		}
		for l > q.l {
			l--
			toggle(l)
		}
		for r > q.r {
			toggle(r)
			r--
		}
		for l < q.l {
			toggle(l)
			l++
		}
		if q.lca >= 0 {
			agg.Extend(q.lca)
			answers[q.id] = agg.Value()
			agg.Shrink(q.lca)
		} else {
			answers[q.id] = agg.Value()
		}
	}
	return answers, nil
}
