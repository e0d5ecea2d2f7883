// Package wbs rebuilds the work breakdown structure from flat records and
// derives the views and codes the pricing screens work with. Everything here
// is pure: callers own the flat record arena and treat the nested tree as a
// disposable index rebuilt after every mutation.
package wbs

import "github.com/adidayastudio/from-adidaya-sub005/internal/domain"

// Build converts flat records into a forest. Every record appears exactly
// once. A record is promoted to the root list when its parent reference is
// absent, does not resolve within records, points to itself, or belongs to
// a cycle. Sibling order follows input order.
//
// Records are not mutated: the returned nodes are clones with Children and
// Depth populated.
func Build(records []*domain.WBSNode) []*domain.WBSNode {
	byID := make(map[string]*domain.WBSNode, len(records))
	clones := make([]*domain.WBSNode, 0, len(records))
	for _, r := range records {
		if r == nil {
			continue
		}
		if _, dup := byID[r.ID]; dup {
			continue
		}
		c := r.Clone()
		byID[c.ID] = c
		clones = append(clones, c)
	}

	onCycle := markCycles(clones, byID)

	var roots []*domain.WBSNode
	for _, n := range clones {
		parent := parentOf(n, byID)
		if parent == nil || onCycle[n] {
			roots = append(roots, n)
			continue
		}
		parent.Children = append(parent.Children, n)
	}

	for _, r := range roots {
		assignDepth(r, 0)
	}
	return roots
}

// parentOf returns the node referenced by n.ParentID, or nil when the
// reference is absent or does not resolve. A self reference is returned as
// is and shows up as a cycle of one.
func parentOf(n *domain.WBSNode, byID map[string]*domain.WBSNode) *domain.WBSNode {
	if n.IsRoot() {
		return nil
	}
	return byID[*n.ParentID]
}

// markCycles returns the nodes that sit on a parent cycle. Each node is
// visited once: a walk up the parent chain stops at the first node already
// done, and reaching a node still on the current path closes a cycle.
func markCycles(nodes []*domain.WBSNode, byID map[string]*domain.WBSNode) map[*domain.WBSNode]bool {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[*domain.WBSNode]int, len(nodes))
	onCycle := make(map[*domain.WBSNode]bool)
	pos := make(map[*domain.WBSNode]int)
	var path []*domain.WBSNode

	for _, start := range nodes {
		if state[start] != unvisited {
			continue
		}
		path = path[:0]
		cur := start
		for cur != nil && state[cur] == unvisited {
			state[cur] = visiting
			pos[cur] = len(path)
			path = append(path, cur)
			cur = parentOf(cur, byID)
		}
		if cur != nil && state[cur] == visiting {
			for _, n := range path[pos[cur]:] {
				onCycle[n] = true
			}
		}
		for _, n := range path {
			state[n] = done
		}
	}
	return onCycle
}

func assignDepth(n *domain.WBSNode, depth int) {
	n.Depth = depth
	for _, c := range n.Children {
		assignDepth(c, depth+1)
	}
}

// Flatten returns a pre-order traversal of roots: each parent is
// immediately followed by its subtree. Depth is set from the recursion depth.
func Flatten(roots []*domain.WBSNode) []*domain.WBSNode {
	var out []*domain.WBSNode
	var walk func(nodes []*domain.WBSNode, depth int)
	walk = func(nodes []*domain.WBSNode, depth int) {
		for _, n := range nodes {
			n.Depth = depth
			out = append(out, n)
			walk(n.Children, depth+1)
		}
	}
	walk(roots, 0)
	return out
}

// Index returns an id→node lookup over nodes.
func Index(nodes []*domain.WBSNode) map[string]*domain.WBSNode {
	idx := make(map[string]*domain.WBSNode, len(nodes))
	for _, n := range nodes {
		idx[n.ID] = n
	}
	return idx
}

// RootCodes returns the codes of the depth-0 nodes in order.
func RootCodes(roots []*domain.WBSNode) []string {
	codes := make([]string, 0, len(roots))
	for _, r := range roots {
		codes = append(codes, r.Code)
	}
	return codes
}

// Descendants returns the ids of every node below id in the flat arena,
// not including id itself.
func Descendants(records []*domain.WBSNode, id string) []string {
	children := make(map[string][]string, len(records))
	for _, r := range records {
		if r.IsRoot() {
			continue
		}
		children[*r.ParentID] = append(children[*r.ParentID], r.ID)
	}
	var out []string
	seen := map[string]bool{id: true}
	queue := append([]string(nil), children[id]...)
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if seen[cur] {
			continue
		}
		seen[cur] = true
		out = append(out, cur)
		queue = append(queue, children[cur]...)
	}
	return out
}
