// ABOUTME: BFS search from GC roots to a target object
// ABOUTME: Produces a reference chain explaining why an object is alive

package heap

// FindPath searches the object graph from the given roots and returns one
// shortest root→…→target reference chain, or nil if the target is not
// reachable. children supplies the outgoing edges of an address; cycles in
// the graph are handled by visited tracking.
func FindPath(roots []Addr, children func(Addr) []Addr, target Addr) []Addr {
	if target == 0 {
		return nil
	}

	// parent maps each visited address to its predecessor; roots map to 0.
	parent := make(map[Addr]Addr)
	var queue []Addr

	for _, root := range roots {
		if root == 0 {
			continue
		}
		if _, seen := parent[root]; seen {
			continue
		}
		parent[root] = 0
		if root == target {
			return buildPath(parent, target)
		}
		queue = append(queue, root)
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for _, child := range children(cur) {
			if _, seen := parent[child]; seen {
				continue
			}
			parent[child] = cur
			if child == target {
				return buildPath(parent, target)
			}
			queue = append(queue, child)
		}
	}

	return nil
}

// buildPath walks parent links from target back to a root and reverses.
func buildPath(parent map[Addr]Addr, target Addr) []Addr {
	var reversed []Addr
	for addr := target; addr != 0; addr = parent[addr] {
		reversed = append(reversed, addr)
	}
	path := make([]Addr, len(reversed))
	for i, addr := range reversed {
		path[len(reversed)-1-i] = addr
	}
	return path
}
