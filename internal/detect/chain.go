package detect

import "github.com/crewline/pulse/internal/model"

// longestChain returns the length of the longest transitive prerequisite
// chain starting at root, counting root itself. The traversal is an
// explicit iterative depth-first walk: cycles are broken by skipping
// nodes already on the current path, and a memoized max-depth per task
// keeps diamond-shaped graphs from being recomputed. Depths computed
// while a cycle edge was skipped are valid only for the current root
// (they depend on where the walk entered the cycle), so those frames
// are never cached; cycle members get recomputed per root and every
// root sees the same depth regardless of task order.
func longestChain(tasks map[string]*model.Task, root string, memo map[string]int) int {
	if d, ok := memo[root]; ok {
		return d
	}

	type frame struct {
		id      string
		deps    []string
		next    int
		best    int
		tainted bool
	}

	onPath := map[string]struct{}{root: {}}
	stack := []*frame{{id: root, deps: tasks[root].DependsOn}}
	depth := 0

	for len(stack) > 0 {
		f := stack[len(stack)-1]

		if f.next < len(f.deps) {
			depID := f.deps[f.next]
			f.next++

			dep, ok := tasks[depID]
			if !ok {
				// Prerequisite outside the fetched task set.
				continue
			}
			if d, ok := memo[depID]; ok {
				if d > f.best {
					f.best = d
				}
				continue
			}
			if _, cycle := onPath[depID]; cycle {
				f.tainted = true
				continue
			}
			onPath[depID] = struct{}{}
			stack = append(stack, &frame{id: depID, deps: dep.DependsOn})
			continue
		}

		depth = f.best + 1
		if !f.tainted {
			memo[f.id] = depth
		}
		delete(onPath, f.id)
		stack = stack[:len(stack)-1]

		if len(stack) > 0 {
			parent := stack[len(stack)-1]
			if depth > parent.best {
				parent.best = depth
			}
			if f.tainted {
				parent.tainted = true
			}
		}
	}

	return depth
}
