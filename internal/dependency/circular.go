package dependency

import (
	"context"

	mapset "github.com/deckarep/golang-set/v2"
)

// willCauseCircularDep reports whether adding an edge from dependant to
// dependency would introduce a cycle among the resolved edges. It walks
// outgoing edges breadth first starting from the candidate dependency,
// following both the dependency and the implicit via edge of every row,
// and reports true when the walk reaches the dependant. Pure read; safe to
// call before anything is persisted.
func (h *Handler) willCauseCircularDep(ctx context.Context, dependantID, dependencyID string) (bool, error) {
	if dependantID == dependencyID {
		return true, nil
	}

	// The walk can visit each field at most once, so the live field count
	// bounds it even if the stored graph is malformed.
	limit, err := h.store.CountFields(ctx)
	if err != nil {
		return false, err
	}

	visited := mapset.NewSet[string]()
	visited.Add(dependencyID)
	frontier := []string{dependencyID}

	for len(frontier) > 0 && int64(visited.Cardinality()) <= limit {
		edges, err := h.store.ListResolvedDependenciesOf(ctx, frontier)
		if err != nil {
			return false, err
		}

		var next []string
		for _, edge := range edges {
			targets := []string{*edge.DependencyID}
			if edge.ViaID != nil {
				targets = append(targets, *edge.ViaID)
			}
			for _, target := range targets {
				if target == dependantID {
					return true, nil
				}
				if visited.Add(target) {
					next = append(next, target)
				}
			}
		}
		frontier = next
	}

	return false, nil
}
