package octilinearizer

import (
	"math/rand"
	"sort"

	"github.com/lolpro11-org/loom/combgraph"
)

// getOrdering computes a randomized BFS-like edge order: nodes are
// processed off a "dangling" stack seeded from a deterministic global
// scan, and each node's cached cyclic edge ordering is shuffled before
// its not-yet-seen edges are appended to the output — spec.md §4.5,
// grounded in Octilinearizer::getOrdering's global-queue/dangling-stack
// structure, with the ambient global scan order fixed (sorted NodeID)
// so that only the seeded rng governs non-determinism, per spec.md §9's
// "Randomization" design note.
func getOrdering(cg *combgraph.Graph, rng *rand.Rand) []combgraph.EdgeID {
	ids := make([]combgraph.NodeID, 0, len(cg.Nodes))
	for id := range cg.Nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	settled := make(map[combgraph.NodeID]bool, len(ids))
	done := make(map[combgraph.EdgeID]bool, len(cg.Edges))
	var order []combgraph.EdgeID

	for _, start := range ids {
		if settled[start] {
			continue
		}
		dangling := []combgraph.NodeID{start}
		for len(dangling) > 0 {
			n := dangling[len(dangling)-1]
			dangling = dangling[:len(dangling)-1]
			if settled[n] {
				continue
			}
			edges := append([]combgraph.EdgeID(nil), cg.Nodes[n].Order...)
			rng.Shuffle(len(edges), func(i, j int) { edges[i], edges[j] = edges[j], edges[i] })
			for _, eid := range edges {
				if done[eid] {
					continue
				}
				done[eid] = true
				e := cg.Edges[eid]
				dangling = append(dangling, e.OtherEnd(n))
				order = append(order, eid)
			}
			settled[n] = true
		}
	}
	return order
}
