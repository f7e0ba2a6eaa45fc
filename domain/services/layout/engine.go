// Package layout places every person in a family tree using a layered
// hierarchical (Sugiyama-style) graph drawing: rank assignment by longest
// path, in-rank ordering by median-of-neighbors sweeps, then coordinate
// assignment on a fixed grid.
package layout

import (
	"sort"

	"familytree-backend/domain/config"
	"familytree-backend/domain/core/aggregates"
	"familytree-backend/domain/core/valueobjects"
)

// Engine converts tree topology into node positions. It only ever mutates
// positions, never topology, and is deterministic: the same graph content
// always produces the same placement.
type Engine struct {
	cfg *config.DomainConfig
}

// NewEngine creates a layout engine with the given domain config
func NewEngine(cfg *config.DomainConfig) *Engine {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &Engine{cfg: cfg}
}

// subgraph is the directed hierarchy subgraph the layering operates on.
// Spousal relationships are excluded entirely: an edge between
// same-generation partners would either force artificial rank pressure or
// introduce a cycle, and the layering assumes generation-ordered edges.
type subgraph struct {
	nodes   []valueobjects.PersonID
	index   map[valueobjects.PersonID]int
	parents [][]int // parents[i] = indices with an edge into node i
	edges   int
}

// buildSubgraph extracts the hierarchy subgraph in insertion order
func buildSubgraph(tree *aggregates.FamilyTree) *subgraph {
	persons := tree.Persons()
	sg := &subgraph{
		nodes:   make([]valueobjects.PersonID, len(persons)),
		index:   make(map[valueobjects.PersonID]int, len(persons)),
		parents: make([][]int, len(persons)),
	}
	for i, person := range persons {
		sg.nodes[i] = person.ID()
		sg.index[person.ID()] = i
	}
	for _, rel := range tree.Relationships() {
		if rel.IsSpousal() {
			continue
		}
		src, ok := sg.index[rel.Source()]
		if !ok {
			continue
		}
		dst, ok := sg.index[rel.Target()]
		if !ok {
			continue
		}
		sg.parents[dst] = append(sg.parents[dst], src)
		sg.edges++
	}
	return sg
}

// Apply recomputes and assigns a position for every person in the tree,
// including persons with no hierarchy edges (they land in rank zero).
func (e *Engine) Apply(tree *aggregates.FamilyTree) error {
	sg := buildSubgraph(tree)
	if len(sg.nodes) == 0 {
		return nil
	}

	ranks := assignRanks(sg)
	order := e.orderRanks(sg, ranks)

	for rank, row := range order {
		total := float64(len(row))*e.cfg.NodeWidth + float64(len(row)-1)*e.cfg.NodeSeparation
		startX := -total / 2
		centerY := float64(rank)*(e.cfg.NodeHeight+e.cfg.RankSeparation) + e.cfg.NodeHeight/2

		for i, nodeIdx := range row {
			centerX := startX + float64(i)*(e.cfg.NodeWidth+e.cfg.NodeSeparation) + e.cfg.NodeWidth/2

			// Engine coordinates are node centers; positions are top-left.
			position, err := valueobjects.NewPosition(
				centerX-e.cfg.NodeWidth/2,
				centerY-e.cfg.NodeHeight/2,
			)
			if err != nil {
				return err
			}

			person, err := tree.GetPerson(sg.nodes[nodeIdx])
			if err != nil {
				return err
			}
			person.MoveTo(position)
		}
	}
	return nil
}

// assignRanks computes the generation depth of each node as the longest
// path from any root. Back edges found mid-traversal are skipped rather
// than rejected, so a cyclic hierarchy degrades instead of failing.
func assignRanks(sg *subgraph) []int {
	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := make([]int, len(sg.nodes))
	ranks := make([]int, len(sg.nodes))

	var visit func(i int) int
	visit = func(i int) int {
		if state[i] == done {
			return ranks[i]
		}
		if state[i] == visiting {
			// Cycle: treat the back edge as non-constraining.
			return -1
		}
		state[i] = visiting

		rank := 0
		for _, parent := range sg.parents[i] {
			if r := visit(parent); r >= 0 && r+1 > rank {
				rank = r + 1
			}
		}

		state[i] = done
		ranks[i] = rank
		return rank
	}

	for i := range sg.nodes {
		visit(i)
	}
	return ranks
}

// orderRanks arranges each rank left to right. The initial order is
// insertion order; a fixed number of sweeps then pulls every node toward
// the median position of its neighbors in the rank above, with stable
// sorting so ties preserve the previous order.
func (e *Engine) orderRanks(sg *subgraph, ranks []int) [][]int {
	maxRank := 0
	for _, r := range ranks {
		if r > maxRank {
			maxRank = r
		}
	}

	order := make([][]int, maxRank+1)
	for i := range sg.nodes {
		order[ranks[i]] = append(order[ranks[i]], i)
	}

	pos := make([]int, len(sg.nodes))
	updatePos := func() {
		for _, row := range order {
			for p, idx := range row {
				pos[idx] = p
			}
		}
	}
	updatePos()

	for sweep := 0; sweep < e.cfg.OrderingSweeps; sweep++ {
		for rank := 1; rank <= maxRank; rank++ {
			row := order[rank]
			keys := make(map[int]float64, len(row))
			for _, nodeIdx := range row {
				keys[nodeIdx] = medianParentPos(sg, pos, nodeIdx, float64(pos[nodeIdx]))
			}
			sort.SliceStable(row, func(a, b int) bool {
				return keys[row[a]] < keys[row[b]]
			})
			updatePos()
		}
	}
	return order
}

// medianParentPos returns the median in-rank position of a node's parents,
// or the fallback when it has none.
func medianParentPos(sg *subgraph, pos []int, nodeIdx int, fallback float64) float64 {
	parents := sg.parents[nodeIdx]
	if len(parents) == 0 {
		return fallback
	}
	positions := make([]int, len(parents))
	for i, p := range parents {
		positions[i] = pos[p]
	}
	sort.Ints(positions)
	mid := len(positions) / 2
	if len(positions)%2 == 1 {
		return float64(positions[mid])
	}
	return float64(positions[mid-1]+positions[mid]) / 2
}
