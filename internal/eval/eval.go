package eval

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/graph/community"
	"gonum.org/v1/gonum/graph/network"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/Beo-Alvaro/contra-eris/internal/graph"
)

// Failure sentinels recorded when an individual metric is inapplicable to
// the graph shape. They land in the metric's own slot; other metrics are
// unaffected.
const (
	betweennessFailure     = "Graph not connected enough for betweenness"
	communityFailurePrefix = "Failed to detect communities: "
)

// Evaluate scores g. Duplicate edges are collapsed before measurement, so a
// file importing the same target twice contributes one dependency, and the
// empty graph yields zero-valued metrics with the per-node slots absent.
// The compression ratio is an I/O concern and is filled in by the caller.
func Evaluate(g *graph.Graph) *Metrics {
	edges := g.Dedup()

	m := &Metrics{
		Graph: GraphMetrics{
			NodeCount: len(g.Nodes),
			EdgeCount: len(edges),
		},
	}

	if m.Graph.NodeCount > 1 {
		maxEdges := m.Graph.NodeCount * (m.Graph.NodeCount - 1)
		m.Graph.Connectivity = float64(m.Graph.EdgeCount) / float64(maxEdges)
	}

	fanIn := map[string]int{}
	fanOut := map[string]int{}
	for _, node := range g.Nodes {
		fanIn[node] = 0
		fanOut[node] = 0
	}
	for _, e := range edges {
		fanOut[e.From]++
		fanIn[e.To]++
	}

	if m.Graph.NodeCount > 0 {
		m.Graph.InDegreeCentrality = degreeCentrality(g.Nodes, fanIn)
		m.Graph.OutDegreeCentrality = degreeCentrality(g.Nodes, fanOut)

		gg := toGonum(g.Nodes, edges)
		m.Graph.Betweenness = betweennessScores(gg)
		m.Graph.Communities = detectCommunities(gg)
		if !m.Graph.Communities.Failed() {
			m.Graph.CommunityCount = len(m.Graph.Communities.Groups)
		}
	}

	m.Dependency = dependencyComplexity(g.Nodes, fanIn, fanOut)
	m.InformationEntropy = informationEntropy(g.Nodes, fanIn, fanOut)
	return m
}

// degreeCentrality normalizes per-node degree by node_count-1. A
// single-node graph has no possible neighbors, so every score is 0.
func degreeCentrality(nodes []string, degree map[string]int) map[string]float64 {
	out := make(map[string]float64, len(nodes))
	denom := float64(len(nodes) - 1)
	for _, node := range nodes {
		if denom > 0 {
			out[node] = float64(degree[node]) / denom
		} else {
			out[node] = 0
		}
	}
	return out
}

func dependencyComplexity(nodes []string, fanIn, fanOut map[string]int) DependencyComplexity {
	dc := DependencyComplexity{
		FanIn:       fanIn,
		FanOut:      fanOut,
		Instability: make(map[string]float64, len(nodes)),
	}

	var sumIn, sumOut, sumInst float64
	for _, node := range nodes {
		in, out := fanIn[node], fanOut[node]
		inst := 0.0
		if in+out > 0 {
			inst = float64(out) / float64(in+out)
		}
		dc.Instability[node] = inst
		sumIn += float64(in)
		sumOut += float64(out)
		sumInst += inst
	}

	if n := float64(len(nodes)); n > 0 {
		dc.AvgFanIn = sumIn / n
		dc.AvgFanOut = sumOut / n
		dc.AvgInstability = sumInst / n
	}
	return dc
}

// informationEntropy is the Shannon entropy of the total-degree
// distribution. Zero-degree nodes contribute nothing; an edgeless graph has
// entropy 0.
func informationEntropy(nodes []string, fanIn, fanOut map[string]int) float64 {
	total := 0
	for _, node := range nodes {
		total += fanIn[node] + fanOut[node]
	}
	if total == 0 {
		return 0
	}

	entropy := 0.0
	for _, node := range nodes {
		d := fanIn[node] + fanOut[node]
		if d == 0 {
			continue
		}
		p := float64(d) / float64(total)
		entropy -= p * math.Log2(p)
	}
	return entropy
}

// gonumGraph pairs the directed and undirected projections with the
// string-path to int64-id mappings.
type gonumGraph struct {
	directed   *simple.DirectedGraph
	undirected *simple.UndirectedGraph
	pathToID   map[string]int64
	idToPath   map[int64]string
}

// toGonum converts to gonum's simple graphs. Edges must already be
// deduplicated; the undirected projection additionally collapses mutual
// edges to one.
func toGonum(nodes []string, edges []graph.Edge) *gonumGraph {
	gg := &gonumGraph{
		directed:   simple.NewDirectedGraph(),
		undirected: simple.NewUndirectedGraph(),
		pathToID:   make(map[string]int64, len(nodes)),
		idToPath:   make(map[int64]string, len(nodes)),
	}

	for i, node := range nodes {
		id := int64(i)
		gg.pathToID[node] = id
		gg.idToPath[id] = node
		gg.directed.AddNode(simple.Node(id))
		gg.undirected.AddNode(simple.Node(id))
	}

	for _, e := range edges {
		from, okFrom := gg.pathToID[e.From]
		to, okTo := gg.pathToID[e.To]
		if !okFrom || !okTo || from == to {
			continue
		}
		gg.directed.SetEdge(simple.Edge{F: simple.Node(from), T: simple.Node(to)})
		if gg.undirected.Edge(from, to) == nil {
			gg.undirected.SetEdge(simple.Edge{F: simple.Node(from), T: simple.Node(to)})
		}
	}
	return gg
}

// betweennessScores computes betweenness centrality over the directed
// graph. The algorithm is guarded: any panic from a degenerate shape turns
// into the failure sentinel rather than taking down the evaluation.
func betweennessScores(gg *gonumGraph) (scores *NodeScores) {
	defer func() {
		if r := recover(); r != nil {
			scores = &NodeScores{Failure: betweennessFailure}
		}
	}()

	raw := network.Betweenness(gg.directed)
	values := make(map[string]float64, len(gg.idToPath))
	for id, path := range gg.idToPath {
		values[path] = raw[id]
	}
	return &NodeScores{Values: values}
}

// detectCommunities runs Louvain modularity maximization over the
// undirected projection. Group membership order is not meaningful, so
// groups are sorted internally and by first member for stable output.
func detectCommunities(gg *gonumGraph) (result *Communities) {
	defer func() {
		if r := recover(); r != nil {
			result = &Communities{Failure: communityFailurePrefix + fmt.Sprint(r)}
		}
	}()

	reduced := community.Modularize(gg.undirected, 1.0, nil)

	groups := [][]string{}
	for _, c := range reduced.Communities() {
		group := make([]string, 0, len(c))
		for _, n := range c {
			group = append(group, gg.idToPath[n.ID()])
		}
		sort.Strings(group)
		groups = append(groups, group)
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i][0] < groups[j][0]
	})
	return &Communities{Groups: groups}
}
