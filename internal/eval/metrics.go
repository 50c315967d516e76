// Package eval scores a dependency graph with structural metrics. Metric
// slots that can fail on degenerate graph shapes carry an in-band failure
// sentinel instead of aborting the remaining metrics.
package eval

import (
	"encoding/json"
	"math"
)

// Metrics is the full evaluation result for one corpus.
type Metrics struct {
	CompressionRatio   Ratio                `json:"compression_ratio"`
	Graph              GraphMetrics         `json:"graph_metrics"`
	Dependency         DependencyComplexity `json:"dependency_complexity"`
	InformationEntropy float64              `json:"information_entropy"`
}

// GraphMetrics carries the structural measurements. Centrality and community
// slots are absent for an empty graph.
type GraphMetrics struct {
	NodeCount           int                `json:"node_count"`
	EdgeCount           int                `json:"edge_count"`
	Connectivity        float64            `json:"connectivity"`
	InDegreeCentrality  map[string]float64 `json:"in_degree_centrality,omitempty"`
	OutDegreeCentrality map[string]float64 `json:"out_degree_centrality,omitempty"`
	Betweenness         *NodeScores        `json:"betweenness_centrality,omitempty"`
	Communities         *Communities       `json:"modularity_communities,omitempty"`
	CommunityCount      int                `json:"community_count,omitempty"`
}

// DependencyComplexity carries per-node coupling measures and their
// corpus-wide averages.
type DependencyComplexity struct {
	FanIn          map[string]int     `json:"fan_in"`
	FanOut         map[string]int     `json:"fan_out"`
	Instability    map[string]float64 `json:"instability"`
	AvgFanIn       float64            `json:"avg_fan_in"`
	AvgFanOut      float64            `json:"avg_fan_out"`
	AvgInstability float64            `json:"avg_instability"`
}

// NodeScores is a per-node score map, or a failure sentinel when the
// underlying algorithm was inapplicable. The serialized form is either an
// object of scores or the sentinel string, matching what evaluators already
// consuming saved metric documents expect.
type NodeScores struct {
	Values  map[string]float64
	Failure string
}

func (n NodeScores) MarshalJSON() ([]byte, error) {
	if n.Failure != "" {
		return json.Marshal(n.Failure)
	}
	values := n.Values
	if values == nil {
		values = map[string]float64{}
	}
	return json.Marshal(values)
}

func (n *NodeScores) UnmarshalJSON(data []byte) error {
	var failure string
	if err := json.Unmarshal(data, &failure); err == nil {
		n.Failure = failure
		n.Values = nil
		return nil
	}
	n.Failure = ""
	return json.Unmarshal(data, &n.Values)
}

// Failed reports whether the slot holds a sentinel instead of scores.
func (n *NodeScores) Failed() bool {
	return n != nil && n.Failure != ""
}

// Communities is a community partition, or a failure sentinel carrying the
// underlying cause. Serializes as a list of node groups or the sentinel
// string.
type Communities struct {
	Groups  [][]string
	Failure string
}

func (c Communities) MarshalJSON() ([]byte, error) {
	if c.Failure != "" {
		return json.Marshal(c.Failure)
	}
	groups := c.Groups
	if groups == nil {
		groups = [][]string{}
	}
	return json.Marshal(groups)
}

func (c *Communities) UnmarshalJSON(data []byte) error {
	var failure string
	if err := json.Unmarshal(data, &failure); err == nil {
		c.Failure = failure
		c.Groups = nil
		return nil
	}
	c.Failure = ""
	return json.Unmarshal(data, &c.Groups)
}

// Failed reports whether the slot holds a sentinel instead of a partition.
func (c *Communities) Failed() bool {
	return c != nil && c.Failure != ""
}

// Ratio is a float that may legitimately be infinite. Standard JSON has no
// infinity literal, so an infinite ratio serializes as the string
// "Infinity"; finite values serialize as plain numbers.
type Ratio float64

func (r Ratio) MarshalJSON() ([]byte, error) {
	if math.IsInf(float64(r), 1) {
		return json.Marshal("Infinity")
	}
	return json.Marshal(float64(r))
}

func (r *Ratio) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "Infinity" {
			*r = Ratio(math.Inf(1))
			return nil
		}
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*r = Ratio(f)
	return nil
}

// IsInf reports whether the ratio is infinite.
func (r Ratio) IsInf() bool {
	return math.IsInf(float64(r), 1)
}

// CompressionRatio is artifact size over source tree size. A zero-byte
// source tree yields an infinite ratio, not an error.
func CompressionRatio(artifactBytes, sourceBytes int64) Ratio {
	if sourceBytes <= 0 {
		return Ratio(math.Inf(1))
	}
	return Ratio(float64(artifactBytes) / float64(sourceBytes))
}
