package routing

import (
	"sort"
	"strings"
)

// leadMarkers and drumMarkers are the substrings the heuristic looks
// for in a declared node's name/alias to decide whether a synth or
// sample event belongs there (spec.md §4.7: "a synth whose name matches
// a Lead-like pattern routes to myLeadNode; drum samples route to
// myKickNode; otherwise $master"). Matching is case-insensitive and
// first-match-wins over node names in sorted order, so the result is
// deterministic for a given graph and event.
var leadMarkers = []string{"lead"}
var drumMarkers = []string{"kick", "drum", "snare", "hat", "perc"}

func matchesAny(name string, markers []string) bool {
	lower := strings.ToLower(name)
	for _, m := range markers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

func (g *Graph) findByMarkers(markers []string) (string, bool) {
	names := make([]string, 0, len(g.Nodes))
	for name := range g.Nodes {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		node := g.Nodes[name]
		if matchesAny(node.Name, markers) || matchesAny(node.Alias, markers) {
			return name, true
		}
	}
	return "", false
}

// TargetNodeForSynth resolves the node a synth-driven event (note/chord)
// routes to: a declared node whose name/alias looks lead-like, else
// $master.
func (g *Graph) TargetNodeForSynth(synthID string) string {
	if matchesAny(synthID, leadMarkers) {
		if name, ok := g.findByMarkers(leadMarkers); ok {
			return name
		}
	}
	return MasterNode
}

// TargetNodeForSample resolves the node a sample-trigger event routes
// to: a declared node whose name/alias looks drum-like, else $master.
func (g *Graph) TargetNodeForSample(uri string) string {
	if matchesAny(uri, drumMarkers) {
		if name, ok := g.findByMarkers(drumMarkers); ok {
			return name
		}
	}
	return MasterNode
}
