package routing

import (
	"fmt"

	"github.com/devaloop-labs/devalang-core/pkg/effects"
)

// Node is one bus in the audio graph: its interleaved stereo buffer
// (allocated by the renderer once total_duration is known) plus its
// resolved effect chain (spec.md §4.7 item 4).
type Node struct {
	Name    string
	Alias   string
	Effects []effects.Processor
	Buffer  []float32
}

// Route is a resolved directed audio edge.
type Route struct {
	Src, Dst string
	Gain     float32
}

// Duck and Sidechain mirror their spec counterparts once resolved
// against the node set.
type Duck struct{ Src, Dst string }
type Sidechain struct{ Src, Dst string }

// Graph is the built AudioGraph the renderer mixes into (spec.md §4.7/§4.8).
type Graph struct {
	Nodes      map[string]*Node
	Routes     []Route
	Ducks      []Duck
	Sidechains []Sidechain

	aliasToName map[string]string
}

// defaultGraph is the single-node fallback topology used when the
// declared routing graph contains an audio-edge cycle (spec.md §4.7
// item 2: "reject the graph with diagnostic and fall back to default
// master-only topology").
func defaultGraph() *Graph {
	return &Graph{
		Nodes:       map[string]*Node{MasterNode: {Name: MasterNode}},
		aliasToName: map[string]string{},
	}
}

// Build constructs an AudioGraph from a parsed Config, resolving each
// node's effect chain against reg. Returns the default master-only
// graph plus a non-nil error describing the rejected cycle if one is
// found among the declared Routes.
func Build(cfg Config, reg *effects.Registry) (*Graph, error) {
	g := &Graph{
		Nodes:       map[string]*Node{MasterNode: {Name: MasterNode}},
		aliasToName: map[string]string{},
	}

	for _, n := range cfg.Nodes {
		node := &Node{Name: n.Name, Alias: n.Alias}
		for _, fx := range n.Effects {
			if proc, ok := reg.Build(fx.Name, fx.Params); ok {
				node.Effects = append(node.Effects, proc)
			}
		}
		g.Nodes[n.Name] = node
		if n.Alias != "" {
			g.aliasToName[n.Alias] = n.Name
		}
	}

	routes := make([]Route, 0, len(cfg.Routes))
	for _, r := range cfg.Routes {
		routes = append(routes, Route{Src: r.Src, Dst: r.Dst, Gain: r.Gain})
	}

	if cyc := findCycle(routes); cyc != "" {
		return defaultGraph(), fmt.Errorf("routing graph rejected: cycle detected through node %q, falling back to master-only topology", cyc)
	}
	g.Routes = routes

	for _, d := range cfg.Ducks {
		g.Ducks = append(g.Ducks, Duck{Src: d.Src, Dst: d.Dst})
	}
	for _, s := range cfg.Sidechains {
		g.Sidechains = append(g.Sidechains, Sidechain{Src: s.Src, Dst: s.Dst})
	}

	return g, nil
}

// findCycle runs DFS over the directed audio-route edges and returns
// the name of a node found on a cycle, or "" if the graph is acyclic.
func findCycle(routes []Route) string {
	adj := make(map[string][]string)
	for _, r := range routes {
		adj[r.Src] = append(adj[r.Src], r.Dst)
	}

	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := make(map[string]int)

	var visit func(n string) string
	visit = func(n string) string {
		state[n] = visiting
		for _, next := range adj[n] {
			switch state[next] {
			case visiting:
				return next
			case unvisited:
				if cyc := visit(next); cyc != "" {
					return cyc
				}
			}
		}
		state[n] = done
		return ""
	}

	for n := range adj {
		if state[n] == unvisited {
			if cyc := visit(n); cyc != "" {
				return cyc
			}
		}
	}
	return ""
}

// Resolve returns the node registered under name or alias, and whether
// it was found.
func (g *Graph) Resolve(nameOrAlias string) (*Node, bool) {
	if n, ok := g.Nodes[nameOrAlias]; ok {
		return n, true
	}
	if real, ok := g.aliasToName[nameOrAlias]; ok {
		n, ok := g.Nodes[real]
		return n, ok
	}
	return nil, false
}

// Allocate sizes every node's buffer to totalSamples stereo frames.
func (g *Graph) Allocate(totalSamples int) {
	for _, n := range g.Nodes {
		n.Buffer = make([]float32, totalSamples*2)
	}
}
