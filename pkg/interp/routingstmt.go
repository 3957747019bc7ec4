package interp

import (
	"github.com/devaloop-labs/devalang-core/pkg/ast"
	"github.com/devaloop-labs/devalang-core/pkg/routing"
	"github.com/devaloop-labs/devalang-core/pkg/value"
)

// execRouting implements spec.md §4.6's "Routing body: parse nested
// RoutingNode/Fx/Route/Duck/Sidechain children into the RoutingConfig".
func (ip *Interpreter) execRouting(stmt ast.Statement) {
	for _, child := range stmt.Body {
		switch child.Kind {
		case ast.KindRoutingNode:
			ip.routingCfg.Nodes = append(ip.routingCfg.Nodes, ip.buildNodeSpec(child))
		case ast.KindRoutingFx:
			ip.applyNodeFx(child)
		case ast.KindRoutingRoute:
			ip.routingCfg.Routes = append(ip.routingCfg.Routes, routing.RouteSpec{
				Src:  child.RoutingSrc,
				Dst:  child.RoutingDst,
				Gain: ip.routingGain(child.RoutingGain),
			})
		case ast.KindRoutingDuck:
			ip.routingCfg.Ducks = append(ip.routingCfg.Ducks, routing.DuckSpec{Src: child.RoutingSrc, Dst: child.RoutingDst})
		case ast.KindRoutingSidechain:
			ip.routingCfg.Sidechains = append(ip.routingCfg.Sidechains, routing.SidechainSpec{Src: child.RoutingSrc, Dst: child.RoutingDst})
		}
	}
}

func (ip *Interpreter) routingGain(g value.Value) float32 {
	resolved := ip.scope.ResolveValue(g)
	if resolved.Kind == value.KindNumber {
		return resolved.Number
	}
	return 1.0
}

func (ip *Interpreter) buildNodeSpec(stmt ast.Statement) routing.NodeSpec {
	spec := routing.NodeSpec{Name: stmt.RoutingNodeName, Alias: stmt.RoutingNodeAlias}
	for _, fxStmt := range stmt.Body {
		if fxStmt.Kind != ast.KindRoutingFx {
			continue
		}
		spec.Effects = append(spec.Effects, ip.effectSpecsFromFx(fxStmt)...)
	}
	return spec
}

// applyNodeFx handles a top-level RoutingFx statement that targets an
// already-declared node by name (rather than one nested inside a
// RoutingNode body).
func (ip *Interpreter) applyNodeFx(stmt ast.Statement) {
	for i := range ip.routingCfg.Nodes {
		if ip.routingCfg.Nodes[i].Name == stmt.RoutingFxTarget {
			ip.routingCfg.Nodes[i].Effects = append(ip.routingCfg.Nodes[i].Effects, ip.effectSpecsFromFx(stmt)...)
			return
		}
	}
}

// effectSpecsFromFx reads a RoutingFx statement's effect chain. Each
// entry of RoutingFxChain carries the effect name under a "name" key
// plus numeric parameters under the rest; a statement with no chain
// falls back to its own Name field naming a single effect configured by
// RoutingFxParams.
func (ip *Interpreter) effectSpecsFromFx(stmt ast.Statement) []routing.EffectSpec {
	if len(stmt.RoutingFxChain) > 0 {
		specs := make([]routing.EffectSpec, 0, len(stmt.RoutingFxChain))
		for _, entry := range stmt.RoutingFxChain {
			specs = append(specs, ip.effectSpecFromMap(entry))
		}
		return specs
	}
	if stmt.Name != "" {
		return []routing.EffectSpec{{Name: stmt.Name, Params: ip.paramsFromValueMap(stmt.RoutingFxParams)}}
	}
	return nil
}

func (ip *Interpreter) effectSpecFromMap(m map[string]value.Value) routing.EffectSpec {
	spec := routing.EffectSpec{Params: make(map[string]float32, len(m))}
	for k, v := range m {
		if k == "name" {
			spec.Name = ip.scope.ResolveValue(v).String()
			continue
		}
		resolved := ip.scope.ResolveValue(v)
		if resolved.Kind == value.KindNumber {
			spec.Params[k] = resolved.Number
		}
	}
	return spec
}

func (ip *Interpreter) paramsFromValueMap(m map[string]value.Value) map[string]float32 {
	out := make(map[string]float32, len(m))
	for k, v := range m {
		resolved := ip.scope.ResolveValue(v)
		if resolved.Kind == value.KindNumber {
			out[k] = resolved.Number
		}
	}
	return out
}
