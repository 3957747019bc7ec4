package routing

import (
	"testing"

	"github.com/devaloop-labs/devalang-core/pkg/effects"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildAlwaysIncludesMaster(t *testing.T) {
	g, err := Build(Config{}, effects.NewRegistry())
	require.NoError(t, err)
	_, ok := g.Resolve(MasterNode)
	assert.True(t, ok)
}

func TestBuildResolvesNodeByAlias(t *testing.T) {
	cfg := Config{Nodes: []NodeSpec{{Name: "myLeadNode", Alias: "lead"}}}
	g, err := Build(cfg, effects.NewRegistry())
	require.NoError(t, err)

	n, ok := g.Resolve("lead")
	require.True(t, ok)
	assert.Equal(t, "myLeadNode", n.Name)
}

func TestBuildRejectsCycleAndFallsBackToMasterOnly(t *testing.T) {
	cfg := Config{
		Nodes: []NodeSpec{{Name: "a"}, {Name: "b"}},
		Routes: []RouteSpec{
			{Src: "a", Dst: "b", Gain: 1},
			{Src: "b", Dst: "a", Gain: 1},
		},
	}
	g, err := Build(cfg, effects.NewRegistry())
	require.Error(t, err)
	assert.Len(t, g.Nodes, 1)
	_, ok := g.Resolve(MasterNode)
	assert.True(t, ok)
}

func TestBuildAcceptsAcyclicRoutes(t *testing.T) {
	cfg := Config{
		Nodes: []NodeSpec{{Name: "drums"}, {Name: "lead"}},
		Routes: []RouteSpec{
			{Src: "drums", Dst: MasterNode, Gain: 1},
			{Src: "lead", Dst: MasterNode, Gain: 1},
		},
	}
	g, err := Build(cfg, effects.NewRegistry())
	require.NoError(t, err)
	assert.Len(t, g.Routes, 2)
}

func TestMixRouteZeroGainLeavesDestinationUnchanged(t *testing.T) {
	src := []float32{0.5, 0.5, -0.5, -0.5}
	dst := []float32{0.1, 0.2, 0.3, 0.4}
	before := append([]float32{}, dst...)

	MixRoute(src, dst, 0)
	assert.Equal(t, before, dst)
}

func TestMixRouteAddsScaledSamples(t *testing.T) {
	src := []float32{1, 1}
	dst := []float32{0, 0}
	MixRoute(src, dst, 0.5)
	assert.Equal(t, []float32{0.5, 0.5}, dst)
}

func TestApplyDuckAttenuatesDuringLoudDestination(t *testing.T) {
	sampleRate := 1000
	frame := sampleRate / envelopeRateHz

	dst := make([]float32, frame*2*2)
	for i := 0; i < frame*2; i++ {
		dst[i] = 0.9
	}

	src := make([]float32, frame*2*2)
	for i := range src {
		src[i] = 1
	}

	ApplyDuck(src, dst, sampleRate)

	assert.Less(t, src[0], float32(1))
	assert.GreaterOrEqual(t, src[0], float32(1)*0.05-0.01)
}

func TestApplyDuckLeavesQuietDestinationUnaffected(t *testing.T) {
	sampleRate := 1000
	dst := make([]float32, 2000)
	src := make([]float32, 2000)
	for i := range src {
		src[i] = 1
	}

	ApplyDuck(src, dst, sampleRate)
	for _, v := range src {
		assert.InDelta(t, 1, v, 1e-4)
	}
}

func TestTargetNodeForSynthMatchesLeadLikeName(t *testing.T) {
	cfg := Config{Nodes: []NodeSpec{{Name: "myLeadNode"}}}
	g, _ := Build(cfg, effects.NewRegistry())
	assert.Equal(t, "myLeadNode", g.TargetNodeForSynth("leadSynth"))
	assert.Equal(t, MasterNode, g.TargetNodeForSynth("padSynth"))
}

func TestTargetNodeForSampleMatchesDrumLikeURI(t *testing.T) {
	cfg := Config{Nodes: []NodeSpec{{Name: "myKickNode"}}}
	g, _ := Build(cfg, effects.NewRegistry())
	assert.Equal(t, "myKickNode", g.TargetNodeForSample("devaloop.808.kick"))
	assert.Equal(t, MasterNode, g.TargetNodeForSample("devaloop.808.clap_unmatched"))
}
