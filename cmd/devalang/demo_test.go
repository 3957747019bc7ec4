package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDemoProgramResolvesKickTriggerThroughItsAlias(t *testing.T) {
	_, banks, samples := buildDemoProgram()

	uri, ok := banks.ResolveTrigger("kit", "kick")
	require.True(t, ok)

	pcm, ok := samples.GetSample(uri)
	require.True(t, ok)
	assert.Greater(t, pcm.Len(), 0)
}

func TestRunPipelineRendersAudibleBufferAndOrdersPrintEvents(t *testing.T) {
	result, printEvents, err := runPipeline(120, t.TempDir())
	require.NoError(t, err)

	assert.Greater(t, len(result.Buffer), 0)
	assert.Equal(t, 0, len(result.Buffer)%2)

	require.Len(t, printEvents, 1)
	assert.Equal(t, "devalang demo render starting", printEvents[0].Message)
	assert.Equal(t, float32(0), printEvents[0].Time)
}
