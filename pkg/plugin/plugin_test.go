package plugin

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeInstance struct {
	fail      bool
	lastName  string
	lastParam string
}

func (f *fakeInstance) RenderNote(name string, buf []float32, freqHz, amplitude, durationMs float32, sampleRate, channels int) error {
	f.lastName = name
	if f.fail {
		return errors.New("guest trapped")
	}
	for i := range buf {
		buf[i] = amplitude
	}
	return nil
}

func (f *fakeInstance) SetParam(param string, value float32) error {
	f.lastParam = param
	return nil
}

func (f *fakeInstance) SetParamString(param string, value string) error {
	f.lastParam = param
	return nil
}

func TestRenderOrSilenceFillsBufferOnSuccess(t *testing.T) {
	inst := &fakeInstance{}
	buf := make([]float32, 4)
	err := RenderOrSilence(inst, Ref{Author: "a", Name: "pad"}, buf, 440, 0.5, 10, 44100, 2)

	assert.NoError(t, err)
	for _, v := range buf {
		assert.Equal(t, float32(0.5), v)
	}
}

func TestRenderOrSilenceSubstitutesSilenceOnFailure(t *testing.T) {
	inst := &fakeInstance{fail: true}
	buf := []float32{1, 1, 1, 1}
	err := RenderOrSilence(inst, Ref{Author: "a", Name: "pad"}, buf, 440, 0.5, 10, 44100, 2)

	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrPluginFailed))
	for _, v := range buf {
		assert.Equal(t, float32(0), v)
	}
}

func TestRenderOrSilenceWithNilInstanceIsSilence(t *testing.T) {
	buf := []float32{1, 1}
	err := RenderOrSilence(nil, Ref{}, buf, 440, 0.5, 10, 44100, 2)

	assert.Error(t, err)
	for _, v := range buf {
		assert.Equal(t, float32(0), v)
	}
}

func TestRenderOrSilencePrefersExportNameOverPluginName(t *testing.T) {
	inst := &fakeInstance{}
	buf := make([]float32, 2)
	_ = RenderOrSilence(inst, Ref{Name: "pad", Export: "render_note_custom"}, buf, 440, 0.5, 10, 44100, 2)
	assert.Equal(t, "render_note_custom", inst.lastName)
}

func TestScratchAllocatorGrowsAndTracksOffsets(t *testing.T) {
	a := &ScratchAllocator{}
	p1 := a.Alloc(8)
	p2 := a.Alloc(16)

	assert.Equal(t, 0, p1)
	assert.Equal(t, 8, p2)
	assert.Len(t, a.Bytes(), 24)

	a.Reset()
	assert.Len(t, a.Bytes(), 0)
}
