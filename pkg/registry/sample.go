// Package registry implements the process-wide sample buffer and bank
// registries (spec.md §4.2). Both are content-addressed, read-mostly after
// the load phase, and safe for concurrent reads during render.
package registry

import "sync"

// PCM is decoded audio: mono i16 samples, or stereo f32 samples when
// Stereo is true (spec.md §4.2).
type PCM struct {
	Stereo     bool
	Mono16     []int16
	Stereo32   []float32 // interleaved L,R when Stereo
	SampleRate int
}

// Len returns the number of frames (not samples) in the PCM buffer.
func (p PCM) Len() int {
	if p.Stereo {
		return len(p.Stereo32) / 2
	}
	return len(p.Mono16)
}

// SampleRegistry maps a sample URI to decoded PCM. URIs follow
// devalang://bank/{publisher.name}/{trigger} for bank samples, or
// absolute paths / custom schemes for @load-ed files.
type SampleRegistry struct {
	mu      sync.RWMutex
	samples map[string]PCM
}

// NewSampleRegistry creates an empty registry.
func NewSampleRegistry() *SampleRegistry {
	return &SampleRegistry{samples: make(map[string]PCM)}
}

// RegisterSample stores data under uri, replacing any previous entry.
func (r *SampleRegistry) RegisterSample(uri string, data PCM) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.samples[uri] = data
}

// GetSample returns the PCM registered under uri, or ok=false if unknown.
func (r *SampleRegistry) GetSample(uri string) (PCM, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.samples[uri]
	return p, ok
}
