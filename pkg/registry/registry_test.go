package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleRegistryRoundTrip(t *testing.T) {
	r := NewSampleRegistry()
	r.RegisterSample("devalang://bank/devaloop.808/kick", PCM{Mono16: []int16{1, 2, 3}, SampleRate: 44100})

	got, ok := r.GetSample("devalang://bank/devaloop.808/kick")
	require.True(t, ok)
	assert.Equal(t, 3, got.Len())
}

func TestSampleRegistryUnknownURI(t *testing.T) {
	r := NewSampleRegistry()
	_, ok := r.GetSample("devalang://bank/nope/nope")
	assert.False(t, ok)
}

func TestBankRegistryResolvesByAliasOrFullName(t *testing.T) {
	r := NewBankRegistry()
	r.RegisterBank("devaloop.808", "kit", map[string]string{
		"kick": "devalang://bank/devaloop.808/kick",
	})

	byAlias, ok := r.ResolveTrigger("kit", "kick")
	require.True(t, ok)

	byFullName, ok := r.ResolveTrigger("devaloop.808", "kick")
	require.True(t, ok)

	assert.Equal(t, byAlias, byFullName, "trigger URI must resolve the same regardless of alias path")
}

func TestBankRegistryUnknownAliasOrTrigger(t *testing.T) {
	r := NewBankRegistry()
	r.RegisterBank("devaloop.808", "kit", map[string]string{"kick": "uri"})

	_, ok := r.ResolveTrigger("missing", "kick")
	assert.False(t, ok)

	_, ok = r.ResolveTrigger("kit", "missing")
	assert.False(t, ok)
}
