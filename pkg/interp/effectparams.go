package interp

import (
	"github.com/devaloop-labs/devalang-core/pkg/event"
	"github.com/devaloop-labs/devalang-core/pkg/value"
)

// effectOverridesFromParams builds an event.EffectOverrides from a flat
// params map keyed the way Trigger/RoutingFx statements carry ad-hoc
// effect settings (e.g. "drive_amount", "reverb_amount").
func effectOverridesFromParams(params map[string]value.Value, scope *value.Scope) event.EffectOverrides {
	var eo event.EffectOverrides
	get := func(key string) (float32, bool) {
		v, ok := params[key]
		if !ok {
			return 0, false
		}
		r := scope.ResolveValue(v)
		if r.Kind != value.KindNumber {
			return 0, false
		}
		return r.Number, true
	}

	if n, ok := get("drive_amount"); ok {
		eo.HasDrive, eo.DriveAmount = true, n
	}
	if n, ok := get("drive_color"); ok {
		eo.HasDrive, eo.DriveColor = true, n
	}
	if n, ok := get("reverb_amount"); ok {
		eo.HasReverb, eo.ReverbAmount = true, n
	}
	if n, ok := get("reverb_size"); ok {
		eo.HasReverb, eo.ReverbAmount = true, n
	}
	if n, ok := get("delay_time"); ok {
		eo.HasDelay, eo.DelayTimeMs = true, n
	}
	if n, ok := get("delay_feedback"); ok {
		eo.HasDelay, eo.DelayFeedback = true, n
	}
	if n, ok := get("delay_mix"); ok {
		eo.HasDelay, eo.DelayMix = true, n
	}
	if n, ok := get("chorus_depth"); ok {
		eo.HasChorus, eo.ChorusDepth = true, n
	}
	if n, ok := get("chorus_rate"); ok {
		eo.HasChorus, eo.ChorusRate = true, n
	}
	if n, ok := get("flanger_depth"); ok {
		eo.HasFlanger, eo.FlangerDepth = true, n
	}
	if n, ok := get("flanger_rate"); ok {
		eo.HasFlanger, eo.FlangerRate = true, n
	}
	if n, ok := get("flanger_feedback"); ok {
		eo.HasFlanger, eo.FlangerFeedback = true, n
	}
	if n, ok := get("phaser_rate"); ok {
		eo.HasPhaser, eo.PhaserRate = true, n
	}
	if n, ok := get("phaser_depth"); ok {
		eo.HasPhaser, eo.PhaserDepth = true, n
	}
	if n, ok := get("phaser_feedback"); ok {
		eo.HasPhaser, eo.PhaserFeedback = true, n
	}
	if n, ok := get("phaser_stages"); ok {
		eo.HasPhaser, eo.PhaserStages = true, n
	}
	if n, ok := get("compressor_threshold"); ok {
		eo.HasCompressor, eo.CompressorThresholdDB = true, n
	}
	if n, ok := get("compressor_ratio"); ok {
		eo.HasCompressor, eo.CompressorRatio = true, n
	}
	return eo
}
