package interp

import (
	"github.com/devaloop-labs/devalang-core/pkg/event"
	"github.com/devaloop-labs/devalang-core/pkg/value"
)

// FunctionContext accumulates an arrow-call chain's effect on a pending
// note/chord before event extraction (spec.md §4.6, §4.6.1): "build a
// FunctionContext { start_time = cursor, duration = 0, bpm, properties }".
type FunctionContext struct {
	Target    string
	StartTime float32
	Duration  float32
	BPM       float32

	Note  string
	Notes []string

	HasVelocity bool
	Velocity    float32
	HasPan      bool
	Pan         float32
	HasDetune   bool
	Detune      float32
	HasSpread   bool
	Spread      float32
	HasGain     bool
	Gain        float32
	HasAttack   bool
	AttackMs    float32
	HasRelease  bool
	ReleaseMs   float32

	Effects event.EffectOverrides
}

// arrowMethod implements one function-registry entry (spec.md §4.6.1).
// args holds positional arguments; named holds the map-style form —
// either may be used per call.
type arrowMethod func(ctx *FunctionContext, args []value.Value, named map[string]value.Value, resolve func(value.Value) value.Value)

// arg returns the index-th positional argument, or the named argument
// under key if no positional argument was given at that index.
func arg(args []value.Value, named map[string]value.Value, index int, key string) (value.Value, bool) {
	if index < len(args) {
		return args[index], true
	}
	if v, ok := named[key]; ok {
		return v, true
	}
	return value.Value{}, false
}

func numArg(args []value.Value, named map[string]value.Value, index int, key string, resolve func(value.Value) value.Value) (float32, bool) {
	v, ok := arg(args, named, index, key)
	if !ok {
		return 0, false
	}
	r := resolve(v)
	if r.Kind != value.KindNumber {
		return 0, false
	}
	return r.Number, true
}

func strArg(args []value.Value, named map[string]value.Value, index int, key string, resolve func(value.Value) value.Value) (string, bool) {
	v, ok := arg(args, named, index, key)
	if !ok {
		return "", false
	}
	return resolve(v).String(), true
}

// functionRegistry is the arrow-call method table; keys match spec.md
// §4.6.1's "required methods" list.
var functionRegistry = map[string]arrowMethod{
	"note": func(ctx *FunctionContext, args []value.Value, named map[string]value.Value, resolve func(value.Value) value.Value) {
		if s, ok := strArg(args, named, 0, "name", resolve); ok {
			ctx.Note = s
		}
	},
	"chord": func(ctx *FunctionContext, args []value.Value, named map[string]value.Value, resolve func(value.Value) value.Value) {
		v, ok := arg(args, named, 0, "names")
		if !ok {
			return
		}
		r := resolve(v)
		if r.Kind != value.KindArray {
			return
		}
		for _, item := range r.Array {
			ctx.Notes = append(ctx.Notes, resolve(item).String())
		}
	},
	"velocity": func(ctx *FunctionContext, args []value.Value, named map[string]value.Value, resolve func(value.Value) value.Value) {
		if n, ok := numArg(args, named, 0, "v", resolve); ok {
			ctx.HasVelocity = true
			ctx.Velocity = n
		}
	},
	"duration": func(ctx *FunctionContext, args []value.Value, named map[string]value.Value, resolve func(value.Value) value.Value) {
		if n, ok := numArg(args, named, 0, "ms", resolve); ok {
			ctx.Duration = n / 1000
		}
	},
	"pan": func(ctx *FunctionContext, args []value.Value, named map[string]value.Value, resolve func(value.Value) value.Value) {
		if n, ok := numArg(args, named, 0, "pan", resolve); ok {
			ctx.HasPan = true
			ctx.Pan = n
		}
	},
	"detune": func(ctx *FunctionContext, args []value.Value, named map[string]value.Value, resolve func(value.Value) value.Value) {
		if n, ok := numArg(args, named, 0, "cents", resolve); ok {
			ctx.HasDetune = true
			ctx.Detune = n
		}
	},
	"spread": func(ctx *FunctionContext, args []value.Value, named map[string]value.Value, resolve func(value.Value) value.Value) {
		if n, ok := numArg(args, named, 0, "spread", resolve); ok {
			ctx.HasSpread = true
			ctx.Spread = n
		}
	},
	"gain": func(ctx *FunctionContext, args []value.Value, named map[string]value.Value, resolve func(value.Value) value.Value) {
		if n, ok := numArg(args, named, 0, "gain", resolve); ok {
			ctx.HasGain = true
			ctx.Gain = n
		}
	},
	"attack": func(ctx *FunctionContext, args []value.Value, named map[string]value.Value, resolve func(value.Value) value.Value) {
		if n, ok := numArg(args, named, 0, "ms", resolve); ok {
			ctx.HasAttack = true
			ctx.AttackMs = n
		}
	},
	"release": func(ctx *FunctionContext, args []value.Value, named map[string]value.Value, resolve func(value.Value) value.Value) {
		if n, ok := numArg(args, named, 0, "ms", resolve); ok {
			ctx.HasRelease = true
			ctx.ReleaseMs = n
		}
	},
	"delay": func(ctx *FunctionContext, args []value.Value, named map[string]value.Value, resolve func(value.Value) value.Value) {
		ctx.Effects.HasDelay = true
		if n, ok := numArg(args, named, 0, "time", resolve); ok {
			ctx.Effects.DelayTimeMs = n
		}
		if n, ok := numArg(args, named, 1, "feedback", resolve); ok {
			ctx.Effects.DelayFeedback = n
		}
		if n, ok := numArg(args, named, 2, "mix", resolve); ok {
			ctx.Effects.DelayMix = n
		}
	},
	"reverb": func(ctx *FunctionContext, args []value.Value, named map[string]value.Value, resolve func(value.Value) value.Value) {
		ctx.Effects.HasReverb = true
		if n, ok := numArg(args, named, 0, "amount", resolve); ok {
			ctx.Effects.ReverbAmount = n
			return
		}
		if n, ok := numArg(args, named, 0, "size", resolve); ok {
			ctx.Effects.ReverbAmount = n
		}
	},
	"drive": func(ctx *FunctionContext, args []value.Value, named map[string]value.Value, resolve func(value.Value) value.Value) {
		ctx.Effects.HasDrive = true
		if n, ok := numArg(args, named, 0, "amount", resolve); ok {
			ctx.Effects.DriveAmount = n
		}
		if n, ok := numArg(args, named, 1, "color", resolve); ok {
			ctx.Effects.DriveColor = n
		}
	},
	"chorus": func(ctx *FunctionContext, args []value.Value, named map[string]value.Value, resolve func(value.Value) value.Value) {
		ctx.Effects.HasChorus = true
		if n, ok := numArg(args, named, 0, "depth", resolve); ok {
			ctx.Effects.ChorusDepth = n
		}
		if n, ok := numArg(args, named, 1, "rate", resolve); ok {
			ctx.Effects.ChorusRate = n
		}
	},
	"flanger": func(ctx *FunctionContext, args []value.Value, named map[string]value.Value, resolve func(value.Value) value.Value) {
		ctx.Effects.HasFlanger = true
		if n, ok := numArg(args, named, 0, "depth", resolve); ok {
			ctx.Effects.FlangerDepth = n
		}
		if n, ok := numArg(args, named, 1, "rate", resolve); ok {
			ctx.Effects.FlangerRate = n
		}
		if n, ok := numArg(args, named, 2, "feedback", resolve); ok {
			ctx.Effects.FlangerFeedback = n
		}
	},
	"phaser": func(ctx *FunctionContext, args []value.Value, named map[string]value.Value, resolve func(value.Value) value.Value) {
		ctx.Effects.HasPhaser = true
		if n, ok := numArg(args, named, 0, "stages", resolve); ok {
			ctx.Effects.PhaserStages = n
		}
		if n, ok := numArg(args, named, 1, "rate", resolve); ok {
			ctx.Effects.PhaserRate = n
		}
		if n, ok := numArg(args, named, 2, "depth", resolve); ok {
			ctx.Effects.PhaserDepth = n
		}
		if n, ok := numArg(args, named, 3, "feedback", resolve); ok {
			ctx.Effects.PhaserFeedback = n
		}
	},
	"compressor": func(ctx *FunctionContext, args []value.Value, named map[string]value.Value, resolve func(value.Value) value.Value) {
		ctx.Effects.HasCompressor = true
		if n, ok := numArg(args, named, 0, "threshold", resolve); ok {
			ctx.Effects.CompressorThresholdDB = n
		}
		if n, ok := numArg(args, named, 1, "ratio", resolve); ok {
			ctx.Effects.CompressorRatio = n
		}
	},
}
