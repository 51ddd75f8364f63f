// SPDX-License-Identifier: EPL-2.0

package graph

import "github.com/ik5/soundscape/utils"

// Parameter bounds. Decay is capped to keep impulse responses bounded in
// memory.
const (
	MinDecay        = 0.01
	MaxDecay        = 10.0
	MaxDelayTime    = 2.0
	MaxFeedback     = 0.9
	MaxEQGain       = 12.0
	defaultRoom     = 0.5
	defaultDecay    = 2.0
	defaultDelay    = 0.3
	defaultFeedback = 0.3
)

type ReverbSettings struct {
	RoomSize float64 `json:"roomSize" yaml:"roomSize"`
	Decay    float64 `json:"decay" yaml:"decay"`
	Mix      float64 `json:"mix" yaml:"mix"`
}

type DelaySettings struct {
	Time     float64 `json:"time" yaml:"time"`
	Feedback float64 `json:"feedback" yaml:"feedback"`
	Mix      float64 `json:"mix" yaml:"mix"`
}

// EQSettings holds band gains in dB.
type EQSettings struct {
	Low  float64 `json:"low" yaml:"low"`
	Mid  float64 `json:"mid" yaml:"mid"`
	High float64 `json:"high" yaml:"high"`
}

// EffectSettings is the complete set of send and EQ parameters.
type EffectSettings struct {
	Reverb ReverbSettings `json:"reverb" yaml:"reverb"`
	Delay  DelaySettings  `json:"delay" yaml:"delay"`
	EQ     EQSettings     `json:"eq" yaml:"eq"`
}

// DefaultEffects returns the settings a fresh session starts with: both
// sends silent, flat EQ.
func DefaultEffects() EffectSettings {
	return EffectSettings{
		Reverb: ReverbSettings{RoomSize: defaultRoom, Decay: defaultDecay},
		Delay:  DelaySettings{Time: defaultDelay, Feedback: defaultFeedback},
	}
}

// Clamp forces every field into its valid range.
func (s EffectSettings) Clamp() EffectSettings {
	s.Reverb.RoomSize = utils.ClampUnit(s.Reverb.RoomSize)
	s.Reverb.Decay = utils.Clamp(s.Reverb.Decay, MinDecay, MaxDecay)
	s.Reverb.Mix = utils.ClampUnit(s.Reverb.Mix)

	s.Delay.Time = utils.Clamp(s.Delay.Time, 0, MaxDelayTime)
	s.Delay.Feedback = utils.Clamp(s.Delay.Feedback, 0, MaxFeedback)
	s.Delay.Mix = utils.ClampUnit(s.Delay.Mix)

	s.EQ.Low = utils.Clamp(s.EQ.Low, -MaxEQGain, MaxEQGain)
	s.EQ.Mid = utils.Clamp(s.EQ.Mid, -MaxEQGain, MaxEQGain)
	s.EQ.High = utils.Clamp(s.EQ.High, -MaxEQGain, MaxEQGain)

	return s
}

type ReverbPatch struct {
	RoomSize *float64 `json:"roomSize,omitempty" yaml:"roomSize,omitempty"`
	Decay    *float64 `json:"decay,omitempty" yaml:"decay,omitempty"`
	Mix      *float64 `json:"mix,omitempty" yaml:"mix,omitempty"`
}

type DelayPatch struct {
	Time     *float64 `json:"time,omitempty" yaml:"time,omitempty"`
	Feedback *float64 `json:"feedback,omitempty" yaml:"feedback,omitempty"`
	Mix      *float64 `json:"mix,omitempty" yaml:"mix,omitempty"`
}

type EQPatch struct {
	Low  *float64 `json:"low,omitempty" yaml:"low,omitempty"`
	Mid  *float64 `json:"mid,omitempty" yaml:"mid,omitempty"`
	High *float64 `json:"high,omitempty" yaml:"high,omitempty"`
}

// EffectPatch is a partial update. Nil fields leave the current value
// untouched.
type EffectPatch struct {
	Reverb *ReverbPatch `json:"reverb,omitempty" yaml:"reverb,omitempty"`
	Delay  *DelayPatch  `json:"delay,omitempty" yaml:"delay,omitempty"`
	EQ     *EQPatch     `json:"eq,omitempty" yaml:"eq,omitempty"`
}

// Float returns a pointer to v, for building patches.
func Float(v float64) *float64 { return &v }

// Merge applies the set fields of p onto s and clamps the result.
func (s EffectSettings) Merge(p EffectPatch) EffectSettings {
	if r := p.Reverb; r != nil {
		set(&s.Reverb.RoomSize, r.RoomSize)
		set(&s.Reverb.Decay, r.Decay)
		set(&s.Reverb.Mix, r.Mix)
	}
	if d := p.Delay; d != nil {
		set(&s.Delay.Time, d.Time)
		set(&s.Delay.Feedback, d.Feedback)
		set(&s.Delay.Mix, d.Mix)
	}
	if e := p.EQ; e != nil {
		set(&s.EQ.Low, e.Low)
		set(&s.EQ.Mid, e.Mid)
		set(&s.EQ.High, e.High)
	}

	return s.Clamp()
}

func set(dst, v *float64) {
	if v != nil {
		*dst = *v
	}
}
