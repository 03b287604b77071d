package system

import (
	"encoding/binary"
	"math"
	"math/rand/v2"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/milk9111/breakshot/combat"
	"github.com/milk9111/breakshot/common"
	"github.com/milk9111/breakshot/ecs"
)

// SampleRate is the rate the sound effects are synthesized at.
const SampleRate = 44100

// Clip names.
const (
	SfxCrumble = "crumble"
	SfxExplode = "explode"
	SfxSink    = "sink"
)

// AudioSystem plays the destruction sound effects queued during the frame.
type AudioSystem struct {
	ctx    *audio.Context
	clips  map[string][]byte
	queue  []string
	Volume float64
}

// NewAudioSystem synthesizes every clip up front. A nil context keeps the
// queue working but plays nothing.
func NewAudioSystem(ctx *audio.Context) *AudioSystem {
	rng := rand.New(rand.NewPCG(7, 11))
	return &AudioSystem{
		ctx: ctx,
		clips: map[string][]byte{
			SfxCrumble: Synth(SfxCrumble, SampleRate, rng),
			SfxExplode: Synth(SfxExplode, SampleRate, rng),
			SfxSink:    Synth(SfxSink, SampleRate, rng),
		},
		Volume: 0.5,
	}
}

// Play queues a clip for the next Update.
func (a *AudioSystem) Play(name string) {
	if _, ok := a.clips[name]; !ok {
		return
	}
	a.queue = append(a.queue, name)
}

// PlayDestroyed queues the clip matching a destruction event.
func (a *AudioSystem) PlayDestroyed(ev combat.DestroyedEvent) {
	switch {
	case ev.Sunk:
		a.Play(SfxSink)
	case ev.Effect == combat.EffectExplode:
		a.Play(SfxExplode)
	default:
		a.Play(SfxCrumble)
	}
}

// Queued returns the clips waiting for the next Update.
func (a *AudioSystem) Queued() []string {
	return append([]string(nil), a.queue...)
}

func (a *AudioSystem) Update(w *ecs.World) {
	if len(a.queue) == 0 {
		return
	}
	played := make(map[string]bool, len(a.queue))
	for _, name := range a.queue {
		// One voice per clip per frame.
		if played[name] {
			continue
		}
		played[name] = true
		if a.ctx == nil {
			continue
		}
		player := a.ctx.NewPlayerFromBytes(a.clips[name])
		player.SetVolume(a.Volume)
		player.Play()
	}
	a.queue = a.queue[:0]
}

// Synth renders a clip as 16-bit little endian stereo PCM.
func Synth(name string, sampleRate int, rng *rand.Rand) []byte {
	rate := beep.SampleRate(sampleRate)

	var clip beep.Streamer
	switch name {
	case SfxExplode:
		d := 450 * time.Millisecond
		clip = beep.Mix(
			volume(decay(sweep(90, 30, d, rate), d, rate), 0.6),
			volume(decay(noise(d, rate, rng), d, rate), 0.4),
		)
	case SfxSink:
		d := 200 * time.Millisecond
		clip = volume(decay(sweep(320, 120, d, rate), d, rate), 0.7)
	default:
		d := 120 * time.Millisecond
		clip = volume(decay(noise(d, rate, rng), d, rate), 0.5)
	}
	return pcm16(clip)
}

// sweep is a sine whose frequency slides linearly from f0 to f1.
func sweep(f0, f1 float64, d time.Duration, rate beep.SampleRate) beep.Streamer {
	n := rate.N(d)
	pos := 0
	phase := 0.0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			if pos >= n {
				return i, i > 0
			}
			v := math.Sin(2 * math.Pi * phase)
			samples[i][0], samples[i][1] = v, v
			phase += common.Lerp(f0, f1, float64(pos)/float64(n)) / float64(rate)
			phase -= math.Floor(phase)
			pos++
		}
		return len(samples), true
	})
}

func noise(d time.Duration, rate beep.SampleRate, rng *rand.Rand) beep.Streamer {
	return beep.Take(rate.N(d), beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			v := rng.Float64()*2 - 1
			samples[i][0], samples[i][1] = v, v
		}
		return len(samples), true
	}))
}

// decay shapes s with an exponential fall over d.
func decay(s beep.Streamer, d time.Duration, rate beep.SampleRate) beep.Streamer {
	n := float64(rate.N(d))
	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		m, ok := s.Stream(samples)
		for i := 0; i < m; i++ {
			g := math.Exp(-5 * float64(pos) / n)
			samples[i][0] *= g
			samples[i][1] *= g
			pos++
		}
		return m, ok
	})
}

func volume(s beep.Streamer, v float64) beep.Streamer {
	if v <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(v)}
}

// pcm16 drains s into the byte layout ebiten's audio players expect.
func pcm16(s beep.Streamer) []byte {
	var out []byte
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		for _, frame := range buf[:n] {
			for _, v := range frame {
				v = common.Clamp(v, -1, 1)
				out = binary.LittleEndian.AppendUint16(out, uint16(int16(v*math.MaxInt16)))
			}
		}
		if !ok || n == 0 {
			return out
		}
	}
}
