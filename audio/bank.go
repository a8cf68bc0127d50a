// File: audio/bank.go
package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"fortio.org/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/wav"
	"github.com/lguibr/brickduel/game"
)

// tone describes the fallback clip synthesized for a cue: one or two notes.
type tone struct {
	freqs    []float64
	duration time.Duration // Per note
	volume   float64       // Linear, 0..1
}

var tones = map[string]tone{
	game.SoundBrick:     {[]float64{660}, 60 * time.Millisecond, 0.5},
	game.SoundPaddle:    {[]float64{440}, 50 * time.Millisecond, 0.5},
	game.SoundWall:      {[]float64{330}, 40 * time.Millisecond, 0.3},
	game.SoundPowerUp:   {[]float64{880, 1320}, 70 * time.Millisecond, 0.5},
	game.SoundFreezeHit: {[]float64{1200, 900}, 90 * time.Millisecond, 0.5},
	game.SoundAshesHit:  {[]float64{220, 110}, 120 * time.Millisecond, 0.6},
	game.SoundFreezeRay: {[]float64{1500}, 80 * time.Millisecond, 0.4},
	game.SoundLaser:     {[]float64{990}, 80 * time.Millisecond, 0.4},
	game.SoundScore:     {[]float64{523, 784}, 100 * time.Millisecond, 0.5},
	game.SoundClear:     {[]float64{523, 659, 784}, 90 * time.Millisecond, 0.6},
	game.SoundGameOver:  {[]float64{392, 262}, 250 * time.Millisecond, 0.6},
}

// Bank serves one WAV clip per sound cue. Clips load from disk in the
// background; until a file has loaded (or when it is missing or broken) the
// synthesized fallback tone is served instead.
type Bank struct {
	format   beep.Format
	fallback map[string][]byte

	mu     sync.RWMutex
	loaded map[string][]byte
}

// NewBank synthesizes the fallback tones for every cue at sampleRate.
func NewBank(sampleRate int) (*Bank, error) {
	b := &Bank{
		format:   beep.Format{SampleRate: beep.SampleRate(sampleRate), NumChannels: 2, Precision: 2},
		fallback: make(map[string][]byte, len(game.SoundNames)),
		loaded:   make(map[string][]byte),
	}
	for _, name := range game.SoundNames {
		data, err := b.synthesize(tones[name])
		if err != nil {
			return nil, fmt.Errorf("synthesizing %q: %w", name, err)
		}
		b.fallback[name] = data
	}
	return b, nil
}

func (b *Bank) synthesize(t tone) ([]byte, error) {
	if len(t.freqs) == 0 {
		t = tone{freqs: []float64{440}, duration: 50 * time.Millisecond, volume: 0.4}
	}
	sr := b.format.SampleRate
	notes := make([]beep.Streamer, 0, len(t.freqs))
	for _, f := range t.freqs {
		sine, err := generators.SineTone(sr, f)
		if err != nil {
			return nil, err
		}
		notes = append(notes, beep.Take(sr.N(t.duration), sine))
	}
	streamer := &effects.Volume{Streamer: beep.Seq(notes...), Base: 2, Volume: math.Log2(t.volume)}

	var out memFile
	if err := wav.Encode(&out, streamer, b.format); err != nil {
		return nil, err
	}
	return out.buf, nil
}

// Load reads <dir>/<cue>.wav for every cue. Missing files are skipped;
// undecodable ones are reported in the joined error and keep the fallback.
func (b *Bank) Load(dir string) error {
	var errs []error
	n := 0
	for _, name := range game.SoundNames {
		path := filepath.Join(dir, name+".wav")
		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			log.LogVf("No clip for %q at %s, using tone", name, path)
			continue
		}
		if err == nil {
			err = validate(data)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("loading %s: %w", path, err))
			continue
		}
		b.mu.Lock()
		b.loaded[name] = data
		b.mu.Unlock()
		n++
	}
	log.Infof("Loaded %d/%d sound clips from %s", n, len(game.SoundNames), dir)
	return errors.Join(errs...)
}

// LoadAsync runs Load in the background. The channel receives its result
// and is closed.
func (b *Bank) LoadAsync(dir string) <-chan error {
	done := make(chan error, 1)
	go func() {
		defer close(done)
		err := b.Load(dir)
		if err != nil {
			log.Warnf("Some sound clips failed to load: %v", err)
		}
		done <- err
	}()
	return done
}

func validate(data []byte) error {
	s, _, err := wav.Decode(bytes.NewReader(data))
	if err != nil {
		return err
	}
	return s.Close()
}

// Clip returns the WAV bytes for a cue and whether they came from disk.
// Unknown cues return nil.
func (b *Bank) Clip(name string) ([]byte, bool) {
	b.mu.RLock()
	data, ok := b.loaded[name]
	b.mu.RUnlock()
	if ok {
		return data, true
	}
	return b.fallback[name], false
}

// Format is the format of the synthesized tones.
func (b *Bank) Format() beep.Format { return b.format }

// memFile is an in-memory io.WriteSeeker, which wav.Encode needs to patch
// the header once the length is known.
type memFile struct {
	buf []byte
	pos int
}

func (m *memFile) Write(p []byte) (int, error) {
	if end := m.pos + len(p); end > len(m.buf) {
		m.buf = append(m.buf, make([]byte, end-len(m.buf))...)
	}
	copy(m.buf[m.pos:], p)
	m.pos += len(p)
	return len(p), nil
}

func (m *memFile) Seek(offset int64, whence int) (int64, error) {
	var base int64
	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		base = int64(m.pos)
	case io.SeekEnd:
		base = int64(len(m.buf))
	default:
		return 0, fmt.Errorf("invalid whence %d", whence)
	}
	next := base + offset
	if next < 0 {
		return 0, errors.New("negative position")
	}
	m.pos = int(next)
	return next, nil
}
