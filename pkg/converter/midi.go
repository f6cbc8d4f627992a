package converter

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"github.com/james-see/chordkit/pkg/chord"
	"github.com/james-see/chordkit/pkg/theory"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// MIDIConverter handles MIDI file parsing and generation
type MIDIConverter struct {
	ticksPerQuarter uint16
	tempo           float64
}

// NewMIDIConverter creates a new MIDI converter
func NewMIDIConverter() *MIDIConverter {
	return &MIDIConverter{
		ticksPerQuarter: DefaultTicksPerQuarter,
		tempo:           DefaultTempo,
	}
}

// Tempo returns the tempo found by the last ParseMIDI call, or the default
func (m *MIDIConverter) Tempo() float64 {
	return m.tempo
}

// ParseMIDIFile reads a MIDI file and identifies its chords
func (m *MIDIConverter) ParseMIDIFile(filename string) ([]Detection, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read MIDI file: %w", err)
	}
	return m.ParseMIDI(data)
}

type noteEvent struct {
	tick int64
	key  uint8
	on   bool
}

// ParseMIDI reads MIDI data and identifies a chord each time the set of
// sounding keys changes because of a note-on. The lowest key is the bass.
// Sonorities that form no known chord are skipped, as are repeats of the
// previous chord.
func (m *MIDIConverter) ParseMIDI(data []byte) ([]Detection, error) {
	s, err := smf.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse MIDI: %w", err)
	}

	if mt, ok := s.TimeFormat.(smf.MetricTicks); ok {
		m.ticksPerQuarter = mt.Resolution()
	}

	var events []noteEvent
	for _, track := range s.Tracks {
		var currentTick int64
		for _, ev := range track {
			currentTick += int64(ev.Delta)
			msg := ev.Message

			// Tempo meta message (FF 51 03 tt tt tt)
			if len(msg) >= 6 && msg[0] == 0xFF && msg[1] == 0x51 && msg[2] == 0x03 {
				microsecondsPerBeat := uint32(msg[3])<<16 | uint32(msg[4])<<8 | uint32(msg[5])
				if microsecondsPerBeat > 0 {
					m.tempo = 60000000.0 / float64(microsecondsPerBeat)
				}
				continue
			}

			var ch, key, vel uint8
			switch {
			case midi.Message(msg).GetNoteStart(&ch, &key, &vel):
				events = append(events, noteEvent{tick: currentTick, key: key, on: true})
			case midi.Message(msg).GetNoteEnd(&ch, &key):
				events = append(events, noteEvent{tick: currentTick, key: key, on: false})
			}
		}
	}

	// earlier ticks first, note-offs before note-ons on the same tick
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		return !events[i].on && events[j].on
	})

	var detections []Detection
	pressed := make(map[uint8]int)
	for i := 0; i < len(events); {
		tick := events[i].tick
		struck := false
		for ; i < len(events) && events[i].tick == tick; i++ {
			ev := events[i]
			if ev.on {
				pressed[ev.key]++
				struck = true
			} else if pressed[ev.key] > 0 {
				pressed[ev.key]--
				if pressed[ev.key] == 0 {
					delete(pressed, ev.key)
				}
			}
		}
		if !struck || len(pressed) == 0 {
			continue
		}

		keys := sortedKeys(pressed)
		c, err := identifyKeys(keys)
		if err != nil {
			continue
		}
		if n := len(detections); n > 0 && detections[n-1].Chord.Name() == c.Name() {
			continue
		}
		detections = append(detections, Detection{Tick: tick, Keys: keys, Chord: c})
	}

	return detections, nil
}

func sortedKeys(pressed map[uint8]int) []uint8 {
	keys := make([]uint8, 0, len(pressed))
	for k := range pressed {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i] < keys[j]
	})
	return keys
}

func identifyKeys(keys []uint8) (*chord.Chord, error) {
	notes := make([]theory.PitchClass, len(keys))
	for i, k := range keys {
		notes[i] = theory.PitchClassFromMIDI(k)
	}
	return chord.Identify(notes, notes[0])
}

// VoiceChord returns the MIDI keys for c: the root in the voicing's octave,
// color notes stacked above it and any slash note an octave below the root
func VoiceChord(c *chord.Chord, v Voicing) ([]uint8, error) {
	root := theory.MIDINote(c.Root(), v.Octave)
	var keys []int
	if slash, ok := c.Slash(); ok {
		keys = append(keys, theory.MIDINote(slash, v.Octave-1))
	}
	keys = append(keys, root)
	for _, iv := range c.Intervals() {
		keys = append(keys, root+iv.Semitones())
	}

	res := make([]uint8, len(keys))
	for i, k := range keys {
		if k < 0 || k > 127 {
			return nil, fmt.Errorf("chord %s does not fit MIDI range in octave %d", c.Name(), v.Octave)
		}
		res[i] = uint8(k)
	}
	return res, nil
}

// GenerateMIDI creates a single-track MIDI file holding each chord for
// BeatsPerChord quarter notes, with a marker naming each chord
func (m *MIDIConverter) GenerateMIDI(p *Progression, v Voicing) ([]byte, error) {
	if p == nil || len(p.Chords) == 0 {
		return nil, ErrEmptyProgression
	}
	if v.Tempo <= 0 {
		v.Tempo = DefaultTempo
	}
	if v.BeatsPerChord <= 0 {
		v.BeatsPerChord = DefaultBeatsPerChord
	}
	if v.Velocity == 0 || v.Velocity > 127 {
		v.Velocity = DefaultVelocity
	}

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(m.ticksPerQuarter)

	var track smf.Track
	if p.Name != "" {
		track.Add(0, smf.MetaTrackSequenceName(p.Name))
	}
	track.Add(0, smf.MetaTempo(v.Tempo))
	track.Add(0, smf.MetaMeter(4, 4))

	duration := uint32(m.ticksPerQuarter) * uint32(v.BeatsPerChord)
	for _, c := range p.Chords {
		keys, err := VoiceChord(c, v)
		if err != nil {
			return nil, err
		}

		track.Add(0, smf.MetaMarker(c.Name()))
		for _, k := range keys {
			track.Add(0, midi.NoteOn(v.Channel, k, v.Velocity))
		}
		for i, k := range keys {
			var delta uint32
			if i == 0 {
				delta = duration
			}
			track.Add(delta, midi.NoteOff(v.Channel, k))
		}
	}
	track.Close(0)

	if err := s.Add(track); err != nil {
		return nil, fmt.Errorf("failed to add track: %w", err)
	}

	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write MIDI: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteMIDIFile renders a progression to a MIDI file
func (m *MIDIConverter) WriteMIDIFile(p *Progression, v Voicing, filename string) error {
	data, err := m.GenerateMIDI(p, v)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0644)
}
