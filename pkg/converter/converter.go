package converter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Format represents a file format
type Format string

const (
	FormatMIDI    Format = "midi"
	FormatText    Format = "text"
	FormatUnknown Format = "unknown"
)

// DetectFormat detects the format of a file based on extension
func DetectFormat(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".mid", ".midi":
		return FormatMIDI
	case ".txt", ".chords":
		return FormatText
	default:
		return FormatUnknown
	}
}

// DetectFormatFromContent detects format from file content
func DetectFormatFromContent(data []byte) Format {
	if len(data) >= 4 && string(data[:4]) == "MThd" {
		return FormatMIDI
	}
	if len(data) > 0 && utf8.Valid(data) {
		return FormatText
	}
	return FormatUnknown
}

// ConvertFile converts a file from one format to another
func (c *Converter) ConvertFile(inputPath, outputPath string) error {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	inputFormat := DetectFormat(inputPath)
	if inputFormat == FormatUnknown {
		inputFormat = DetectFormatFromContent(data)
	}

	outputFormat := DetectFormat(outputPath)
	if outputFormat == FormatUnknown {
		return errors.New("cannot determine output format from filename")
	}

	var outputData []byte
	switch {
	case inputFormat == FormatMIDI && outputFormat == FormatText:
		outputData, err = c.MIDIToText(data)
	case inputFormat == FormatText && outputFormat == FormatMIDI:
		outputData, err = c.TextToMIDI(data)
	default:
		return fmt.Errorf("unsupported conversion: %s to %s", inputFormat, outputFormat)
	}

	if err != nil {
		return fmt.Errorf("conversion failed: %w", err)
	}

	if err := os.WriteFile(outputPath, outputData, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	return nil
}

// MIDIToText identifies the chords in MIDI data and writes them as a text progression
func (c *Converter) MIDIToText(midiData []byte) ([]byte, error) {
	p, err := c.MIDIToProgression(midiData)
	if err != nil {
		return nil, err
	}
	return []byte(FormatProgression(p) + "\n"), nil
}

// TextToMIDI renders a text progression as a MIDI file
func (c *Converter) TextToMIDI(text []byte) ([]byte, error) {
	p, err := ParseProgression(string(text))
	if err != nil {
		return nil, err
	}
	return c.ProgressionToMIDI(p)
}

// ProgressionToMIDI renders a progression using the converter's voicing
func (c *Converter) ProgressionToMIDI(p *Progression) ([]byte, error) {
	v := c.voicing
	if p.Tempo > 0 {
		v.Tempo = p.Tempo
	}
	return NewMIDIConverter().GenerateMIDI(p, v)
}

// MIDIToProgression identifies the chords in MIDI data
func (c *Converter) MIDIToProgression(midiData []byte) (*Progression, error) {
	m := NewMIDIConverter()
	detections, err := m.ParseMIDI(midiData)
	if err != nil {
		return nil, err
	}
	if len(detections) == 0 {
		return nil, errors.New("no recognisable chords in MIDI data")
	}
	p := &Progression{Name: "MIDI Progression", Tempo: m.tempo}
	for _, d := range detections {
		p.Chords = append(p.Chords, d.Chord)
	}
	return p, nil
}

// GetSupportedConversions returns a list of supported conversion paths
func GetSupportedConversions() []string {
	return []string{
		"midi -> text",
		"text -> midi",
	}
}
