package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/james-see/chordkit/pkg/chord"
	"github.com/james-see/chordkit/pkg/converter"
	"github.com/james-see/chordkit/pkg/logger"
	"github.com/james-see/chordkit/pkg/scale"
	"github.com/james-see/chordkit/pkg/theory"
)

// maxUploadSize bounds MIDI uploads
const maxUploadSize = 4 << 20

// IntervalResponse describes one interval above a chord root
type IntervalResponse struct {
	Semitones int    `json:"semitones"`
	Name      string `json:"name"`
	Short     string `json:"short"`
}

// ChordResponse is the JSON form of a chord
type ChordResponse struct {
	Name        string             `json:"name"`
	Root        string             `json:"root"`
	Quality     string             `json:"quality"`
	Slash       string             `json:"slash,omitempty"`
	Notes       []string           `json:"notes"`
	Intervals   []IntervalResponse `json:"intervals"`
	Description string             `json:"description"`
}

// IdentifyRequest lists sounding notes and an optional bass note
type IdentifyRequest struct {
	Notes []string `json:"notes" binding:"required"`
	Bass  string   `json:"bass,omitempty"`
}

// ProgressionRequest is a chord progression to render as MIDI
type ProgressionRequest struct {
	Chords []string `json:"chords" binding:"required"`
	Tempo  float64  `json:"tempo,omitempty"`
}

// ScaleResponse is the JSON form of a scale
type ScaleResponse struct {
	Name     string   `json:"name"`
	Notes    []string `json:"notes"`
	Triads   []string `json:"triads,omitempty"`
	Sevenths []string `json:"sevenths,omitempty"`
	Contains *bool    `json:"contains,omitempty"`
}

func newChordResponse(c *chord.Chord) ChordResponse {
	resp := ChordResponse{
		Name:        c.Name(),
		Root:        c.Root().String(),
		Quality:     c.Quality(),
		Notes:       pitchNames(c.Notes()),
		Description: c.Description(),
	}
	if slash, ok := c.Slash(); ok {
		resp.Slash = slash.String()
	}
	for _, iv := range c.Intervals() {
		resp.Intervals = append(resp.Intervals, IntervalResponse{
			Semitones: iv.Semitones(),
			Name:      iv.Name(),
			Short:     iv.ShortName(),
		})
	}
	return resp
}

func pitchNames(notes []theory.PitchClass) []string {
	names := make([]string, len(notes))
	for i, n := range notes {
		names[i] = n.String()
	}
	return names
}

func chordNames(chords []*chord.Chord) []string {
	names := make([]string, len(chords))
	for i, c := range chords {
		names[i] = c.Name()
	}
	return names
}

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, chord.ErrMalformedChordName),
		errors.Is(err, theory.ErrInvalidPitchClass),
		errors.Is(err, theory.ErrInvalidInterval),
		errors.Is(err, converter.ErrEmptyProgression):
		return http.StatusBadRequest
	case errors.Is(err, chord.ErrUnknownQualityLabel),
		errors.Is(err, scale.ErrUnknownMode):
		return http.StatusNotFound
	case errors.Is(err, chord.ErrUnknownChordQuality):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error("Request handler failed", err, logger.WithContext(c))
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

// listQualities godoc
// @Summary List chord qualities
// @Description Returns every known chord quality with its interval set
// @Tags chords
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/qualities [get]
func listQualities(c *gin.Context) {
	type quality struct {
		Label       string   `json:"label"`
		Description string   `json:"description"`
		Intervals   []string `json:"intervals"`
	}
	defs := chord.Qualities()
	out := make([]quality, len(defs))
	for i, d := range defs {
		ivs := make([]string, len(d.Intervals))
		for j, iv := range d.Intervals {
			ivs[j] = iv.ShortName()
		}
		out[i] = quality{Label: d.Label, Description: d.Description, Intervals: ivs}
	}
	c.JSON(http.StatusOK, gin.H{"qualities": out})
}

// describeChord godoc
// @Summary Describe a chord
// @Description Parses a chord name such as Cmaj9/G and returns its notes, intervals and description
// @Tags chords
// @Produce json
// @Param name query string true "Chord name"
// @Success 200 {object} ChordResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/chord [get]
func describeChord(c *gin.Context) {
	ch, err := chord.Parse(c.Query("name"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newChordResponse(ch))
}

// transposeChord godoc
// @Summary Transpose a chord
// @Description Moves a chord and its slash note by a number of semitones
// @Tags chords
// @Produce json
// @Param name query string true "Chord name"
// @Param semitones query int true "Semitones, may be negative"
// @Success 200 {object} ChordResponse
// @Failure 400 {object} map[string]string
// @Router /api/v1/chord/transpose [get]
func transposeChord(c *gin.Context) {
	semitones, err := strconv.Atoi(c.Query("semitones"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "semitones must be an integer"})
		return
	}
	ch, err := chord.Parse(c.Query("name"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	moved, err := ch.Transpose(semitones)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newChordResponse(moved))
}

// identifyChord godoc
// @Summary Identify a chord
// @Description Names the chord formed by a set of notes, optionally over a bass note
// @Tags chords
// @Accept json
// @Produce json
// @Param request body IdentifyRequest true "Notes to identify"
// @Success 200 {object} ChordResponse
// @Failure 400 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /api/v1/chord/identify [post]
func identifyChord(c *gin.Context) {
	var req IdentifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	notes := make([]theory.PitchClass, 0, len(req.Notes)+1)
	for _, n := range req.Notes {
		p, err := theory.ParsePitchClass(n)
		if err != nil {
			abortWithError(c, err)
			return
		}
		notes = append(notes, p)
	}

	bass := theory.NoPitch
	if req.Bass != "" {
		p, err := theory.ParsePitchClass(req.Bass)
		if err != nil {
			abortWithError(c, err)
			return
		}
		bass = p
		notes = append(notes, bass)
	}

	ch, err := chord.Identify(notes, bass)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newChordResponse(ch))
}

// describeScale godoc
// @Summary Describe a scale
// @Description Returns a scale's notes and diatonic chords, and optionally whether a chord fits it
// @Tags scales
// @Produce json
// @Param root path string true "Root note, e.g. D or Bb"
// @Param mode path string true "Mode, e.g. dorian"
// @Param chord query string false "Chord to test for membership"
// @Success 200 {object} ScaleResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/scales/{root}/{mode} [get]
func describeScale(c *gin.Context) {
	root, err := theory.ParsePitchClass(c.Param("root"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	mode, err := scale.ParseMode(c.Param("mode"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	s, err := scale.New(root, mode)
	if err != nil {
		abortWithError(c, err)
		return
	}

	resp := ScaleResponse{
		Name:     s.Name(),
		Notes:    pitchNames(s.Notes()),
		Triads:   chordNames(s.Triads()),
		Sevenths: chordNames(s.Sevenths()),
	}
	if name := c.Query("chord"); name != "" {
		ch, err := chord.Parse(name)
		if err != nil {
			abortWithError(c, err)
			return
		}
		contains := s.ContainsChord(ch)
		resp.Contains = &contains
	}
	c.JSON(http.StatusOK, resp)
}

// handleMIDIToChords godoc
// @Summary Identify the chords in a MIDI file
// @Description Upload a MIDI file and receive its chord progression
// @Tags convert
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "MIDI file to analyse"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /api/v1/convert/midi2chords [post]
func (s *Server) handleMIDIToChords(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return
	}
	if converter.DetectFormatFromContent(data) != converter.FormatMIDI {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Uploaded file is not a standard MIDI file"})
		return
	}

	p, err := s.converter.MIDIToProgression(data)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	logger.Info("MIDI analysed", logger.Fields{
		"request_id": c.GetString("request_id"),
		"filename":   header.Filename,
		"chords":     len(p.Chords),
	})
	c.JSON(http.StatusOK, gin.H{
		"filename":    header.Filename,
		"tempo":       p.Tempo,
		"chords":      p.Names(),
		"progression": converter.FormatProgression(p),
	})
}

// handleChordsToMIDI godoc
// @Summary Render a chord progression as MIDI
// @Description Send chord names and receive a standard MIDI file
// @Tags convert
// @Accept json
// @Produce application/octet-stream
// @Param request body ProgressionRequest true "Progression to render"
// @Success 200 {file} binary
// @Failure 400 {object} map[string]string
// @Router /api/v1/convert/chords2midi [post]
func (s *Server) handleChordsToMIDI(c *gin.Context) {
	var req ProgressionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Chords) == 0 {
		abortWithError(c, converter.ErrEmptyProgression)
		return
	}

	p := &converter.Progression{Name: "API Progression", Tempo: req.Tempo}
	for _, name := range req.Chords {
		ch, err := chord.Parse(strings.TrimSpace(name))
		if err != nil {
			abortWithError(c, err)
			return
		}
		p.Chords = append(p.Chords, ch)
	}

	data, err := s.converter.ProgressionToMIDI(p)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="progression.mid"`)
	c.Data(http.StatusOK, "audio/midi", data)
}
