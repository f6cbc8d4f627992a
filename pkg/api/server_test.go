package api

import (
	"bytes"
	"encoding/json"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/james-see/chordkit/pkg/config"
	"github.com/james-see/chordkit/pkg/converter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServer() *Server {
	gin.SetMode(gin.TestMode)
	return NewServer(&config.Config{
		Environment:   "test",
		Port:          0,
		Octave:        4,
		Tempo:         120,
		Velocity:      96,
		BeatsPerChord: 4,
	})
}

func doRequest(t *testing.T, h http.Handler, method, target string, body []byte, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func TestHealthCheck(t *testing.T) {
	router := testServer().Router()

	for _, path := range []string{"/health", "/api/v1/health"} {
		w := doRequest(t, router, http.MethodGet, path, nil, "")
		assert.Equal(t, http.StatusOK, w.Code)

		var resp map[string]string
		decode(t, w, &resp)
		assert.Equal(t, "healthy", resp["status"])
		assert.NotEmpty(t, w.Header().Get(requestIDHeader))
	}
}

func TestRequestIDIsPropagated(t *testing.T) {
	router := testServer().Router()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "client-supplied")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "client-supplied", w.Header().Get(requestIDHeader))
}

func TestListQualities(t *testing.T) {
	w := doRequest(t, testServer().Router(), http.MethodGet, "/api/v1/qualities", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Qualities []struct {
			Label     string   `json:"label"`
			Intervals []string `json:"intervals"`
		} `json:"qualities"`
	}
	decode(t, w, &resp)
	require.NotEmpty(t, resp.Qualities)

	labels := map[string][]string{}
	for _, q := range resp.Qualities {
		labels[q.Label] = q.Intervals
	}
	assert.Equal(t, []string{"M3", "P5", "M7"}, labels["maj7"])
	assert.Equal(t, []string{"M3", "P5"}, labels[""])
}

func TestDescribeChord(t *testing.T) {
	router := testServer().Router()

	tests := []struct {
		name       string
		chord      string
		wantStatus int
		wantNotes  []string
		wantSlash  string
	}{
		{"major seventh", "Cmaj7", http.StatusOK, []string{"C", "E", "G", "B"}, ""},
		{"slash chord", "Fsus2/Bb", http.StatusOK, []string{"F", "G", "C", "Bb"}, "Bb"},
		{"sharp nine", "A7#9", http.StatusOK, []string{"A", "C", "Db", "E", "G"}, ""},
		{"unknown quality", "Cxyz", http.StatusNotFound, nil, ""},
		{"malformed", "C/E/G", http.StatusBadRequest, nil, ""},
		{"unknown root", "Hm", http.StatusBadRequest, nil, ""},
		{"empty", "", http.StatusBadRequest, nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, router, http.MethodGet, "/api/v1/chord?name="+url.QueryEscape(tt.chord), nil, "")
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantStatus != http.StatusOK {
				var resp map[string]string
				decode(t, w, &resp)
				assert.NotEmpty(t, resp["error"])
				return
			}

			var resp ChordResponse
			decode(t, w, &resp)
			assert.Equal(t, tt.chord, resp.Name)
			assert.Equal(t, tt.wantNotes, resp.Notes)
			assert.Equal(t, tt.wantSlash, resp.Slash)
			assert.True(t, strings.HasPrefix(resp.Description, "This is a"))
		})
	}
}

func TestDescribeChordIntervals(t *testing.T) {
	w := doRequest(t, testServer().Router(), http.MethodGet, "/api/v1/chord?name=Cmaj7", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp ChordResponse
	decode(t, w, &resp)
	require.Len(t, resp.Intervals, 3)
	assert.Equal(t, IntervalResponse{Semitones: 4, Name: "major third", Short: "M3"}, resp.Intervals[0])
	assert.Equal(t, 11, resp.Intervals[2].Semitones)
}

func TestTransposeChord(t *testing.T) {
	router := testServer().Router()

	w := doRequest(t, router, http.MethodGet, "/api/v1/chord/transpose?name="+url.QueryEscape("Cmaj7/E")+"&semitones=2", nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp ChordResponse
	decode(t, w, &resp)
	assert.Equal(t, "Dmaj7/Gb", resp.Name)

	w = doRequest(t, router, http.MethodGet, "/api/v1/chord/transpose?name=C&semitones=up", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIdentifyChord(t *testing.T) {
	router := testServer().Router()

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantName   string
	}{
		{"triad", `{"notes":["C","E","G"]}`, http.StatusOK, "C"},
		{"inversion over bass", `{"notes":["C","G"],"bass":"E"}`, http.StatusOK, "C/E"},
		{"minor", `{"notes":["A","C","E"]}`, http.StatusOK, "Am"},
		{"unknown set", `{"notes":["C","Db","D"]}`, http.StatusUnprocessableEntity, ""},
		{"bad note", `{"notes":["C","H"]}`, http.StatusBadRequest, ""},
		{"missing notes", `{}`, http.StatusBadRequest, ""},
		{"invalid json", `{`, http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, router, http.MethodPost, "/api/v1/chord/identify", []byte(tt.body), "application/json")
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantStatus == http.StatusOK {
				var resp ChordResponse
				decode(t, w, &resp)
				assert.Equal(t, tt.wantName, resp.Name)
			}
		})
	}
}

func TestDescribeScale(t *testing.T) {
	router := testServer().Router()

	w := doRequest(t, router, http.MethodGet, "/api/v1/scales/D/dorian?chord=Dm7", nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp ScaleResponse
	decode(t, w, &resp)
	assert.Equal(t, "D dorian", resp.Name)
	assert.Equal(t, []string{"D", "E", "F", "G", "A", "B", "C"}, resp.Notes)
	assert.Len(t, resp.Triads, 7)
	require.NotNil(t, resp.Contains)
	assert.True(t, *resp.Contains)

	w = doRequest(t, router, http.MethodGet, "/api/v1/scales/D/dorian?chord=Db", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &resp)
	require.NotNil(t, resp.Contains)
	assert.False(t, *resp.Contains)

	w = doRequest(t, router, http.MethodGet, "/api/v1/scales/D/klingon", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(t, router, http.MethodGet, "/api/v1/scales/X/major", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChordsToMIDIAndBack(t *testing.T) {
	router := testServer().Router()

	body := `{"chords":["Dm7","G7","Cmaj7"],"tempo":100}`
	w := doRequest(t, router, http.MethodPost, "/api/v1/convert/chords2midi", []byte(body), "application/json")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "audio/midi", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "progression.mid")
	midiData := w.Body.Bytes()
	assert.Equal(t, converter.FormatMIDI, converter.DetectFormatFromContent(midiData))

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "progression.mid")
	require.NoError(t, err)
	_, err = part.Write(midiData)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	w = doRequest(t, router, http.MethodPost, "/api/v1/convert/midi2chords", buf.Bytes(), mw.FormDataContentType())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Filename string   `json:"filename"`
		Tempo    float64  `json:"tempo"`
		Chords   []string `json:"chords"`
	}
	decode(t, w, &resp)
	assert.Equal(t, "progression.mid", resp.Filename)
	assert.Equal(t, []string{"Dm7", "G7", "Cmaj7"}, resp.Chords)
	assert.InDelta(t, 100.0, resp.Tempo, 0.01)
}

func TestConvertRejectsBadInput(t *testing.T) {
	router := testServer().Router()

	w := doRequest(t, router, http.MethodPost, "/api/v1/convert/chords2midi", []byte(`{"chords":["Cxyz"]}`), "application/json")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(t, router, http.MethodPost, "/api/v1/convert/chords2midi", []byte(`{"chords":[]}`), "application/json")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, router, http.MethodPost, "/api/v1/convert/midi2chords", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "notes.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("Dm7 G7 Cmaj7"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	w = doRequest(t, router, http.MethodPost, "/api/v1/convert/midi2chords", buf.Bytes(), mw.FormDataContentType())
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChordsToMIDIRejectsNonChordEntries(t *testing.T) {
	router := testServer().Router()

	var logs bytes.Buffer
	prev := log.Writer()
	log.SetOutput(&logs)
	t.Cleanup(func() { log.SetOutput(prev) })

	tests := []struct {
		name string
		body string
	}{
		{"bar line only", `{"chords":["|"]}`},
		{"comment marker", `{"chords":["#C"]}`},
		{"bar line between chords", `{"chords":["C","|","G"]}`},
		{"empty list", `{"chords":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, router, http.MethodPost, "/api/v1/convert/chords2midi", []byte(tt.body), "application/json")
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
	assert.NotContains(t, logs.String(), "[ERROR]")
}

func TestStatusForEmptyProgression(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusFor(converter.ErrEmptyProgression))
}

func TestCORSPreflight(t *testing.T) {
	h := testServer().Handler()

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/chord/identify", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, statusFor(assert.AnError))
}

func TestListFormats(t *testing.T) {
	w := doRequest(t, testServer().Router(), http.MethodGet, "/api/v1/formats", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string][]string
	decode(t, w, &resp)
	assert.Equal(t, converter.GetSupportedConversions(), resp["conversions"])
}
