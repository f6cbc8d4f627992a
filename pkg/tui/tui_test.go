package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/james-see/chordkit/pkg/converter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

func newModel() Model {
	return New(converter.New(converter.DefaultVoicing()))
}

func TestMenuNavigation(t *testing.T) {
	m := newModel()
	assert.Equal(t, StateMenu, m.state)

	m = send(t, m, key("up"))
	assert.Equal(t, 0, m.menuIndex)

	for range menuItems {
		m = send(t, m, key("down"))
	}
	assert.Equal(t, len(menuItems)-1, m.menuIndex)

	m = send(t, m, key("k"))
	assert.Equal(t, len(menuItems)-2, m.menuIndex)
}

func TestDescribeFlow(t *testing.T) {
	m := send(t, newModel(), key("enter"))
	require.Equal(t, StateInput, m.state)
	assert.Equal(t, ActionDescribe, m.item.Action)

	m.input.SetValue("Cmaj7")
	m = send(t, m, key("enter"))
	require.Equal(t, StateResult, m.state)
	require.NoError(t, m.err)
	assert.Contains(t, m.result, "Notes: C E G B")
	assert.Contains(t, m.View(), "This is a chord named Cmaj7")

	m = send(t, m, key("enter"))
	assert.Equal(t, StateMenu, m.state)
	assert.Empty(t, m.result)
}

func TestDescribeFlowError(t *testing.T) {
	m := send(t, newModel(), key("enter"))
	m.input.SetValue("Cxyz")
	m = send(t, m, key("enter"))

	require.Equal(t, StateResult, m.state)
	assert.Error(t, m.err)
	assert.Contains(t, m.View(), "ERROR")
}

func TestInputEscReturnsToMenu(t *testing.T) {
	m := send(t, newModel(), key("enter"), key("esc"))
	assert.Equal(t, StateMenu, m.state)
}

func TestIdentifyHelper(t *testing.T) {
	out, err := identify("E C G")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "C/E\n"))

	_, err = identify("   ")
	assert.Error(t, err)

	_, err = identify("C H")
	assert.Error(t, err)
}

func TestQualitiesScreen(t *testing.T) {
	m := newModel()
	for i, item := range menuItems {
		if item.Action == ActionQualities {
			m.menuIndex = i
		}
	}
	m = send(t, m, key("enter"))
	require.Equal(t, StateResult, m.state)
	assert.Contains(t, m.result, "(major)")
	assert.Contains(t, m.result, "maj7")
}

func TestFilePickerFilters(t *testing.T) {
	tests := []struct {
		action Action
		want   []string
	}{
		{ActionAnalyzeMIDI, []string{".mid", ".midi"}},
		{ActionRenderMIDI, []string{".txt", ".chords"}},
	}
	for _, tt := range tests {
		m := newModel()
		for i, item := range menuItems {
			if item.Action == tt.action {
				m.menuIndex = i
			}
		}
		m = send(t, m, key("enter"))
		assert.Equal(t, StateFilePicker, m.state)
		assert.Equal(t, tt.want, m.filePicker.AllowedTypes)

		m = send(t, m, key("esc"))
		assert.Equal(t, StateMenu, m.state)
	}
}

func TestPerformConversion(t *testing.T) {
	dir := t.TempDir()
	textPath := filepath.Join(dir, "song.txt")
	require.NoError(t, os.WriteFile(textPath, []byte("Dm7 G7 | Cmaj7\n"), 0644))

	m := newModel()
	m.item = MenuItem{Title: "Chords → MIDI", Action: ActionRenderMIDI}
	m.selectedFile = textPath

	done, ok := m.performConversion()().(workDoneMsg)
	require.True(t, ok)
	require.NoError(t, done.err)
	assert.Equal(t, filepath.Join(dir, "song.mid"), done.outputFile)

	m.item = MenuItem{Title: "MIDI → chords", Action: ActionAnalyzeMIDI}
	m.selectedFile = done.outputFile
	done, ok = m.performConversion()().(workDoneMsg)
	require.True(t, ok)
	require.NoError(t, done.err)
	assert.Equal(t, "Dm7 | G7 | Cmaj7", done.summary)

	m = send(t, m, done)
	assert.Equal(t, StateResult, m.state)
	assert.Contains(t, m.View(), "Conversion complete")
}

func TestQuitFromMenu(t *testing.T) {
	_, cmd := newModel().Update(key("q"))
	require.NotNil(t, cmd)
	_, isQuit := cmd().(tea.QuitMsg)
	assert.True(t, isQuit)
}
