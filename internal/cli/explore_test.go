package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func newTestExplore(t *testing.T) exploreModel {
	t.Helper()
	fs, err := loadFrames(acmeScene, nil)
	if err != nil {
		t.Fatalf("loadFrames: %v", err)
	}
	return newExploreModel(context.Background(), fs, filepath.Join(t.TempDir(), "acme"))
}

func press(m exploreModel, keys ...tea.KeyMsg) exploreModel {
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(exploreModel)
	}
	return m
}

var (
	keyLeft  = tea.KeyMsg{Type: tea.KeyLeft}
	keyRight = tea.KeyMsg{Type: tea.KeyRight}
	keyEnd   = tea.KeyMsg{Type: tea.KeyEnd}
	keyHome  = tea.KeyMsg{Type: tea.KeyHome}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestExploreNavigation(t *testing.T) {
	m := newTestExplore(t)
	if m.item != -1 {
		t.Fatalf("initial item = %d, want -1", m.item)
	}

	tests := []struct {
		name string
		keys []tea.KeyMsg
		want int
	}{
		{"left from none jumps to last", []tea.KeyMsg{keyLeft}, 7},
		{"right from none starts at first", []tea.KeyMsg{keyRight}, 0},
		{"right stops at last", []tea.KeyMsg{keyEnd, keyRight, keyRight}, 7},
		{"left stops at first", []tea.KeyMsg{keyHome, keyLeft}, 0},
		{"vim keys", []tea.KeyMsg{keyHome, runeKey('l'), runeKey('l'), runeKey('h')}, 1},
		{"esc clears", []tea.KeyMsg{keyRight, keyEsc}, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := press(m, tt.keys...).item; got != tt.want {
				t.Errorf("item = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestExploreRedrawsPointerOverlays(t *testing.T) {
	m := newTestExplore(t)

	// group, moving average, single value, rsi and stochastic react to
	// pointer movement; labels and series do not.
	if len(m.lines) != 5 {
		t.Fatalf("got %d redrawn overlays, want 5", len(m.lines))
	}

	before := m.redraw
	m = press(m, keyHome, keyRight)
	if m.redraw != before+2 {
		t.Errorf("redraw = %d, want %d", m.redraw, before+2)
	}

	var rsi string
	for _, l := range m.lines {
		if l.err != nil {
			t.Errorf("%s: %v", l.kind, l.err)
		}
		if l.kind == "tooltip.RSI" {
			rsi = l.text
		}
	}
	if !strings.Contains(rsi, "58.70") {
		t.Errorf("RSI line = %q, want the value of row 1", rsi)
	}
	if !strings.Contains(m.View(), "1/7") {
		t.Error("view should show the hovered row")
	}
}

func TestExploreSaveAndQuit(t *testing.T) {
	m := newTestExplore(t)
	m = press(m, keyRight, runeKey('s'))
	if !strings.Contains(m.status, "saved") {
		t.Fatalf("status = %q", m.status)
	}
	if _, err := os.Stat(m.base + "-item0.svg"); err != nil {
		t.Errorf("saved frame missing: %v", err)
	}

	_, cmd := m.Update(runeKey('q'))
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}
