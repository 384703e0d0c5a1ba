package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/objectgrid/pkg/collection"
	"github.com/matzehuels/objectgrid/pkg/layout"
)

func testLayout(n int) layout.Layout {
	l := layout.Layout{Scene: "shelf", Config: collection.DefaultConfig()}
	for i := range n {
		l.Placements = append(l.Placements, layout.Placement{
			Key:      string(rune('a' + i)),
			Name:     "Item " + string(rune('A'+i)),
			Rotation: [4]float64{1, 0, 0, 0},
			Forward:  [3]float64{0, 0, 1},
		})
	}
	return l
}

func press(m tea.Model, keys ...string) tea.Model {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m, _ = m.Update(msg)
	}
	return m
}

func TestPlacementModelNavigation(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want int
	}{
		{"start", nil, 0},
		{"down", []string{"down", "j"}, 2},
		{"clamped at end", []string{"down", "down", "down", "down", "down", "down"}, 4},
		{"clamped at start", []string{"up", "k"}, 0},
		{"last", []string{"G"}, 4},
		{"first", []string{"G", "g"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := press(newPlacementModel(testLayout(5)), tt.keys...).(placementModel)
			if m.cursor != tt.want {
				t.Errorf("cursor = %d, want %d", m.cursor, tt.want)
			}
		})
	}
}

func TestPlacementModelScrolls(t *testing.T) {
	m := tea.Model(newPlacementModel(testLayout(20)))
	m, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 10})
	if got := m.(placementModel).height; got != 5 {
		t.Fatalf("height = %d, want minimum 5", got)
	}

	m = press(m, "G")
	pm := m.(placementModel)
	if pm.offset != 15 {
		t.Errorf("offset = %d, want 15", pm.offset)
	}
	m = press(m, "g")
	if m.(placementModel).offset != 0 {
		t.Errorf("offset = %d after g, want 0", m.(placementModel).offset)
	}
}

func TestPlacementModelView(t *testing.T) {
	m := press(newPlacementModel(testLayout(3)), "down")
	view := m.View()
	for _, want := range []string{"shelf", "Item B", "[2/3]", "Rotation"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}

	if empty := newPlacementModel(layout.Layout{Scene: "void"}).View(); !strings.Contains(empty, "no placements") {
		t.Errorf("empty View() = %q", empty)
	}
}

func TestPlacementModelQuit(t *testing.T) {
	_, cmd := newPlacementModel(testLayout(1)).Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestShortKey(t *testing.T) {
	if got := shortKey("6f1c3d2a-8b4e-5f7a-9c0d-1e2f3a4b5c6d"); got != "6f1c3d2a" {
		t.Errorf("shortKey(uuid) = %q", got)
	}
	if got := shortKey("mug"); got != "mug" {
		t.Errorf("shortKey(mug) = %q", got)
	}
}
