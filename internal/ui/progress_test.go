package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"brook/internal/driver"
)

func TestProgressFollowsEvents(t *testing.T) {
	events := make(chan driver.Event)
	m := newProgressModel("build", []string{"a.bk", "b.bk", "c.bk", "d.bk"}, events)

	m.applyEvent(driver.Event{File: "a.bk", Stage: driver.StageGenerate, Status: driver.StatusWorking})
	m.applyEvent(driver.Event{File: "b.bk", Status: driver.StatusDone})
	m.applyEvent(driver.Event{File: "c.bk", Status: driver.StatusCached})
	m.applyEvent(driver.Event{File: "unknown.bk", Status: driver.StatusDone})

	if got, want := m.percent(), (0.5+1+1)/4; got != want {
		t.Fatalf("percent = %v, want %v", got, want)
	}
	view := m.View()
	for _, want := range []string{"build  2/4", "lowering a.bk", "done b.bk", "cached c.bk", "queued d.bk"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	m.applyEvent(driver.Event{File: "a.bk", Status: driver.StatusError})
	if _, failed, _ := m.counts(); failed != 1 {
		t.Fatalf("failed = %d", failed)
	}

	_, cmd := m.Update(doneMsg{})
	if !m.done || cmd == nil {
		t.Fatal("closing the event stream must finish the model")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("done must quit the program")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short.bk", 20, "short.bk"},
		{"a/very/long/path.bk", 10, "a/very/..."},
		{"变变变变", 5, "变..."},
		{"abcdef", 3, "abc"},
		{"abc", 0, "abc"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
