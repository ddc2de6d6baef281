package ui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"adbuild/internal/network"
	"adbuild/internal/orchestrator"
)

func press(t *testing.T, m PickerModel, msgs ...tea.KeyMsg) PickerModel {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(PickerModel)
	}
	return m
}

var (
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keySpace = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyAll   = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}}
	keyQuit  = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}
)

func TestPicker_SelectionIsSortedPositions(t *testing.T) {
	m := NewPicker(network.DefaultCatalog(), NewStyles(LightTheme()))

	// Toggle position 5, then position 2 on the way back up.
	m = press(t, m, keyDown, keyDown, keyDown, keyDown, keySpace, keyUp, keyUp, keyUp, keySpace, keyEnter)

	if got := m.Selection(); got != "2,5" {
		t.Fatalf("Selection() = %q, want %q", got, "2,5")
	}
	if m.Canceled() {
		t.Fatal("picker should not be canceled after enter")
	}
}

func TestPicker_ToggleTwiceDeselects(t *testing.T) {
	m := NewPicker(network.DefaultCatalog(), NewStyles(LightTheme()))
	m = press(t, m, keySpace, keySpace)
	if got := m.Selection(); got != "" {
		t.Fatalf("Selection() = %q, want empty", got)
	}
}

func TestPicker_AllToggle(t *testing.T) {
	catalog, err := network.NewCatalog([]string{"unity", "vungle", "tiktok"})
	if err != nil {
		t.Fatal(err)
	}
	m := NewPicker(catalog, NewStyles(LightTheme()))

	m = press(t, m, keyAll)
	if got := m.Selection(); got != "1,2,3" {
		t.Fatalf("after all: %q", got)
	}
	m = press(t, m, keyAll)
	if got := m.Selection(); got != "" {
		t.Fatalf("after none: %q", got)
	}
}

func TestPicker_CursorBounds(t *testing.T) {
	catalog, _ := network.NewCatalog([]string{"unity", "vungle"})
	m := NewPicker(catalog, NewStyles(LightTheme()))
	m = press(t, m, keyUp, keyDown, keyDown, keyDown, keySpace)
	if got := m.Selection(); got != "2" {
		t.Fatalf("Selection() = %q, want 2", got)
	}
}

func TestPicker_Quit(t *testing.T) {
	m := NewPicker(network.DefaultCatalog(), NewStyles(LightTheme()))
	m = press(t, m, keySpace, keyQuit)
	if !m.Canceled() {
		t.Fatal("expected canceled")
	}
	if m.View() != "" {
		t.Fatal("view should be empty after quit")
	}
}

func TestPicker_View(t *testing.T) {
	m := NewPicker(network.DefaultCatalog(), NewStyles(LightTheme()))
	m = press(t, m, keySpace)
	view := m.View()
	for _, want := range []string{"Select networks to build", "[x]", " 1. development", "17. vungle", "enter build"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestRenderSummary(t *testing.T) {
	out := RenderSummary(NewStyles(LightTheme()), []orchestrator.BuildOutcome{
		{Network: "unity", Success: true, OutputDir: "dist/game_unity"},
		{Network: "tiktok", Success: true, Warnings: []error{errors.New("config.json missing")}},
		{Network: "vungle", Err: errors.New("bundler invocation failed")},
	})

	for _, want := range []string{"unity", "dist/game_unity", "config.json missing", "bundler invocation failed", "Summary: 1 built, 1 partial, 1 failed"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestDetectTheme(t *testing.T) {
	t.Setenv("COLORFGBG", "15;0")
	if !DetectTheme().IsDark {
		t.Error("expected dark theme for background 0")
	}
	t.Setenv("COLORFGBG", "0;15")
	t.Setenv("ADBUILD_DARK_MODE", "")
	if DetectTheme().IsDark {
		t.Error("expected light theme for background 15")
	}
}
