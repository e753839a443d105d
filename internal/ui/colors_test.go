package ui

import (
	"strings"
	"testing"
)

func TestPalette(t *testing.T) {
	p := NewPalette("#7D56F4", "#04B575", "#FF0000", "#FFA500", "#626262")

	tests := []struct {
		name   string
		render func(string) string
	}{
		{"Title", p.Title},
		{"OK", p.OK},
		{"Err", p.Err},
		{"Warn", p.Warn},
		{"Help", p.Help},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.render("catalog"); !strings.Contains(got, "catalog") {
				t.Errorf("%s dropped its text: %q", tt.name, got)
			}
		})
	}

	t.Run("Mark", func(t *testing.T) {
		if !strings.Contains(p.Mark(true), "✓") {
			t.Error("expected pass mark")
		}
		if !strings.Contains(p.Mark(false), "✗") {
			t.Error("expected fail mark")
		}
	})

	t.Run("Default", func(t *testing.T) {
		if Default() != styles {
			t.Error("expected Default to return the shared palette")
		}
	})
}
