package tui

import (
	"os"
	"strings"
	"sync"

	"planboard/internal/model"
)

// Some terminal fonts render box and check glyphs poorly; PLANBOARD_TUI_GLYPHS=ascii
// switches to plain characters.

type glyphSet int

const (
	glyphSetUnicode glyphSet = iota
	glyphSetASCII
)

var (
	glyphsMu      sync.RWMutex
	currentGlyphs = glyphSetUnicode
)

func applyGlyphPreference() {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("PLANBOARD_TUI_GLYPHS"))) {
	case "", "unicode", "utf8":
		setGlyphs(glyphSetUnicode)
	case "ascii":
		setGlyphs(glyphSetASCII)
	}
}

func setGlyphs(gs glyphSet) {
	glyphsMu.Lock()
	currentGlyphs = gs
	glyphsMu.Unlock()
}

func glyphs() glyphSet {
	glyphsMu.RLock()
	defer glyphsMu.RUnlock()
	return currentGlyphs
}

func glyphStatus(s model.TaskStatus) string {
	ascii := glyphs() == glyphSetASCII
	switch s {
	case model.TaskInProgress:
		if ascii {
			return "[~]"
		}
		return "◐"
	case model.TaskCompleted:
		if ascii {
			return "[x]"
		}
		return "●"
	default:
		if ascii {
			return "[ ]"
		}
		return "○"
	}
}

func glyphComment() string {
	if glyphs() == glyphSetASCII {
		return ">"
	}
	return "›"
}

func glyphPending() string {
	if glyphs() == glyphSetASCII {
		return "..."
	}
	return "…"
}

func glyphHRule() string {
	if glyphs() == glyphSetASCII {
		return "-"
	}
	return "─"
}
