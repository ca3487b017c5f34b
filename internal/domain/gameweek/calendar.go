package gameweek

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed default_calendar.toml
var defaultCalendar []byte

// Window is the inclusive date range of one gameweek.
type Window struct {
	Gameweek int            `toml:"gw"`
	Start    toml.LocalDate `toml:"start"`
	End      toml.LocalDate `toml:"end"`
}

type calendarFile struct {
	Gameweeks []Window `toml:"gameweek"`
}

// Calendar assigns kickoffs to gameweeks by date.
type Calendar struct {
	windows []Window
}

// Default returns the built-in season calendar.
func Default() *Calendar {
	cal, err := Parse(defaultCalendar)
	if err != nil {
		panic(fmt.Sprintf("built-in gameweek calendar: %v", err))
	}
	return cal
}

// Load reads a calendar file, or returns Default when path is empty.
func Load(path string) (*Calendar, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read gameweek calendar: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Calendar, error) {
	var file calendarFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse gameweek calendar: %w", err)
	}
	return New(file.Gameweeks)
}

func New(windows []Window) (*Calendar, error) {
	if len(windows) == 0 {
		return nil, fmt.Errorf("gameweek calendar has no windows")
	}

	sorted := make([]Window, len(windows))
	copy(sorted, windows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return dayKey(sorted[i].Start) < dayKey(sorted[j].Start)
	})

	for i, w := range sorted {
		if w.Gameweek <= 0 {
			return nil, fmt.Errorf("gameweek must be > 0, got %d", w.Gameweek)
		}
		if dayKey(w.Start) > dayKey(w.End) {
			return nil, fmt.Errorf("gameweek %d starts after it ends", w.Gameweek)
		}
		if i > 0 && dayKey(w.Start) <= dayKey(sorted[i-1].End) {
			return nil, fmt.Errorf("gameweek %d overlaps gameweek %d", w.Gameweek, sorted[i-1].Gameweek)
		}
	}

	return &Calendar{windows: sorted}, nil
}

// Assign returns the gameweek whose window holds the kickoff date, read in the
// kickoff's own location.
func (c *Calendar) Assign(kickoff time.Time) (int, bool) {
	if c == nil {
		return 0, false
	}

	y, m, d := kickoff.Date()
	key := y*10000 + int(m)*100 + d
	idx := sort.Search(len(c.windows), func(i int) bool {
		return dayKey(c.windows[i].End) >= key
	})
	if idx == len(c.windows) || dayKey(c.windows[idx].Start) > key {
		return 0, false
	}
	return c.windows[idx].Gameweek, true
}

func (c *Calendar) Windows() []Window {
	if c == nil {
		return nil
	}
	out := make([]Window, len(c.windows))
	copy(out, c.windows)
	return out
}

func dayKey(d toml.LocalDate) int {
	return d.Year*10000 + d.Month*100 + d.Day
}
