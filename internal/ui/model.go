// ABOUTME: Bubbletea model for the synthesizer TUI
// ABOUTME: Defines playback state, rendering and key handling
package ui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TrackStatus describes one playing song
type TrackStatus struct {
	Name     string
	Binding  string
	Position time.Duration
	Duration time.Duration
	Loops    int
	Done     bool
}

// Model represents the TUI state
type Model struct {
	// Engine
	engine     string
	soundfont  string
	sampleRate int
	polyphony  int

	// Playback
	tracks    []TrackStatus
	live      int
	listening bool
	portName  string
	volume    int
	muted     bool

	// Runtime
	goroutines int
	memAlloc   uint64

	showDebug bool

	width  int
	height int

	volumeCtrl *VolumeControl
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case StatusMsg:
		m.applyStatus(msg)
	}

	return m, nil
}

// View renders the TUI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	s := ""
	s += m.renderHeader()
	s += m.renderTracks()
	s += m.renderControls()

	if m.showDebug {
		s += m.renderDebug()
	}

	s += m.renderHelp()

	return s
}

func (m Model) renderHeader() string {
	soundfont := m.soundfont
	if soundfont == "" {
		soundfont = "(none)"
	}

	return fmt.Sprintf(`┌─ Sendspin MIDI ──────────────────────────────────────┐
│ Engine:    %-42s │
│ Soundfont: %-42s │
│ Output:    %-42s │
├──────────────────────────────────────────────────────┤
`, truncate(m.engine, 42), truncate(soundfont, 42),
		fmt.Sprintf("%dHz Stereo 16-bit, %d voices", m.sampleRate, m.polyphony))
}

func (m Model) renderTracks() string {
	s := ""
	if m.listening {
		s += fmt.Sprintf("│ Live input: %-41s │\n", truncate(m.portName, 41))
	}

	if len(m.tracks) == 0 {
		if !m.listening {
			s += "│ Nothing playing                                      │\n"
		}
		return s
	}

	for _, t := range m.tracks {
		state := formatProgress(t.Position, t.Duration)
		if t.Done {
			state = "done"
		} else if t.Loops > 0 {
			state += fmt.Sprintf(" (loop %d)", t.Loops)
		}
		s += fmt.Sprintf("│ %-24s %-8s %-19s │\n", truncate(t.Name, 24), t.Binding, truncate(state, 19))
	}

	return s
}

func (m Model) renderControls() string {
	muteIcon := ""
	if m.muted {
		muteIcon = " [muted]"
	}

	return fmt.Sprintf("├──────────────────────────────────────────────────────┤\n"+
		"│ Volume: [%s] %3d%%%-23s │\n"+
		"│ Decoders: %-42d │\n",
		renderBar(m.volume, 100, 10), m.volume, muteIcon, m.live)
}

func (m Model) renderHelp() string {
	return `│ ↑/↓:Volume  m:Mute  r:Reset  d:Debug  q:Quit         │
└──────────────────────────────────────────────────────┘
`
}

func (m Model) renderDebug() string {
	return fmt.Sprintf(`│ DEBUG:                                               │
│   Goroutines: %-38d │
│   Heap:       %-38s │
`, m.goroutines, fmt.Sprintf("%.1f MiB", float64(m.memAlloc)/(1024*1024)))
}

// handleKey handles keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		if m.volumeCtrl != nil {
			select {
			case m.volumeCtrl.Quit <- QuitMsg{}:
			default:
			}
		}
		return m, tea.Quit
	case "up":
		if m.volume < 100 {
			m.volume += 5
			if m.volume > 100 {
				m.volume = 100
			}
			m.sendVolume()
		}
	case "down":
		if m.volume > 0 {
			m.volume -= 5
			if m.volume < 0 {
				m.volume = 0
			}
			m.sendVolume()
		}
	case "m":
		m.muted = !m.muted
		m.sendVolume()
	case "r":
		if m.volumeCtrl != nil {
			select {
			case m.volumeCtrl.Resets <- ResetMsg{}:
			default:
			}
		}
	case "d":
		m.showDebug = !m.showDebug
	}

	return m, nil
}

func (m Model) sendVolume() {
	if m.volumeCtrl == nil {
		return
	}
	select {
	case m.volumeCtrl.Changes <- VolumeChangeMsg{Volume: m.volume, Muted: m.muted}:
	default:
	}
}

// applyStatus updates model from status message
func (m *Model) applyStatus(msg StatusMsg) {
	if msg.Engine != "" {
		m.engine = msg.Engine
	}
	if msg.Soundfont != "" {
		m.soundfont = msg.Soundfont
	}
	if msg.SampleRate != 0 {
		m.sampleRate = msg.SampleRate
		m.polyphony = msg.Polyphony
	}
	if msg.Tracks != nil {
		m.tracks = msg.Tracks
	}
	if msg.Live != nil {
		m.live = *msg.Live
	}
	if msg.Listening != nil {
		m.listening = *msg.Listening
		m.portName = msg.PortName
	}
	if msg.Volume != 0 {
		m.volume = msg.Volume
	}
	if msg.Goroutines != 0 {
		m.goroutines = msg.Goroutines
		m.memAlloc = msg.MemAlloc
	}
}

// StatusMsg updates TUI state. Zero fields leave the current value alone.
type StatusMsg struct {
	Engine     string
	Soundfont  string
	SampleRate int
	Polyphony  int
	Tracks     []TrackStatus
	Live       *int
	Listening  *bool
	PortName   string
	Volume     int
	Goroutines int
	MemAlloc   uint64
}

// Utility functions
func renderBar(value, max, width int) string {
	filled := (value * width) / max
	bar := ""
	for i := 0; i < width; i++ {
		if i < filled {
			bar += "█"
		} else {
			bar += "░"
		}
	}
	return bar
}

func truncate(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length-3] + "..."
}

func formatProgress(pos, total time.Duration) string {
	return fmt.Sprintf("%s / %s", formatDuration(pos), formatDuration(total))
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	return fmt.Sprintf("%d:%02d", int(d/time.Minute), int(d%time.Minute/time.Second))
}
