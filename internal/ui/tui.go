// ABOUTME: TUI initialization and control
// ABOUTME: Wraps bubbletea program and the channels it reports key actions on
package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// VolumeChangeMsg carries a volume or mute change from the keyboard
type VolumeChangeMsg struct {
	Volume int
	Muted  bool
}

// ResetMsg asks playback to silence and restart
type ResetMsg struct{}

// QuitMsg signals the user quit the TUI
type QuitMsg struct{}

// VolumeControl holds channels for control communication
type VolumeControl struct {
	Changes chan VolumeChangeMsg
	Resets  chan ResetMsg
	Quit    chan QuitMsg
}

// NewVolumeControl creates a new control handler
func NewVolumeControl() *VolumeControl {
	return &VolumeControl{
		Changes: make(chan VolumeChangeMsg, 10),
		Resets:  make(chan ResetMsg, 1),
		Quit:    make(chan QuitMsg, 1),
	}
}

// NewModel creates a new TUI model
func NewModel(volCtrl *VolumeControl) Model {
	return Model{
		volume:     100,
		volumeCtrl: volCtrl,
	}
}

// Run creates the TUI program; the caller starts it
func Run(volCtrl *VolumeControl) (*tea.Program, error) {
	p := tea.NewProgram(NewModel(volCtrl), tea.WithAltScreen())
	return p, nil
}
