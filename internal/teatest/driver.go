// Package teatest drives bubbletea models in tests without a tea.Program.
//
// Messages go straight to Update and every returned Cmd is run inline, so a
// test sees the model settle before its next assertion. Cmds that block
// (cursor blink timers) are abandoned after a short wait.
package teatest

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// maxDepth bounds Cmd chains that keep producing new messages.
const maxDepth = 64

// cmdWait separates instant Cmds from timer-driven ones such as cursor blink.
const cmdWait = 10 * time.Millisecond

// Driver feeds input to a model and keeps the latest model value.
type Driver struct {
	T     *testing.T
	Model tea.Model

	// Quit is set once a Cmd returns tea.QuitMsg. Further input is ignored.
	Quit bool
}

// Option configures a Driver.
type Option func(*Driver)

// WithSize delivers a WindowSizeMsg before anything else.
func WithSize(width, height int) Option {
	return func(d *Driver) {
		d.Model, _ = d.Model.Update(tea.WindowSizeMsg{Width: width, Height: height})
	}
}

// New wraps model, applies opts and runs the model's Init Cmd.
func New(t *testing.T, model tea.Model, opts ...Option) *Driver {
	t.Helper()
	d := &Driver{T: t, Model: model}
	for _, opt := range opts {
		opt(d)
	}
	d.run(model.Init(), 0)
	return d
}

// Send delivers msg and runs the resulting Cmds.
func (d *Driver) Send(msg tea.Msg) {
	d.T.Helper()
	if d.Quit {
		return
	}
	var cmd tea.Cmd
	d.Model, cmd = d.Model.Update(msg)
	d.run(cmd, 0)
}

// Press sends each key by name: "up", "down", "left", "right", "enter",
// "esc", "space", "backspace", "ctrl+c". Anything else is sent as runes.
func (d *Driver) Press(keys ...string) {
	d.T.Helper()
	for _, k := range keys {
		d.Send(keyMsg(k))
	}
}

// Type sends s one rune at a time.
func (d *Driver) Type(s string) {
	d.T.Helper()
	for _, r := range s {
		d.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// View returns the model's current rendering.
func (d *Driver) View() string {
	return d.Model.View()
}

// Lines returns the rendering split into lines.
func (d *Driver) Lines() []string {
	return strings.Split(d.View(), "\n")
}

var namedKeys = map[string]tea.KeyType{
	"up":        tea.KeyUp,
	"down":      tea.KeyDown,
	"left":      tea.KeyLeft,
	"right":     tea.KeyRight,
	"enter":     tea.KeyEnter,
	"esc":       tea.KeyEsc,
	"space":     tea.KeySpace,
	"backspace": tea.KeyBackspace,
	"ctrl+c":    tea.KeyCtrlC,
}

func keyMsg(name string) tea.KeyMsg {
	if t, ok := namedKeys[name]; ok {
		if t == tea.KeySpace {
			return tea.KeyMsg{Type: t, Runes: []rune{' '}}
		}
		return tea.KeyMsg{Type: t}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(name)}
}

func (d *Driver) run(cmd tea.Cmd, depth int) {
	d.T.Helper()
	if cmd == nil {
		return
	}
	if depth >= maxDepth {
		d.T.Logf("teatest: Cmd chain deeper than %d, stopping", maxDepth)
		return
	}

	msg := await(cmd)
	switch msg := msg.(type) {
	case nil:
		return
	case tea.BatchMsg:
		for _, sub := range msg {
			d.run(sub, depth+1)
		}
		return
	case tea.QuitMsg:
		d.Quit = true
		d.Model, _ = d.Model.Update(msg)
		return
	}
	if blink(msg) {
		return
	}

	var next tea.Cmd
	d.Model, next = d.Model.Update(msg)
	d.run(next, depth+1)
}

// await runs cmd and gives up after cmdWait.
func await(cmd tea.Cmd) tea.Msg {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(cmdWait):
		return nil
	}
}

// blink matches the unexported blink message types of bubbles/cursor.
func blink(msg tea.Msg) bool {
	return strings.Contains(strings.ToLower(fmt.Sprintf("%T", msg)), "blink")
}
