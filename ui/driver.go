package ui

import (
	"context"
	"reflect"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

type Program interface {
	Quit()
	Run() (tea.Model, error)
	Send(tea.Msg)
}

type Driver struct {
	Program

	models []tea.Model
	active tea.Model

	test   bool
	mu     sync.Mutex
	golden string
}

// NewDriverTUI returns a driver backed by a bubbletea program. Without
// interactive, the program never reads from the terminal.
func NewDriverTUI(ctx context.Context, interactive bool) (*Driver, Program) {
	drv := new(Driver)

	opts := []tea.ProgramOption{
		tea.WithContext(ctx),
	}
	if interactive {
		opts = append(opts, tea.WithInputTTY())
	} else {
		opts = append(opts, tea.WithInput(nil))
	}
	drv.Program = tea.NewProgram(drv, opts...)

	return drv, drv.Program
}

// NewDriverTest returns a driver that records its last rendered view. The
// caller sets Program.
func NewDriverTest(ctx context.Context) *Driver {
	return &Driver{test: true}
}

type activateMsg struct {
	tea.Model

	donec chan<- struct{}
}

// Activate appends model to the output and routes messages to it until it
// quits or another model is activated.
func (d *Driver) Activate(ctx context.Context, model tea.Model) {
	donec := make(chan struct{})

	d.Send(activateMsg{
		Model: model,
		donec: donec,
	})

	select {
	case <-donec:
	case <-ctx.Done():
	}
}

type stopMsg struct{}

func (d *Driver) Stop() { d.Send(stopMsg{}) }

type pauseMsg chan chan struct{}

// Pause blocks the program until the returned channel is closed.
func (d *Driver) Pause() chan<- struct{} {
	unpausec := make(chan struct{})
	pausedc := make(chan chan struct{})

	d.Send(pauseMsg(pausedc))

	pausedc <- unpausec

	return unpausec
}

func (d *Driver) Init() tea.Cmd {
	return nil
}

func (d *Driver) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case activateMsg:
		d.models = append(d.models, msg.Model)
		d.active = msg.Model

		close(msg.donec)

		return d, d.active.Init()
	case stopMsg:
		d.active = nil
		return d, nil
	case pauseMsg:
		unpausec := <-msg
		<-unpausec
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return d, tea.Quit
		}
	}

	if d.active == nil {
		if cmd, ok := msg.(tea.Cmd); ok && isQuit(cmd) {
			return d, tea.Quit
		}
		return d, nil
	}

	_, cmd := d.active.Update(msg)
	if isQuit(cmd) {
		d.active = nil
		return d, nil
	}
	return d, cmd
}

func (d *Driver) View() string {
	var out string
	for _, mdl := range d.models {
		out += mdl.View()
	}

	if d.test {
		d.mu.Lock()
		d.golden = out
		d.mu.Unlock()
	}
	return out
}

// Golden returns the last rendered view of a test driver.
func (d *Driver) Golden() string {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.golden
}

var quitPtr = reflect.ValueOf(tea.Quit).Pointer()

func isQuit(cmd tea.Cmd) bool {
	return reflect.ValueOf(cmd).Pointer() == quitPtr
}
