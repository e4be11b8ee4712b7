package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/runtime"
	"github.com/aretw0/turing/pkg/domain"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#fbbf24"))
	labelStyle  = lipgloss.NewStyle().Width(8).Foreground(lipgloss.Color("#94a3b8"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444"))
	helpStyle   = lipgloss.NewStyle().Faint(true)
	statusStyle = map[domain.Status]lipgloss.Style{
		domain.StatusRunning:  lipgloss.NewStyle().Foreground(lipgloss.Color("#38bdf8")),
		domain.StatusAccepted: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#22c55e")),
		domain.StatusRejected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f97316")),
		domain.StatusStuck:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ef4444")),
	}
)

const stepperHelp = "n/space step · p play/pause · r reset · q quit"

type tickMsg struct{}

// Stepper is an interactive debugger that applies one transition per key
// press, or plays the run on a timer.
type Stepper struct {
	machine  *domain.Machine
	input    string
	blank    byte
	maxSteps int
	delay    time.Duration
	render   turing.TapeRenderer

	run     *runtime.Run
	last    *domain.Transition
	err     error
	playing bool
}

// StepperOption configures a Stepper.
type StepperOption func(*Stepper)

// WithStepBlank sets the blank symbol of the tape.
func WithStepBlank(blank byte) StepperOption {
	return func(s *Stepper) { s.blank = blank }
}

// WithStepLimit stops the run with an error after n steps. Zero means no limit.
func WithStepLimit(n int) StepperOption {
	return func(s *Stepper) { s.maxSteps = n }
}

// WithDelay sets the pause between steps while playing.
func WithDelay(d time.Duration) StepperOption {
	return func(s *Stepper) {
		if d > 0 {
			s.delay = d
		}
	}
}

// WithTapeRenderer sets how the tape line is drawn.
func WithTapeRenderer(render turing.TapeRenderer) StepperOption {
	return func(s *Stepper) {
		if render != nil {
			s.render = render
		}
	}
}

// NewStepper prepares a run of m on input, positioned before the first step.
func NewStepper(m *domain.Machine, input string, opts ...StepperOption) Stepper {
	s := Stepper{
		machine: m,
		input:   input,
		delay:   200 * time.Millisecond,
		render:  turing.PlainTape,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s.reset()
}

// Init implements tea.Model. Nothing runs until a key is pressed.
func (s Stepper) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (s Stepper) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if !s.playing {
			return s, nil
		}
		s = s.step()
		if s.Done() {
			s.playing = false
			return s, nil
		}
		return s, s.tick()

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return s, tea.Quit
		case "n", " ", "right", "l":
			s.playing = false
			return s.step(), nil
		case "p":
			if s.Done() {
				return s, nil
			}
			s.playing = !s.playing
			if s.playing {
				return s, s.tick()
			}
		case "r":
			return s.reset(), nil
		}
	}
	return s, nil
}

// View implements tea.Model.
func (s Stepper) View() string {
	var b strings.Builder

	name := s.machine.Name
	if name == "" {
		name = "machine"
	}
	b.WriteString(titleStyle.Render("turing · "+name) + "\n\n")

	status := s.run.Status()
	fmt.Fprintf(&b, "%s%s\n", labelStyle.Render("state"), s.run.State())
	fmt.Fprintf(&b, "%s%d\n", labelStyle.Render("steps"), s.run.Steps())
	fmt.Fprintf(&b, "%s%s\n", labelStyle.Render("status"), statusStyle[status].Render(string(status)))
	fmt.Fprintf(&b, "%s%s\n", labelStyle.Render("tape"), s.render(s.run.Tape()))
	if s.last != nil {
		fmt.Fprintf(&b, "%s%s\n", labelStyle.Render("last"), s.last)
	}
	if s.err != nil {
		b.WriteString("\n" + errorStyle.Render(s.err.Error()) + "\n")
	}
	if s.playing {
		b.WriteString("\n▶ playing\n")
	}

	b.WriteString("\n" + helpStyle.Render(stepperHelp) + "\n")
	return b.String()
}

// Done reports whether no further step can be taken.
func (s Stepper) Done() bool {
	return s.err != nil || s.run.Status() != domain.StatusRunning
}

// Status returns the status of the run.
func (s Stepper) Status() domain.Status { return s.run.Status() }

// State returns the current state of the machine.
func (s Stepper) State() string { return s.run.State() }

// Steps returns how many rules have been applied.
func (s Stepper) Steps() int { return s.run.Steps() }

// Err returns the error that stopped the run, if any.
func (s Stepper) Err() error { return s.err }

func (s Stepper) step() Stepper {
	if s.Done() {
		return s
	}
	if s.maxSteps > 0 && s.run.Steps() >= s.maxSteps {
		s.err = fmt.Errorf("%w: %d", domain.ErrStepLimit, s.maxSteps)
		return s
	}
	tr, err := s.run.Step()
	if err != nil {
		s.err = err
		return s
	}
	s.last = &tr
	return s
}

func (s Stepper) reset() Stepper {
	s.run = runtime.NewRun(s.machine, s.input, s.blank)
	s.last = nil
	s.err = nil
	s.playing = false
	return s
}

func (s Stepper) tick() tea.Cmd {
	return tea.Tick(s.delay, func(time.Time) tea.Msg { return tickMsg{} })
}
