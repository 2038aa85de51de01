package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/AnatoleLucet/sigwatch"
	"github.com/AnatoleLucet/sigwatch/host"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))
)

type keyMap struct {
	Property key.Binding
	Signal   key.Binding
	Quit     key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Property, k.Signal, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var keys = keyMap{
	Property: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "property +1")),
	Signal:   key.NewBinding(key.WithKeys("s", " "), key.WithHelp("s", "signal +1")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

type tickMsg time.Time

// slot is a render target: a pushed value lands here and counts as a
// re-render request.
type slot[T any] struct {
	value  T
	pushes *int
}

func (s *slot[T]) SetValue(v T) {
	s.value = v
	*s.pushes++
}

type model struct {
	rt *sigwatch.Runtime

	count  *sigwatch.Signal[int]
	isEven *sigwatch.Computed[bool]

	// host-owned state, not reactive
	property int

	countSlot *slot[int]
	evenSlot  *slot[bool]
	countView *host.Binding[int]
	evenView  *host.Binding[bool]

	renders int
	pushes  int

	auto time.Duration
	help help.Model
	err  error
}

func newModel(rt *sigwatch.Runtime, auto time.Duration) *model {
	m := &model{
		rt:   rt,
		auto: auto,
		help: help.New(),
	}

	m.count = sigwatch.NewSignal(0, sigwatch.WithRuntime(rt), sigwatch.WithName("count"))
	m.isEven = sigwatch.NewComputed(func() bool {
		return m.count.Get()%2 == 0
	}, sigwatch.WithRuntime(rt), sigwatch.WithName("isEven"))

	m.countSlot = &slot[int]{pushes: &m.pushes}
	m.evenSlot = &slot[bool]{pushes: &m.pushes}

	onError := host.WithErrorHandler(func(err error) { m.err = err })
	m.countView = host.NewBinding[int](rt, m.countSlot, onError)
	m.evenView = host.NewBinding[bool](rt, m.evenSlot, onError)

	return m
}

func (m *model) Init() tea.Cmd {
	return m.tick()
}

func (m *model) tick() tea.Cmd {
	if m.auto <= 0 {
		return nil
	}
	return tea.Tick(m.auto, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Update is one host turn: the microtasks queued by the writes it made
// are drained before returning, so the next View sees pushed values.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.countView.OnDetach()
			m.evenView.OnDetach()
			return m, tea.Quit
		case key.Matches(msg, keys.Property):
			m.property++
		case key.Matches(msg, keys.Signal):
			m.count.Update(func(n int) int { return n + 1 })
		}

	case tickMsg:
		m.count.Update(func(n int) int { return n + 1 })
		cmd = m.tick()
	}

	if err := m.rt.Flush(); err != nil {
		m.err = err
	}

	return m, cmd
}

func (m *model) View() string {
	m.renders++

	count, err := m.countView.Render(m.count)
	if err != nil {
		m.err = err
	}
	even, err := m.evenView.Render(m.isEven)
	if err != nil {
		m.err = err
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("signal demo"))
	b.WriteString("\n\n")
	b.WriteString(line("Render count", m.renders))
	b.WriteString(line("Property", m.property))
	b.WriteString(line("Signal", count))
	b.WriteString(line("Computed is even", even))
	b.WriteString(line("Pushed updates", m.pushes))

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(keys))
	b.WriteString("\n")

	return b.String()
}

func line(label string, v any) string {
	return fmt.Sprintf("%s %s\n", labelStyle.Render(label+":"), valueStyle.Render(fmt.Sprint(v)))
}
