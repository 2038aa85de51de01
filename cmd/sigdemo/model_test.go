package main

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnatoleLucet/sigwatch"
)

func press(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestModel(t *testing.T) {
	t.Run("signal writes push into the bound slots", func(t *testing.T) {
		rt := sigwatch.NewRuntime()
		m := newModel(rt, 0)

		m.View()
		assert.Equal(t, 0, m.pushes)
		assert.Equal(t, 2, rt.Watchers())

		m.Update(press('s'))
		require.NoError(t, m.err)

		assert.Equal(t, 1, m.countSlot.value)
		assert.False(t, m.evenSlot.value)
		assert.Equal(t, 2, m.pushes)

		view := m.View()
		assert.Contains(t, view, "Render count")
		assert.Equal(t, 2, m.renders)
	})

	t.Run("property changes push nothing", func(t *testing.T) {
		rt := sigwatch.NewRuntime()
		m := newModel(rt, 0)
		m.View()

		m.Update(press('p'))
		m.Update(press('p'))

		assert.Equal(t, 2, m.property)
		assert.Equal(t, 0, m.pushes)
	})

	t.Run("quit detaches the bindings", func(t *testing.T) {
		rt := sigwatch.NewRuntime()
		m := newModel(rt, 0)
		m.View()

		_, cmd := m.Update(press('q'))
		assert.NotNil(t, cmd)
		assert.Equal(t, 0, rt.Watchers())

		m.count.Set(5)
		require.NoError(t, rt.Flush())
		assert.Equal(t, 0, m.pushes)
	})
}
