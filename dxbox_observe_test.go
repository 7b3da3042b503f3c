package dxbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// legacyClock stands in for a type the integrator does not own.
type legacyClock struct {
	ticks int
}

func (c *legacyClock) Tick() { c.ticks++ }

func TestObserve(t *testing.T) {
	t.Run("wraps a foreign type", func(t *testing.T) {
		var got [][]string

		clock := Observe(&legacyClock{})
		clock.Subscribe(func(changed []string) { got = append(got, changed) })

		clock.Base().Tick()
		clock.Report("ticks")

		assert.Equal(t, 1, clock.Base().ticks)
		assert.Equal(t, [][]string{{"ticks"}}, got)
	})

	t.Run("pointer bases share state with the original", func(t *testing.T) {
		base := &legacyClock{}
		clock := Observe(base)

		base.Tick()

		assert.Equal(t, 1, clock.Base().ticks)
	})

	t.Run("wrapped instances have independent registries", func(t *testing.T) {
		var first, second [][]string

		a := Observe(&legacyClock{})
		b := Observe(&legacyClock{})

		a.Subscribe(func(changed []string) { first = append(first, changed) })
		b.Subscribe(func(changed []string) { second = append(second, changed) })

		a.Report("ticks")

		assert.Equal(t, [][]string{{"ticks"}}, first)
		assert.Empty(t, second)
	})

	t.Run("composed constructors are independent", func(t *testing.T) {
		newClock := Compose(func() *legacyClock { return &legacyClock{} })
		newOther := Compose(func() *legacyClock { return &legacyClock{} })

		var first, second [][]string

		a := newClock()
		b := newOther()

		a.Subscribe(func(changed []string) { first = append(first, changed) })
		b.Subscribe(func(changed []string) { second = append(second, changed) })

		b.Report("ticks")

		assert.Empty(t, first)
		assert.Equal(t, [][]string{{"ticks"}}, second)
	})

	t.Run("construction arguments forward unchanged", func(t *testing.T) {
		start := 7
		newClock := Compose(func() *legacyClock { return &legacyClock{ticks: start} })

		clock := newClock()

		assert.Equal(t, 7, clock.Base().ticks)
	})

	t.Run("wrapped types use their declared dependencies", func(t *testing.T) {
		MustDerive[legacyClock]("isNoon", "ticks")
		defer DropDerived[legacyClock]()

		var got [][]string

		clock := Observe(&legacyClock{})
		clock.Subscribe(func(changed []string) { got = append(got, changed) })

		clock.Report("ticks")

		assert.Equal(t, [][]string{{"isNoon", "ticks"}}, got)
	})

	t.Run("embedded notifier needs no construction", func(t *testing.T) {
		type account struct {
			Notifier
			balance int
		}

		var got [][]string

		a := &account{}
		a.Subscribe(func(changed []string) { got = append(got, changed) })

		a.balance += 10
		a.Report("balance")

		assert.Equal(t, [][]string{{"balance"}}, got)
	})
}
