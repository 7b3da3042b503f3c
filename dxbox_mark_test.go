package dxbox

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMark(t *testing.T) {
	t.Run("reports declared facets once per successful call", func(t *testing.T) {
		var got [][]string

		n := &Notifier{}
		n.Subscribe(func(changed []string) { got = append(got, changed) })

		value := 0
		bump := n.Mark(func() error {
			// several internal mutations, still one report
			value++
			value++
			return nil
		}, "value")

		assert.NoError(t, bump())
		assert.NoError(t, bump())

		assert.Equal(t, 4, value)
		assert.Equal(t, [][]string{{"value"}, {"value"}}, got)
	})

	t.Run("skips the report on error", func(t *testing.T) {
		n := &Notifier{}
		n.Subscribe(func([]string) { t.Fatal("should not deliver") })

		fail := n.Mark(func() error {
			return errors.New("oops")
		}, "value")

		assert.EqualError(t, fail(), "oops")
	})

	t.Run("skips the report on panic", func(t *testing.T) {
		n := &Notifier{}
		n.Subscribe(func([]string) { t.Fatal("should not deliver") })

		explode := n.Mark(func() error {
			panic("boom")
		}, "value")

		assert.PanicsWithValue(t, "boom", func() { _ = explode() })
	})

	t.Run("reports already made inside the body still stand", func(t *testing.T) {
		var got [][]string

		n := &Notifier{}
		n.Subscribe(func(changed []string) { got = append(got, changed) })

		fail := n.Mark(func() error {
			n.Report("partial")
			return errors.New("oops")
		}, "value")

		assert.Error(t, fail())
		assert.Equal(t, [][]string{{"partial"}}, got)
	})

	t.Run("defers inside a batch", func(t *testing.T) {
		var got [][]string

		n := &Notifier{}
		n.Subscribe(func(changed []string) { got = append(got, changed) })

		bump := n.Mark(func() error { return nil }, "value")

		err := n.Batch(func() error {
			if err := bump(); err != nil {
				return err
			}

			n.Report("other")
			return nil
		})

		assert.NoError(t, err)
		assert.Equal(t, [][]string{{"other", "value"}}, got)
	})

	t.Run("wrapped increment expands to derived facets", func(t *testing.T) {
		type tally struct {
			Notifier
			count int
		}

		MustDerive[tally]("isEven", "count")
		defer DropDerived[tally]()

		var got [][]string

		c := Bind(&tally{})
		c.Subscribe(func(changed []string) { got = append(got, changed) })

		increment := c.Mark(func() error {
			c.count++
			return nil
		}, "count")

		assert.NoError(t, increment())

		assert.Equal(t, 1, c.count)
		assert.Equal(t, [][]string{{"count", "isEven"}}, got)
	})

	t.Run("Marked returns the body's value", func(t *testing.T) {
		var got [][]string

		n := &Notifier{}
		n.Subscribe(func(changed []string) { got = append(got, changed) })

		balance := 100
		withdraw := Marked(n, func() (int, error) {
			if balance < 40 {
				return 0, errors.New("insufficient funds")
			}

			balance -= 40
			return balance, nil
		}, "balance")

		remaining, err := withdraw()
		assert.NoError(t, err)
		assert.Equal(t, 60, remaining)

		remaining, err = withdraw()
		assert.NoError(t, err)
		assert.Equal(t, 20, remaining)

		_, err = withdraw()
		assert.EqualError(t, err, "insufficient funds")

		assert.Equal(t, [][]string{{"balance"}, {"balance"}}, got)
	})
}

func TestMethodTable(t *testing.T) {
	t.Run("declared methods drive the wrapper", func(t *testing.T) {
		type tally struct {
			Notifier
			count int
		}

		DeclareMethod[tally]("Increment", "count")
		defer DropMethods[tally]()

		assert.Equal(t, []string{"count"}, MethodFacets[tally]("Increment"))
		assert.Empty(t, MethodFacets[tally]("Reset"))

		var got [][]string

		c := &tally{}
		c.Subscribe(func(changed []string) { got = append(got, changed) })

		increment := MarkMethod[tally](&c.Notifier, "Increment", func() error {
			c.count++
			return nil
		})

		assert.NoError(t, increment())
		assert.Equal(t, [][]string{{"count"}}, got)
	})

	t.Run("dropped tables stop declaring", func(t *testing.T) {
		type gone struct{ Notifier }

		DeclareMethod[gone]("Touch", "a", "b")
		DropMethods[gone]()

		assert.Empty(t, MethodFacets[gone]("Touch"))
	})
}
