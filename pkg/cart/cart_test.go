package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"posflow/pkg/catalog"
)

var (
	tea    = catalog.Item{ID: "tea", Name: "Green Tea", Price: 100, Category: "Beverages"}
	coffee = catalog.Item{ID: "coffee", Name: "Espresso", Price: 50, Category: "Beverages"}
)

func TestAddMergesOnItemID(t *testing.T) {
	c := New()
	c.Add(tea)
	c.Add(tea)

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, 1, c.LineCount())
	assert.Equal(t, 2, c.ItemCount())
}

func TestAddKeepsFirstAddOrder(t *testing.T) {
	c := New()
	c.Add(tea)
	c.Add(coffee)
	c.Add(tea)

	lines := c.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "tea", lines[0].Item.ID)
	assert.Equal(t, "coffee", lines[1].Item.ID)
}

func TestAddSnapshotsPriceAtAddTime(t *testing.T) {
	c := New()
	it := tea
	c.Add(it)
	it.Price = 999

	assert.Equal(t, 100.0, c.Lines()[0].Item.Price)
	assert.Equal(t, 100.0, c.Total())
}

func TestSetQuantityIsAbsolute(t *testing.T) {
	c := New()
	c.Add(tea)
	c.Add(tea)
	c.SetQuantity("tea", 5)

	assert.Equal(t, 5, c.Lines()[0].Quantity)
}

func TestSetQuantityZeroOrNegativeRemoves(t *testing.T) {
	for _, qty := range []int{0, -5} {
		c := New()
		c.Add(tea)
		c.SetQuantity("tea", qty)
		assert.True(t, c.Empty(), "quantity %d must remove the line", qty)
	}
}

func TestSetQuantityMissingIDIsNoOp(t *testing.T) {
	c := New()
	c.Add(tea)
	c.SetQuantity("missing", 3)

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 1, lines[0].Quantity)
}

func TestRemoveAbsentIsNoOp(t *testing.T) {
	c := New()
	c.Add(tea)
	c.Remove("missing")
	assert.Equal(t, 1, c.LineCount())

	c.Remove("tea")
	assert.True(t, c.Empty())
}

func TestTotalRecomputedAfterEveryMutation(t *testing.T) {
	c := New()
	c.Add(tea)
	c.Add(tea)
	c.Add(coffee)
	assert.Equal(t, 250.0, c.Total())

	c.SetQuantity("tea", 3)
	assert.Equal(t, 350.0, c.Total())

	c.Remove("coffee")
	assert.Equal(t, 300.0, c.Total())

	c.Clear()
	assert.Equal(t, 0.0, c.Total())
	assert.True(t, c.Empty())
}

func TestInvariantsAcrossMutationSequence(t *testing.T) {
	c := New()
	c.Add(tea)
	c.Add(coffee)
	c.Add(tea)
	c.SetQuantity("coffee", 4)
	c.SetQuantity("tea", -1)
	c.Add(tea)

	seen := make(map[string]bool)
	for _, l := range c.Lines() {
		assert.GreaterOrEqual(t, l.Quantity, 1)
		assert.False(t, seen[l.Item.ID], "duplicate line for %s", l.Item.ID)
		seen[l.Item.ID] = true
	}
}

func TestLinesReturnsACopy(t *testing.T) {
	c := New()
	c.Add(tea)
	lines := c.Lines()
	lines[0].Quantity = 99

	assert.Equal(t, 1, c.Lines()[0].Quantity)
}

func TestSubscribeFiresOnEveryMutation(t *testing.T) {
	c := New()
	var fired int
	unsubscribe := c.Subscribe(func() { fired++ })

	c.Add(tea)
	c.SetQuantity("tea", 3)
	c.Remove("tea")
	assert.Equal(t, 3, fired)

	// no-op mutations stay silent
	c.Remove("tea")
	c.SetQuantity("missing", 2)
	c.Clear()
	assert.Equal(t, 3, fired)

	unsubscribe()
	c.Add(tea)
	assert.Equal(t, 3, fired)
}

func TestSubscriberCanReadTheCart(t *testing.T) {
	c := New()
	var total float64
	c.Subscribe(func() { total = c.Total() })

	c.Add(tea)
	c.Add(tea)
	assert.Equal(t, 200.0, total)
}

func TestRegistryCreatesEmptyCartPerSession(t *testing.T) {
	r := NewRegistry()
	a := r.Get("a")
	assert.True(t, a.Empty())
	a.Add(tea)

	assert.Same(t, a, r.Get("a"))
	assert.True(t, r.Get("b").Empty())

	r.Drop("a")
	assert.True(t, r.Get("a").Empty())
}
