package cart

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(id string, price int64, qty int) LineItem {
	return LineItem{
		ProductID:    id,
		Name:         "Product " + id,
		UnitPrice:    price,
		ImageRef:     "https://img/" + id,
		Quantity:     qty,
		VariantSize:  "M",
		VariantColor: "Đen",
	}
}

func assertTotals(t *testing.T, s State) {
	t.Helper()
	var amount int64
	var count int
	for _, it := range s.Items {
		assert.GreaterOrEqual(t, it.Quantity, 1, "quantity floor for %s", it.ProductID)
		amount += it.UnitPrice * int64(it.Quantity)
		count += it.Quantity
	}
	assert.Equal(t, amount, s.TotalAmount)
	assert.Equal(t, count, s.TotalItemCount)
}

func TestReduce_Add(t *testing.T) {
	t.Run("Appends new product in insertion order", func(t *testing.T) {
		s := Reduce(State{}, Add(item("p1", 100, 1)))
		s = Reduce(s, Add(item("p2", 50, 2)))

		require.Len(t, s.Items, 2)
		assert.Equal(t, "p1", s.Items[0].ProductID)
		assert.Equal(t, "p2", s.Items[1].ProductID)
		assert.Equal(t, int64(200), s.TotalAmount)
		assert.Equal(t, 3, s.TotalItemCount)
	})

	t.Run("Merges by product id", func(t *testing.T) {
		s := Reduce(State{}, Add(item("p1", 100, 2)))
		s = Reduce(s, Add(item("p1", 100, 3)))

		require.Len(t, s.Items, 1)
		assert.Equal(t, 5, s.Items[0].Quantity)
		assertTotals(t, s)
	})

	t.Run("Merge keeps the first variant", func(t *testing.T) {
		first := item("p1", 100, 1)
		second := item("p1", 100, 1)
		second.VariantSize = "XL"
		second.VariantColor = "Trắng"

		s := Reduce(Reduce(State{}, Add(first)), Add(second))

		require.Len(t, s.Items, 1)
		assert.Equal(t, 2, s.Items[0].Quantity)
		assert.Equal(t, "M", s.Items[0].VariantSize)
		assert.Equal(t, "Đen", s.Items[0].VariantColor)
	})

	t.Run("Non-positive quantity is ignored", func(t *testing.T) {
		s := Reduce(State{}, Add(item("p1", 100, 0)))
		s = Reduce(s, Add(item("p2", 100, -3)))
		assert.True(t, s.IsEmpty())
	})

	t.Run("Empty product id is ignored", func(t *testing.T) {
		s := Reduce(State{}, Add(item("", 100, 1)))
		assert.True(t, s.IsEmpty())
	})
}

func TestReduce_Remove(t *testing.T) {
	base := Reduce(Reduce(State{}, Add(item("p1", 100, 1))), Add(item("p2", 10, 4)))

	t.Run("Removes line and recomputes", func(t *testing.T) {
		s := Reduce(base, Remove("p1"))
		require.Len(t, s.Items, 1)
		assert.Equal(t, int64(40), s.TotalAmount)
		assert.Equal(t, 4, s.TotalItemCount)
	})

	t.Run("Idempotent", func(t *testing.T) {
		once := Reduce(base, Remove("p1"))
		twice := Reduce(once, Remove("p1"))
		assert.Equal(t, once, twice)
	})

	t.Run("Absent id is a no-op", func(t *testing.T) {
		assert.Equal(t, base, Reduce(base, Remove("nope")))
	})
}

func TestReduce_UpdateQuantity(t *testing.T) {
	base := Reduce(State{}, Add(item("p1", 100, 1)))

	t.Run("Sets quantity", func(t *testing.T) {
		s := Reduce(base, UpdateQuantity("p1", 7))
		assert.Equal(t, 7, s.Items[0].Quantity)
		assert.Equal(t, int64(700), s.TotalAmount)
	})

	for _, q := range []int{0, -5} {
		q := q
		t.Run("Quantity floor removes line", func(t *testing.T) {
			s := Reduce(base, UpdateQuantity("p1", q))
			_, found := s.Find("p1")
			assert.False(t, found)
			assertTotals(t, s)
		})
	}

	t.Run("Absent id is a no-op", func(t *testing.T) {
		assert.Equal(t, base, Reduce(base, UpdateQuantity("nope", 3)))
	})
}

func TestReduce_Clear(t *testing.T) {
	s := Reduce(Reduce(State{}, Add(item("p1", 100, 2))), Clear())

	assert.True(t, s.IsEmpty())
	assert.NotNil(t, s.Items)
	assert.Zero(t, s.TotalAmount)
	assert.Zero(t, s.TotalItemCount)
}

func TestReduce_Hydrate(t *testing.T) {
	stored := []LineItem{
		item("p1", 100, 1),
		item("p2", 20, 0),
		item("p1", 100, 2),
		item("p3", 5, -1),
	}

	s := Reduce(State{TotalAmount: 999999, TotalItemCount: 42}, Hydrate(stored))

	require.Len(t, s.Items, 1)
	assert.Equal(t, 3, s.Items[0].Quantity)
	assertTotals(t, s)
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	orig := Reduce(State{}, Add(item("p1", 100, 2)))
	snapshot := orig.Clone()

	_ = Reduce(orig, Add(item("p1", 100, 3)))
	_ = Reduce(orig, UpdateQuantity("p1", 9))
	_ = Reduce(orig, Remove("p1"))

	assert.Equal(t, snapshot, orig)
}

func TestReduce_UnknownActionReturnsCopy(t *testing.T) {
	orig := Reduce(State{}, Add(item("p1", 100, 2)))
	got := Reduce(orig, Action{Type: "bogus"})

	assert.Equal(t, orig, got)
	got.Items[0].Quantity = 50
	assert.Equal(t, 2, orig.Items[0].Quantity)
}

func TestReduce_TotalsInvariantUnderRandomSequences(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	ids := []string{"a", "b", "c", "d"}
	prices := map[string]int64{"a": 199000, "b": 250000, "c": 99000, "d": 1}

	s := State{}
	for i := 0; i < 500; i++ {
		id := ids[rng.Intn(len(ids))]
		switch rng.Intn(4) {
		case 0:
			s = Reduce(s, Add(item(id, prices[id], rng.Intn(5)-1)))
		case 1:
			s = Reduce(s, Remove(id))
		case 2:
			s = Reduce(s, UpdateQuantity(id, rng.Intn(8)-3))
		case 3:
			if rng.Intn(10) == 0 {
				s = Reduce(s, Clear())
			}
		}
		assertTotals(t, s)

		seen := map[string]bool{}
		for _, it := range s.Items {
			assert.False(t, seen[it.ProductID], "duplicate line for %s", it.ProductID)
			seen[it.ProductID] = true
		}
	}
}

func TestCloneItems(t *testing.T) {
	orig := int64(300)
	items := []LineItem{{ProductID: "p1", OriginalUnitPrice: &orig, Quantity: 1}}

	cp := CloneItems(items)
	*cp[0].OriginalUnitPrice = 1

	assert.Equal(t, int64(300), *items[0].OriginalUnitPrice)
}
