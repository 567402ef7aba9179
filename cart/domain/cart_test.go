package domain

import (
	"math"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/storefront/catalog/pkg/response"
	inErrors "github.com/Alturino/storefront/internal/errors"
)

var (
	backpack = response.Product{ID: 1, Title: "Backpack", Price: decimal.RequireFromString("109.95")}
	ring     = response.Product{ID: 2, Title: "Ring", Price: decimal.RequireFromString("9.99")}
	jacket   = response.Product{ID: 3, Title: "Jacket", Price: decimal.RequireFromString("55.99")}
)

func mustApply(t *testing.T, cart Cart, cmds ...Command) Cart {
	t.Helper()
	var err error
	for _, cmd := range cmds {
		cart, err = Apply(cart, cmd)
		require.NoError(t, err)
	}
	return cart
}

func assertDerived(t *testing.T, cart Cart) {
	t.Helper()
	expectedTotal := decimal.Zero
	expectedCount := 0
	seen := map[int]bool{}
	for _, line := range cart.Items {
		assert.GreaterOrEqual(t, line.Quantity, 1)
		assert.False(t, seen[line.ID], "duplicate line for productId=%d", line.ID)
		seen[line.ID] = true
		expectedTotal = expectedTotal.Add(line.Product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		expectedCount += line.Quantity
	}
	assert.True(t, expectedTotal.Equal(cart.Total), "total=%s expected=%s", cart.Total, expectedTotal)
	assert.Equal(t, expectedCount, cart.ItemCount)
}

func TestAddItemMergesQuantity(t *testing.T) {
	cart := mustApply(t, Empty(), AddItem{Product: backpack, Quantity: 2}, AddItem{Product: backpack, Quantity: 3})

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
	assert.Equal(t, 5, cart.ItemCount)
	assert.True(t, decimal.RequireFromString("549.75").Equal(cart.Total))
}

func TestAddItemKeepsInsertionOrder(t *testing.T) {
	cart := mustApply(t, Empty(),
		AddItem{Product: ring, Quantity: 1},
		AddItem{Product: backpack, Quantity: 1},
		AddItem{Product: ring, Quantity: 1},
	)
	require.Len(t, cart.Items, 2)
	assert.Equal(t, ring.ID, cart.Items[0].ID)
	assert.Equal(t, backpack.ID, cart.Items[1].ID)
}

func TestAddItemIsNotClamped(t *testing.T) {
	cart := mustApply(t, Empty(), AddItem{Product: ring, Quantity: MaxQuantity}, AddItem{Product: ring, Quantity: 5})
	assert.Equal(t, MaxQuantity+5, cart.Quantity(ring.ID))
}

func TestAddItemRejectsNonPositiveQuantity(t *testing.T) {
	cart := mustApply(t, Empty(), AddItem{Product: ring, Quantity: 1})
	got, err := Apply(cart, AddItem{Product: backpack, Quantity: 0})
	assert.ErrorIs(t, err, inErrors.ErrInvalidQuantity)
	assert.Equal(t, cart, got)
}

func TestAddItemRejectsQuantityOverflow(t *testing.T) {
	tests := []struct {
		name string
		cart Cart
		cmd  AddItem
	}{
		{
			name: "given merge past max int should reject",
			cart: mustApply(t, Empty(), AddItem{Product: ring, Quantity: math.MaxInt}),
			cmd:  AddItem{Product: ring, Quantity: 2},
		},
		{
			name: "given new line pushing item count past max int should reject",
			cart: mustApply(t, Empty(), AddItem{Product: ring, Quantity: math.MaxInt - 1}),
			cmd:  AddItem{Product: backpack, Quantity: 2},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := Apply(test.cart, test.cmd)
			assert.ErrorIs(t, err, inErrors.ErrQuantityTooLarge)
			assert.Equal(t, test.cart, got)
			assertDerived(t, got)
		})
	}

	cart := mustApply(t, Empty(), AddItem{Product: ring, Quantity: math.MaxInt - 2}, AddItem{Product: ring, Quantity: 2})
	assert.Equal(t, math.MaxInt, cart.Quantity(ring.ID))
	assert.Equal(t, math.MaxInt, cart.ItemCount)
}

func TestUpdateQuantityRejectsItemCountOverflow(t *testing.T) {
	cart := mustApply(t, Empty(), AddItem{Product: ring, Quantity: 5}, AddItem{Product: backpack, Quantity: 1})
	got, err := Apply(cart, UpdateQuantity{ProductID: ring.ID, Quantity: math.MaxInt})
	assert.ErrorIs(t, err, inErrors.ErrQuantityTooLarge)
	assert.Equal(t, cart, got)

	got, err = Apply(cart, UpdateQuantity{ProductID: ring.ID, Quantity: math.MaxInt - 1})
	require.NoError(t, err)
	assert.Equal(t, math.MaxInt, got.ItemCount)
}

func TestUpdateQuantity(t *testing.T) {
	tests := []struct {
		name             string
		cmd              UpdateQuantity
		expectedQuantity int
		expectedLines    int
	}{
		{name: "given positive quantity should replace quantity", cmd: UpdateQuantity{ProductID: ring.ID, Quantity: 7}, expectedQuantity: 7, expectedLines: 2},
		{name: "given zero quantity should remove line", cmd: UpdateQuantity{ProductID: ring.ID, Quantity: 0}, expectedQuantity: 0, expectedLines: 1},
		{name: "given negative quantity should remove line", cmd: UpdateQuantity{ProductID: ring.ID, Quantity: -3}, expectedQuantity: 0, expectedLines: 1},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cart := mustApply(t, Empty(), AddItem{Product: ring, Quantity: 2}, AddItem{Product: backpack, Quantity: 1})
			cart = mustApply(t, cart, test.cmd)
			assert.Equal(t, test.expectedQuantity, cart.Quantity(ring.ID))
			assert.Len(t, cart.Items, test.expectedLines)
			assertDerived(t, cart)
		})
	}
}

func TestUpdateQuantityOfAbsentProductIsNoop(t *testing.T) {
	cart := mustApply(t, Empty(), AddItem{Product: ring, Quantity: 2})
	updated := mustApply(t, cart, UpdateQuantity{ProductID: jacket.ID, Quantity: 4})
	assert.Equal(t, cart, updated)
}

func TestRemoveItem(t *testing.T) {
	cart := mustApply(t, Empty(), AddItem{Product: ring, Quantity: 2}, AddItem{Product: backpack, Quantity: 1})
	cart = mustApply(t, cart, RemoveItem{ProductID: ring.ID}, RemoveItem{ProductID: jacket.ID})
	require.Len(t, cart.Items, 1)
	assert.Equal(t, backpack.ID, cart.Items[0].ID)
	assertDerived(t, cart)
}

func TestClear(t *testing.T) {
	cart := mustApply(t, Empty(), AddItem{Product: ring, Quantity: 2}, AddItem{Product: jacket, Quantity: 4})
	cart = mustApply(t, cart, Clear{})
	assert.Empty(t, cart.Items)
	assert.True(t, cart.Total.IsZero())
	assert.Equal(t, 0, cart.ItemCount)
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	cart := mustApply(t, Empty(), AddItem{Product: ring, Quantity: 2}, AddItem{Product: backpack, Quantity: 1})
	snapshot := cart.Clone()

	mustApply(t, cart, AddItem{Product: ring, Quantity: 3})
	mustApply(t, cart, UpdateQuantity{ProductID: backpack.ID, Quantity: 9})
	mustApply(t, cart, RemoveItem{ProductID: ring.ID})
	assert.Equal(t, snapshot, cart)
}

func TestDerivedScalarsHoldForRandomSequences(t *testing.T) {
	products := []response.Product{backpack, ring, jacket}
	random := rand.New(rand.NewSource(42))
	for run := 0; run < 50; run++ {
		cart := Empty()
		for step := 0; step < 40; step++ {
			product := products[random.Intn(len(products))]
			var cmd Command
			switch random.Intn(4) {
			case 0, 1:
				cmd = AddItem{Product: product, Quantity: random.Intn(5) + 1}
			case 2:
				cmd = UpdateQuantity{ProductID: product.ID, Quantity: random.Intn(6) - 1}
			default:
				cmd = RemoveItem{ProductID: product.ID}
			}
			cart = mustApply(t, cart, cmd)
			assertDerived(t, cart)
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name        string
		cart        Cart
		expectedErr error
	}{
		{
			name: "given valid lines with stale scalars should recompute",
			cart: Cart{Items: []Line{{ID: 2, Product: ring, Quantity: 3}}, Total: decimal.NewFromInt(1), ItemCount: 99},
		},
		{
			name:        "given zero quantity should be corrupt",
			cart:        Cart{Items: []Line{{ID: 2, Product: ring, Quantity: 0}}},
			expectedErr: inErrors.ErrCorruptState,
		},
		{
			name:        "given duplicate lines should be corrupt",
			cart:        Cart{Items: []Line{{ID: 2, Product: ring, Quantity: 1}, {ID: 2, Product: ring, Quantity: 1}}},
			expectedErr: inErrors.ErrCorruptState,
		},
		{
			name:        "given item count past max int should be corrupt",
			cart:        Cart{Items: []Line{{ID: 2, Product: ring, Quantity: math.MaxInt}, {ID: 1, Product: backpack, Quantity: 1}}},
			expectedErr: inErrors.ErrCorruptState,
		},
		{
			name:        "given mismatched line id should be corrupt",
			cart:        Cart{Items: []Line{{ID: 5, Product: ring, Quantity: 1}}},
			expectedErr: inErrors.ErrCorruptState,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cart, err := Normalize(test.cart)
			if test.expectedErr != nil {
				assert.ErrorIs(t, err, test.expectedErr)
				return
			}
			require.NoError(t, err)
			assertDerived(t, cart)
			assert.Equal(t, 3, cart.ItemCount)
		})
	}
}
