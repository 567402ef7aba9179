package service

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/storefront/cart/domain"
	"github.com/Alturino/storefront/cart/repository"
	"github.com/Alturino/storefront/catalog/pkg/response"
	inErrors "github.com/Alturino/storefront/internal/errors"
	"github.com/Alturino/storefront/internal/testutil"
)

type memoryRepository struct {
	mu      sync.Mutex
	cart    *domain.Cart
	loadErr error
	saveErr error
	saves   int
}

func (m *memoryRepository) Load(c context.Context) (domain.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return domain.Cart{}, m.loadErr
	}
	if m.cart == nil {
		return domain.Cart{}, inErrors.ErrStateNotFound
	}
	return m.cart.Clone(), nil
}

func (m *memoryRepository) Save(c context.Context, cart domain.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	saved := cart.Clone()
	m.cart = &saved
	return nil
}

var (
	backpack = response.Product{ID: 1, Title: "Backpack", Price: decimal.RequireFromString("109.95")}
	ring     = response.Product{ID: 2, Title: "Ring", Price: decimal.RequireFromString("9.99")}
)

func TestNewCartServiceFallsBackToEmptyCart(t *testing.T) {
	tests := []struct {
		name string
		repo *memoryRepository
	}{
		{name: "given no stored state should start empty", repo: &memoryRepository{}},
		{name: "given corrupt state should start empty", repo: &memoryRepository{loadErr: inErrors.ErrCorruptState}},
		{name: "given unreachable storage should start empty", repo: &memoryRepository{loadErr: errors.New("connection refused")}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cartService := NewCartService(context.Background(), test.repo)
			cart := cartService.Cart()
			assert.Empty(t, cart.Items)
			assert.Equal(t, 0, cart.ItemCount)
			assert.True(t, cartService.GetTotalPrice().IsZero())
		})
	}
}

func TestNewCartServiceRestoresStoredState(t *testing.T) {
	stored, err := domain.Apply(domain.Empty(), domain.AddItem{Product: ring, Quantity: 3})
	require.NoError(t, err)
	cartService := NewCartService(context.Background(), &memoryRepository{cart: &stored})

	assert.Equal(t, 3, cartService.GetItemQuantity(ring.ID))
	assert.True(t, decimal.RequireFromString("29.97").Equal(cartService.GetTotalPrice()))
}

func TestCartServiceMutationsPersist(t *testing.T) {
	repo := &memoryRepository{}
	cartService := NewCartService(context.Background(), repo)
	c := context.Background()

	_, err := cartService.AddItem(c, backpack, 2)
	require.NoError(t, err)
	cart, err := cartService.AddItem(c, backpack, 3)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cartService.GetItemQuantity(backpack.ID))

	cartService.AddItem(c, ring, 1)
	_, err = cartService.UpdateQuantity(c, backpack.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, cartService.GetItemQuantity(backpack.ID))
	assert.Equal(t, 1, cartService.Cart().ItemCount)

	cartService.RemoveItem(c, ring.ID)
	cartService.AddItem(c, ring, 4)
	cart = cartService.ClearCart(c)
	assert.Empty(t, cart.Items)
	assert.True(t, cart.Total.IsZero())

	assert.Equal(t, 7, repo.saves)
	require.NotNil(t, repo.cart)
	assert.Empty(t, repo.cart.Items)
}

func TestClearCartAtVersion(t *testing.T) {
	repo := &memoryRepository{}
	cartService := NewCartService(context.Background(), repo)
	c := context.Background()

	_, err := cartService.AddItem(c, backpack, 1)
	require.NoError(t, err)
	cart, version := cartService.Snapshot()
	assert.Equal(t, 1, cart.ItemCount)

	_, err = cartService.AddItem(c, ring, 3)
	require.NoError(t, err)
	cart, err = cartService.ClearCartAt(c, version)
	assert.ErrorIs(t, err, inErrors.ErrCartChanged)
	assert.Equal(t, 4, cart.ItemCount)
	assert.Equal(t, 4, cartService.Cart().ItemCount)
	assert.Equal(t, 2, repo.saves)

	_, version = cartService.Snapshot()
	cart, err = cartService.ClearCartAt(c, version)
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
	assert.True(t, cartService.Cart().IsEmpty())

	_, err = cartService.ClearCartAt(c, version)
	assert.ErrorIs(t, err, inErrors.ErrCartChanged)
}

func TestCartServiceRejectedUpdateKeepsCart(t *testing.T) {
	repo := &memoryRepository{}
	cartService := NewCartService(context.Background(), repo)
	c := context.Background()

	_, err := cartService.AddItem(c, backpack, 1)
	require.NoError(t, err)
	_, err = cartService.AddItem(c, ring, 1)
	require.NoError(t, err)
	_, before := cartService.Snapshot()

	cart, err := cartService.UpdateQuantity(c, ring.ID, math.MaxInt)
	assert.ErrorIs(t, err, inErrors.ErrQuantityTooLarge)
	assert.Equal(t, 2, cart.ItemCount)
	assert.Equal(t, 1, cartService.GetItemQuantity(ring.ID))
	_, after := cartService.Snapshot()
	assert.Equal(t, before, after)
	assert.Equal(t, 2, repo.saves)
}

func TestCartServiceInvalidQuantityIsNotPersisted(t *testing.T) {
	repo := &memoryRepository{}
	cartService := NewCartService(context.Background(), repo)

	_, err := cartService.AddItem(context.Background(), ring, 0)
	assert.ErrorIs(t, err, inErrors.ErrInvalidQuantity)
	assert.Equal(t, 0, repo.saves)
}

func TestCartServicePersistFailureDoesNotFailMutation(t *testing.T) {
	repo := &memoryRepository{saveErr: errors.New("connection refused")}
	cartService := NewCartService(context.Background(), repo)

	cart, err := cartService.AddItem(context.Background(), ring, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, cart.ItemCount)
	assert.Equal(t, 2, cartService.GetItemQuantity(ring.ID))
}

func TestCartServiceReturnsCopies(t *testing.T) {
	cartService := NewCartService(context.Background(), &memoryRepository{})
	cart, err := cartService.AddItem(context.Background(), ring, 2)
	require.NoError(t, err)

	cart.Items[0].Quantity = 99
	assert.Equal(t, 2, cartService.GetItemQuantity(ring.ID))
}

func TestCartServiceConcurrentAdds(t *testing.T) {
	cartService := NewCartService(context.Background(), &memoryRepository{})

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cartService.AddItem(context.Background(), ring, 1)
		}()
	}
	wg.Wait()

	cart := cartService.Cart()
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 50, cart.ItemCount)
	assert.True(t, decimal.RequireFromString("499.5").Equal(cart.Total))
}

func TestCartServiceSurvivesRestart(t *testing.T) {
	redisClient := testutil.RunRedis(t)
	c := context.Background()

	cartService := NewCartService(c, repository.NewRedisCartRepository(redisClient, ""))
	cartService.AddItem(c, backpack, 1)
	cartService.AddItem(c, ring, 2)

	restarted := NewCartService(c, repository.NewRedisCartRepository(redisClient, ""))
	cart := restarted.Cart()
	require.Len(t, cart.Items, 2)
	assert.Equal(t, 3, cart.ItemCount)
	assert.True(t, decimal.RequireFromString("129.93").Equal(cart.Total))
}
