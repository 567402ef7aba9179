package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Alturino/storefront/cart/domain"
	"github.com/Alturino/storefront/catalog/pkg/response"
	"github.com/Alturino/storefront/internal/constants"
	inErrors "github.com/Alturino/storefront/internal/errors"
	"github.com/Alturino/storefront/internal/metrics"
	"github.com/Alturino/storefront/internal/otel"
)

type CartRepository interface {
	Load(c context.Context) (domain.Cart, error)
	Save(c context.Context, cart domain.Cart) error
}

// CartService owns the single cart of the process. Mutations are serialized:
// each one applies its command and persists the result before the next runs.
// version increases with every applied mutation.
type CartService struct {
	mu      sync.Mutex
	cart    domain.Cart
	version uint64
	repo    CartRepository
}

// NewCartService rehydrates the cart from repo. Missing or unusable stored
// state starts an empty cart.
func NewCartService(c context.Context, repo CartRepository) *CartService {
	c, span := otel.Tracer.Start(c, "NewCartService")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "NewCartService").
		Str(constants.KEY_PROCESS, "loading cart state").
		Logger()

	logger.Info().Msg("loading cart state")
	cart, err := repo.Load(logger.WithContext(c))
	switch {
	case err == nil:
		logger.Info().Object(constants.KEY_CART, cart).Msg("loaded cart state")
	case errors.Is(err, inErrors.ErrStateNotFound):
		logger.Info().Msg("no stored cart state, starting with empty cart")
		cart = domain.Empty()
	default:
		err = fmt.Errorf("failed loading cart state with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Warn().Err(err).Msg("starting with empty cart")
		cart = domain.Empty()
	}
	metrics.CartItemCount.Set(float64(cart.ItemCount))

	return &CartService{cart: cart, repo: repo}
}

func (s *CartService) AddItem(
	c context.Context,
	product response.Product,
	quantity int,
) (domain.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService AddItem")
	defer span.End()

	return s.apply(c, domain.AddItem{Product: product, Quantity: quantity})
}

func (s *CartService) RemoveItem(c context.Context, productID int) domain.Cart {
	c, span := otel.Tracer.Start(c, "CartService RemoveItem")
	defer span.End()

	cart, _ := s.apply(c, domain.RemoveItem{ProductID: productID})
	return cart
}

// UpdateQuantity replaces the quantity of productID's line. A quantity of
// zero or less removes the line.
func (s *CartService) UpdateQuantity(
	c context.Context,
	productID int,
	quantity int,
) (domain.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService UpdateQuantity")
	defer span.End()

	return s.apply(c, domain.UpdateQuantity{ProductID: productID, Quantity: quantity})
}

func (s *CartService) ClearCart(c context.Context) domain.Cart {
	c, span := otel.Tracer.Start(c, "CartService ClearCart")
	defer span.End()

	cart, _ := s.apply(c, domain.Clear{})
	return cart
}

// ClearCartAt clears the cart only if no mutation happened since version was
// read through Snapshot. Otherwise it returns ErrCartChanged and keeps the
// cart as it is.
func (s *CartService) ClearCartAt(c context.Context, version uint64) (domain.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService ClearCartAt")
	defer span.End()

	return s.applyAt(c, domain.Clear{}, &version)
}

// Snapshot returns the current cart together with its version.
func (s *CartService) Snapshot() (domain.Cart, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Clone(), s.version
}

func (s *CartService) GetItemQuantity(productID int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Quantity(productID)
}

// GetTotalPrice recomputes the total from the current lines.
func (s *CartService) GetTotalPrice() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.CalculateTotal(s.cart.Items)
}

func (s *CartService) Cart() domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Clone()
}

func (s *CartService) apply(c context.Context, cmd domain.Command) (domain.Cart, error) {
	return s.applyAt(c, cmd, nil)
}

func (s *CartService) applyAt(c context.Context, cmd domain.Command, version *uint64) (domain.Cart, error) {
	span := otel.SpanFromContext(c)

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartService apply").
		Str(constants.KEY_PROCESS, cmd.Name()).
		Logger()

	s.mu.Lock()
	defer s.mu.Unlock()

	if version != nil && *version != s.version {
		err := fmt.Errorf("version=%d current=%d: %w", *version, s.version, inErrors.ErrCartChanged)
		inErrors.HandleError(err, span)
		logger.Warn().Err(err).Msgf("skipped %s", cmd.Name())
		return s.cart.Clone(), err
	}

	logger.Trace().Msgf("applying %s", cmd.Name())
	next, err := domain.Apply(s.cart, cmd)
	if err != nil {
		err = fmt.Errorf("failed applying %s with error=%w", cmd.Name(), err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return s.cart.Clone(), err
	}
	s.cart = next
	s.version++
	metrics.CartMutationsTotal.WithLabelValues(cmd.Name()).Inc()
	metrics.CartItemCount.Set(float64(next.ItemCount))
	logger.Info().Object(constants.KEY_CART, next).Msgf("applied %s", cmd.Name())

	logger = logger.With().Str(constants.KEY_PROCESS, "persisting cart state").Logger()
	if err := s.repo.Save(logger.WithContext(c), next); err != nil {
		metrics.CartPersistFailuresTotal.Inc()
		err = fmt.Errorf("failed persisting cart state with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
	}
	return next.Clone(), nil
}
