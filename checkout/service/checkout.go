package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/cart/domain"
	"github.com/Alturino/storefront/checkout/pkg/request"
	"github.com/Alturino/storefront/checkout/pkg/response"
	"github.com/Alturino/storefront/internal/constants"
	inErrors "github.com/Alturino/storefront/internal/errors"
	"github.com/Alturino/storefront/internal/format"
	"github.com/Alturino/storefront/internal/metrics"
	"github.com/Alturino/storefront/internal/otel"
	"github.com/Alturino/storefront/internal/validate"
	notification "github.com/Alturino/storefront/notification/pkg/response"
)

const DEFAULT_PROCESSING_DELAY = 2 * time.Second

type CartStore interface {
	Snapshot() (domain.Cart, uint64)
	ClearCartAt(c context.Context, version uint64) (domain.Cart, error)
}

type Notifier interface {
	Show(c context.Context, message string, severity notification.Severity, description ...string) notification.Notification
}

// CheckoutService drives a submission from idle through validation and the
// simulated payment to a completed order. There is no failed state.
type CheckoutService struct {
	cart     CartStore
	notifier Notifier
	validate *validator.Validate
	delay    time.Duration
	now      func() time.Time
}

func NewCheckoutService(
	cart CartStore,
	notifier Notifier,
	delay time.Duration,
) *CheckoutService {
	if delay < 0 {
		delay = DEFAULT_PROCESSING_DELAY
	}
	return &CheckoutService{
		cart:     cart,
		notifier: notifier,
		validate: validate.New(),
		delay:    delay,
		now:      time.Now,
	}
}

// Submit runs one checkout. It returns ErrEmptyCart when there is nothing to
// buy and ErrValidation, together with the field errors, when the form is
// rejected. A cancelled context during processing leaves the cart untouched.
// The order covers the cart as read at submission; if the cart was mutated
// while the payment was processing, nothing is placed and ErrCartChanged is
// returned.
func (s *CheckoutService) Submit(c context.Context, form request.Form) (response.Checkout, error) {
	c, span := otel.Tracer.Start(c, "CheckoutService Submit")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CheckoutService Submit").
		Object(constants.KEY_FORM, form).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "checking cart").Logger()
	cart, version := s.cart.Snapshot()
	if cart.IsEmpty() {
		metrics.CheckoutTotal.WithLabelValues("empty_cart").Inc()
		err := fmt.Errorf("failed submitting checkout with error=%w", inErrors.ErrEmptyCart)
		inErrors.HandleError(err, span)
		logger.Warn().Err(err).Msg(err.Error())
		return response.Checkout{State: response.StateIdle}, err
	}

	logger = logger.With().
		Str(constants.KEY_PROCESS, "validating form").
		Str(constants.KEY_STATE, string(response.StateValidating)).
		Logger()
	logger.Trace().Msg("validating form")
	now := s.now()
	if err := s.validate.StructCtx(validate.WithNow(c, now), form); err != nil {
		fieldErrors := validate.FieldErrors(err, request.Messages)
		if fieldErrors == nil {
			err = fmt.Errorf("failed validating form with error=%w", err)
			inErrors.HandleError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.Checkout{State: response.StateIdle}, err
		}
		metrics.CheckoutTotal.WithLabelValues("invalid").Inc()
		err = fmt.Errorf("failed validating form with error=%w", inErrors.ErrValidation)
		inErrors.HandleError(err, span)
		logger.Info().Any(constants.KEY_FIELD_ERRORS, fieldErrors).Msg(err.Error())
		s.notifier.Show(c, inErrors.ErrValidation.Error(), notification.SeverityWarning)
		return response.Checkout{State: response.StateIdle, Errors: fieldErrors}, err
	}
	logger.Trace().Msg("validated form")

	order := response.Order{
		Total:          cart.Total,
		FormattedTotal: format.FormatPrice(cart.Total),
		ItemCount:      cart.ItemCount,
	}
	logger = logger.With().
		Str(constants.KEY_PROCESS, "processing payment").
		Str(constants.KEY_STATE, string(response.StateProcessing)).
		Str(constants.KEY_TOTAL, order.Total.String()).
		Int(constants.KEY_ITEM_COUNT, order.ItemCount).
		Logger()
	logger.Info().Msg("processing payment")
	timer := time.NewTimer(s.delay)
	defer timer.Stop()
	select {
	case <-c.Done():
		metrics.CheckoutTotal.WithLabelValues("cancelled").Inc()
		err := fmt.Errorf("failed processing payment with error=%w", c.Err())
		inErrors.HandleError(err, span)
		logger.Warn().Err(err).Msg(err.Error())
		return response.Checkout{State: response.StateIdle}, err
	case <-timer.C:
	}
	logger.Info().Msg("processed payment")

	logger = logger.With().
		Str(constants.KEY_PROCESS, "completing order").
		Str(constants.KEY_STATE, string(response.StateCompleted)).
		Uint64(constants.KEY_CART_VERSION, version).
		Logger()
	if _, err := s.cart.ClearCartAt(logger.WithContext(c), version); err != nil {
		metrics.CheckoutTotal.WithLabelValues("cart_changed").Inc()
		err = fmt.Errorf("failed completing order with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Warn().Err(err).Msg(err.Error())
		s.notifier.Show(c, inErrors.ErrCartChanged.Error(), notification.SeverityWarning)
		return response.Checkout{State: response.StateIdle}, err
	}

	order.PlacedAt = s.now()
	order.OrderNumber = format.GenerateOrderNumber(order.PlacedAt)
	order.FormattedDate = format.FormatDate(order.PlacedAt)
	logger = logger.With().Str(constants.KEY_ORDER_NUMBER, order.OrderNumber).Logger()
	metrics.CheckoutTotal.WithLabelValues("completed").Inc()
	s.notifier.Show(c, constants.MSG_ORDER_PLACED, notification.SeveritySuccess, "Order "+order.OrderNumber)
	logger.Info().Object(constants.KEY_ORDER, order).Msg("completed order")

	return response.Checkout{State: response.StateCompleted, Order: &order}, nil
}
