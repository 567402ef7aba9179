package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/cart/domain"
	"github.com/Alturino/storefront/internal/constants"
	inErrors "github.com/Alturino/storefront/internal/errors"
	"github.com/Alturino/storefront/internal/otel"
)

const (
	DEFAULT_STORAGE_KEY = "cart-storage"
	STATE_VERSION       = 1
)

// envelope is the stored shape of the cart: {"state":{...},"version":1}.
type envelope struct {
	State   domain.Cart `json:"state"`
	Version int         `json:"version"`
}

type RedisCartRepository struct {
	client *redis.Client
	key    string
}

func NewRedisCartRepository(client *redis.Client, key string) *RedisCartRepository {
	if key == "" {
		key = DEFAULT_STORAGE_KEY
	}
	return &RedisCartRepository{client: client, key: key}
}

// Load reads the stored cart. It returns ErrStateNotFound when nothing is
// stored and ErrCorruptState when the stored value cannot be trusted.
func (r *RedisCartRepository) Load(c context.Context) (domain.Cart, error) {
	c, span := otel.Tracer.Start(c, "RedisCartRepository Load")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "RedisCartRepository Load").
		Str(constants.KEY_CACHE_KEY, r.key).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "getting cart state").Logger()
	logger.Trace().Msg("getting cart state")
	data, err := r.client.Get(c, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		logger.Debug().Msg("cart state not found")
		return domain.Cart{}, inErrors.ErrStateNotFound
	}
	if err != nil {
		err = fmt.Errorf("failed getting cart state with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return domain.Cart{}, err
	}
	logger.Trace().Msg("got cart state")

	logger = logger.With().Str(constants.KEY_PROCESS, "decoding cart state").Logger()
	stored := envelope{}
	if err = json.Unmarshal(data, &stored); err != nil {
		err = fmt.Errorf("failed decoding cart state with error=%s: %w", err.Error(), inErrors.ErrCorruptState)
		inErrors.HandleError(err, span)
		logger.Warn().Err(err).Msg(err.Error())
		return domain.Cart{}, err
	}
	if stored.Version != STATE_VERSION {
		err = fmt.Errorf("cart state version=%d, expected version=%d: %w", stored.Version, STATE_VERSION, inErrors.ErrCorruptState)
		inErrors.HandleError(err, span)
		logger.Warn().Err(err).Msg(err.Error())
		return domain.Cart{}, err
	}

	cart, err := domain.Normalize(stored.State)
	if err != nil {
		err = fmt.Errorf("failed validating cart state with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Warn().Err(err).Msg(err.Error())
		return domain.Cart{}, err
	}
	logger.Debug().Object(constants.KEY_CART, cart).Msg("decoded cart state")
	return cart, nil
}

func (r *RedisCartRepository) Save(c context.Context, cart domain.Cart) error {
	c, span := otel.Tracer.Start(c, "RedisCartRepository Save")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "RedisCartRepository Save").
		Str(constants.KEY_CACHE_KEY, r.key).
		Object(constants.KEY_CART, cart).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "encoding cart state").Logger()
	data, err := json.Marshal(envelope{State: cart, Version: STATE_VERSION})
	if err != nil {
		err = fmt.Errorf("failed encoding cart state with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "setting cart state").Logger()
	logger.Trace().Msg("setting cart state")
	if err = r.client.Set(c, r.key, data, 0).Err(); err != nil {
		err = fmt.Errorf("failed setting cart state with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Trace().Msg("set cart state")
	return nil
}
