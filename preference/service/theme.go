package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/internal/constants"
	inErrors "github.com/Alturino/storefront/internal/errors"
	"github.com/Alturino/storefront/internal/otel"
)

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"

	DEFAULT_THEME = ThemeDark
	KEY_THEME     = "theme"
)

func ParseTheme(value string) (Theme, error) {
	switch Theme(value) {
	case ThemeLight, ThemeDark:
		return Theme(value), nil
	default:
		return "", fmt.Errorf("theme=%s: %w", value, inErrors.ErrInvalidTheme)
	}
}

type ThemeService struct {
	client *redis.Client
}

func NewThemeService(client *redis.Client) *ThemeService {
	return &ThemeService{client: client}
}

// Get returns the stored theme, or dark when none or an unknown value is
// stored.
func (s *ThemeService) Get(c context.Context) (Theme, error) {
	c, span := otel.Tracer.Start(c, "ThemeService Get")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "ThemeService Get").
		Str(constants.KEY_PROCESS, "getting theme").
		Logger()

	value, err := s.client.Get(c, KEY_THEME).Result()
	if errors.Is(err, redis.Nil) {
		logger.Debug().Msg("theme not set, using default")
		return DEFAULT_THEME, nil
	}
	if err != nil {
		err = fmt.Errorf("failed getting theme with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return DEFAULT_THEME, err
	}

	theme, err := ParseTheme(value)
	if err != nil {
		logger.Warn().Err(err).Msg("stored theme is invalid, using default")
		return DEFAULT_THEME, nil
	}
	logger.Debug().Str(constants.KEY_THEME, string(theme)).Msg("got theme")
	return theme, nil
}

func (s *ThemeService) Set(c context.Context, theme Theme) error {
	c, span := otel.Tracer.Start(c, "ThemeService Set")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "ThemeService Set").
		Str(constants.KEY_PROCESS, "setting theme").
		Str(constants.KEY_THEME, string(theme)).
		Logger()

	if _, err := ParseTheme(string(theme)); err != nil {
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	if err := s.client.Set(c, KEY_THEME, string(theme), 0).Err(); err != nil {
		err = fmt.Errorf("failed setting theme with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("set theme")
	return nil
}

// Toggle flips between light and dark and persists the result.
func (s *ThemeService) Toggle(c context.Context) (Theme, error) {
	c, span := otel.Tracer.Start(c, "ThemeService Toggle")
	defer span.End()

	current, err := s.Get(c)
	if err != nil {
		inErrors.HandleError(err, span)
		return current, err
	}
	next := ThemeDark
	if current == ThemeDark {
		next = ThemeLight
	}
	if err = s.Set(c, next); err != nil {
		inErrors.HandleError(err, span)
		return current, err
	}
	return next, nil
}
