package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/internal/constants"
	inErrors "github.com/Alturino/storefront/internal/errors"
	inHttp "github.com/Alturino/storefront/internal/http"
	"github.com/Alturino/storefront/internal/otel"
	"github.com/Alturino/storefront/preference/service"
)

type ThemeService interface {
	Get(c context.Context) (service.Theme, error)
	Set(c context.Context, theme service.Theme) error
	Toggle(c context.Context) (service.Theme, error)
}

type setTheme struct {
	Theme string `json:"theme"`
}

type ThemeController struct {
	service ThemeService
}

func AttachThemeController(mux *mux.Router, service ThemeService) {
	controller := ThemeController{service: service}

	router := mux.PathPrefix("/theme").Subrouter()
	router.HandleFunc("", controller.GetTheme).Methods(http.MethodGet)
	router.HandleFunc("", controller.SetTheme).Methods(http.MethodPut)
	router.HandleFunc("/toggle", controller.ToggleTheme).Methods(http.MethodPost)
}

func (ctrl ThemeController) GetTheme(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ThemeController GetTheme")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(constants.KEY_TAG, "ThemeController GetTheme").Logger()
	theme, err := ctrl.service.Get(logger.WithContext(c))
	if err != nil {
		err = fmt.Errorf("failed getting theme with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteError(c, w, err)
		return
	}
	inHttp.WriteSuccess(c, w, "found theme", map[string]interface{}{"theme": theme})
}

func (ctrl ThemeController) SetTheme(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ThemeController SetTheme")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(constants.KEY_TAG, "ThemeController SetTheme").Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "decoding request body").Logger()
	reqBody := setTheme{}
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, http.StatusBadRequest, err.Error())
		return
	}

	logger = logger.With().
		Str(constants.KEY_PROCESS, "setting theme").
		Str(constants.KEY_THEME, reqBody.Theme).
		Logger()
	theme, err := service.ParseTheme(reqBody.Theme)
	if err == nil {
		err = ctrl.service.Set(logger.WithContext(c), theme)
	}
	if err != nil {
		err = fmt.Errorf("failed setting theme with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteError(c, w, err)
		return
	}
	logger.Info().Msg("set theme")
	inHttp.WriteSuccess(c, w, "set theme", map[string]interface{}{"theme": theme})
}

func (ctrl ThemeController) ToggleTheme(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ThemeController ToggleTheme")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "ThemeController ToggleTheme").
		Str(constants.KEY_PROCESS, "toggling theme").
		Logger()
	theme, err := ctrl.service.Toggle(logger.WithContext(c))
	if err != nil {
		err = fmt.Errorf("failed toggling theme with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteError(c, w, err)
		return
	}
	logger.Info().Str(constants.KEY_THEME, string(theme)).Msg("toggled theme")
	inHttp.WriteSuccess(c, w, "toggled theme", map[string]interface{}{"theme": theme})
}
