package controller

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/internal/constants"
	inErrors "github.com/Alturino/storefront/internal/errors"
	inHttp "github.com/Alturino/storefront/internal/http"
	"github.com/Alturino/storefront/internal/otel"
	"github.com/Alturino/storefront/notification/pkg/response"
)

type NotificationService interface {
	Active() []response.Notification
	Remove(c context.Context, id uuid.UUID) bool
}

type NotificationController struct {
	service NotificationService
}

func AttachNotificationController(mux *mux.Router, service NotificationService) {
	controller := NotificationController{service: service}

	router := mux.PathPrefix("/notifications").Subrouter()
	router.HandleFunc("", controller.GetNotifications).Methods(http.MethodGet)
	router.HandleFunc("/{notificationId}", controller.RemoveNotification).Methods(http.MethodDelete)
}

func (ctrl NotificationController) GetNotifications(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "NotificationController GetNotifications")
	defer span.End()

	notifications := ctrl.service.Active()
	zerolog.Ctx(c).
		Trace().
		Str(constants.KEY_TAG, "NotificationController GetNotifications").
		Int("active", len(notifications)).
		Msg("got notifications")
	inHttp.WriteSuccess(c, w, "found notifications", map[string]interface{}{
		"notifications": notifications,
	})
}

func (ctrl NotificationController) RemoveNotification(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "NotificationController RemoveNotification")
	defer span.End()

	raw := mux.Vars(r)["notificationId"]
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "NotificationController RemoveNotification").
		Str(constants.KEY_NOTIFICATIONID, raw).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "parsing notificationId").Logger()
	id, err := uuid.Parse(raw)
	if err != nil {
		err = fmt.Errorf("failed parsing notificationId with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, http.StatusBadRequest, err.Error())
		return
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "removing notification").Logger()
	if !ctrl.service.Remove(logger.WithContext(c), id) {
		logger.Info().Msg("notification not active")
		inHttp.WriteFailed(c, w, http.StatusNotFound, fmt.Sprintf("notificationId=%s is not active", id))
		return
	}
	logger.Info().Msg("removed notification")
	inHttp.WriteSuccess(c, w, "removed notification", map[string]interface{}{
		"notifications": ctrl.service.Active(),
	})
}
