package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/storefront/preference/service"
)

type memoryTheme struct {
	theme service.Theme
}

func (m *memoryTheme) Get(c context.Context) (service.Theme, error) {
	if m.theme == "" {
		return service.DEFAULT_THEME, nil
	}
	return m.theme, nil
}

func (m *memoryTheme) Set(c context.Context, theme service.Theme) error {
	m.theme = theme
	return nil
}

func (m *memoryTheme) Toggle(c context.Context) (service.Theme, error) {
	current, _ := m.Get(c)
	if current == service.ThemeDark {
		m.theme = service.ThemeLight
	} else {
		m.theme = service.ThemeDark
	}
	return m.theme, nil
}

func TestThemeController(t *testing.T) {
	router := mux.NewRouter()
	AttachThemeController(router, &memoryTheme{})

	tests := []struct {
		name               string
		method             string
		target             string
		body               string
		expectedStatusCode int
		expectedTheme      string
	}{
		{name: "given nothing stored should return dark", method: http.MethodGet, target: "/theme", expectedStatusCode: http.StatusOK, expectedTheme: "dark"},
		{name: "given toggle should switch to light", method: http.MethodPost, target: "/theme/toggle", expectedStatusCode: http.StatusOK, expectedTheme: "light"},
		{name: "given valid theme should set it", method: http.MethodPut, target: "/theme", body: `{"theme":"dark"}`, expectedStatusCode: http.StatusOK, expectedTheme: "dark"},
		{name: "given unknown theme should be bad request", method: http.MethodPut, target: "/theme", body: `{"theme":"sepia"}`, expectedStatusCode: http.StatusBadRequest},
		{name: "given malformed body should be bad request", method: http.MethodPut, target: "/theme", body: `{`, expectedStatusCode: http.StatusBadRequest},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(test.method, test.target, bytes.NewBufferString(test.body)))
			assert.Equal(t, test.expectedStatusCode, rec.Code)

			body := struct {
				Data struct {
					Theme string `json:"theme"`
				} `json:"data"`
			}{}
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, test.expectedTheme, body.Data.Theme)
		})
	}
}
