package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"answerlens/internal/core"
	"answerlens/internal/options"
)

type configView struct {
	Provider core.ProviderType                 `json:"provider"`
	Configs  map[core.ProviderType]configEntry `json:"configs"`
}

type configEntry struct {
	Endpoint  string `json:"endpoint"`
	Model     string `json:"model"`
	APIKeySet bool   `json:"apiKeySet"`
	APIKey    string `json:"apiKey,omitempty"`
}

// configUpdate fields left out of the body keep their stored value.
type configUpdate struct {
	Endpoint *string `json:"endpoint"`
	APIKey   *string `json:"apiKey"`
	Model    *string `json:"model"`
}

func (s *Server) handleGetConfig(c echo.Context) error {
	configs, err := s.deps.Repo.Load(c.Request().Context())
	if err != nil {
		return err
	}

	view := configView{
		Provider: configs.Provider,
		Configs:  make(map[core.ProviderType]configEntry, len(core.ProviderTypes())),
	}
	for _, t := range core.ProviderTypes() {
		cfg := configs.Config(t)
		view.Configs[t] = configEntry{
			Endpoint:  cfg.Endpoint,
			Model:     cfg.Model,
			APIKeySet: cfg.APIKey != "",
			APIKey:    maskKey(cfg.APIKey),
		}
	}
	return c.JSON(http.StatusOK, view)
}

func (s *Server) handlePutConfig(c echo.Context) error {
	provider, err := core.ParseProviderType(c.Param("provider"))
	if err != nil {
		return badRequest(err.Error())
	}
	var update configUpdate
	if err := c.Bind(&update); err != nil {
		return err
	}

	s.configMu.Lock()
	defer s.configMu.Unlock()

	ctx := c.Request().Context()
	notes := &options.Recorder{}
	panel, err := options.NewPanel(ctx, s.deps.Repo, notes, s.zlog)
	if err != nil {
		return err
	}
	if err := panel.Select(provider); err != nil {
		return badRequest(err.Error())
	}
	if update.Endpoint != nil {
		panel.SetEndpoint(*update.Endpoint)
	}
	if update.APIKey != nil {
		panel.SetAPIKey(*update.APIKey)
	}
	if update.Model != nil {
		panel.SetModel(*update.Model)
	}

	if err := panel.Save(ctx); err != nil {
		var verr *options.ValidationError
		if errors.As(err, &verr) {
			return requestError{Status: http.StatusBadRequest, Message: verr.Message, Type: "validation_error"}
		}
		return err
	}

	message := options.MsgSaved
	if toasts := notes.Toasts(); len(toasts) > 0 {
		message = toasts[len(toasts)-1]
	}
	return c.JSON(http.StatusOK, map[string]string{
		"provider": string(provider),
		"message":  message,
	})
}

// maskKey keeps the last four characters of a credential.
func maskKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 4 {
		return "****"
	}
	return "****" + key[len(key)-4:]
}
