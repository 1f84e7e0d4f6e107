package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func (s *Server) handleModels(c echo.Context) error {
	if s.deps.Remote == nil {
		return requestError{
			Status:  http.StatusServiceUnavailable,
			Message: "remote configuration is not configured",
			Type:    "unavailable",
		}
	}

	names, err := s.deps.Remote.FetchModelNames(c.Request().Context())
	if err != nil {
		s.log.Warn("model list fetch failed", zap.Error(err))
		return requestError{
			Status:  http.StatusBadGateway,
			Message: "failed to fetch model names",
			Type:    "upstream_error",
		}
	}
	return c.JSON(http.StatusOK, map[string][]string{"openai_model_names": names})
}
