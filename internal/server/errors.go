package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type requestError struct {
	Status  int
	Message string
	Type    string
}

func (e requestError) Error() string {
	return e.Message
}

func badRequest(msg string) requestError {
	return requestError{Status: http.StatusBadRequest, Message: msg, Type: "invalid_request_error"}
}

type errorBody struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func writeError(c echo.Context, status int, message, errType string) error {
	var payload errorBody
	payload.Error.Message = message
	payload.Error.Type = errType
	return c.JSON(status, payload)
}

func errorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			log.Debug("error after response started", zap.Error(err))
			return
		}

		var reqErr requestError
		if errors.As(err, &reqErr) {
			_ = writeError(c, reqErr.Status, reqErr.Message, reqErr.Type)
			return
		}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			_ = writeError(c, he.Code, fmt.Sprint(he.Message), "invalid_request_error")
			return
		}

		log.Error("unhandled error", zap.Error(err))
		_ = writeError(c, http.StatusInternalServerError, "internal server error", "server_error")
	}
}
