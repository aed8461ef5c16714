package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/thereayou/echo-messenger/internal/services"
)

type ErrorResponse struct {
	Error    string   `json:"error"`
	NotFound []string `json:"notFound,omitempty"`
}

var statuses = map[error]int{
	services.ErrInvalidRequest:  http.StatusBadRequest,
	services.ErrUnauthenticated: http.StatusUnauthorized,
	services.ErrForbidden:       http.StatusForbidden,
	services.ErrNotFound:        http.StatusNotFound,
	services.ErrConflict:        http.StatusConflict,
	services.ErrInternal:        http.StatusInternalServerError,
}

// StatusOf HTTP статус для ошибки сервиса
func StatusOf(err error) int {
	return statuses[services.KindOf(err)]
}

// AbortWithError отвечает клиенту по виду ошибки. Внутренние ошибки
// прикрепляются к контексту и пишутся в лог RequestLogger, клиент видит
// только общее сообщение.
func AbortWithError(c *gin.Context, err error) {
	status := StatusOf(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		c.AbortWithStatusJSON(status, ErrorResponse{Error: "An unexpected error occurred."})
		return
	}

	resp := ErrorResponse{Error: err.Error()}
	var svcErr *services.Error
	if errors.As(err, &svcErr) {
		resp = ErrorResponse{Error: svcErr.Message, NotFound: svcErr.NotFound}
	}
	c.AbortWithStatusJSON(status, resp)
}
