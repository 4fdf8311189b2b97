package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// MessageBody carries the human-readable text of a rejection or a miss. The
// same shape serves 409 (business rule said no) and 404 (the id does not
// exist); status codes keep the two distinguishable.
type MessageBody struct {
	Message string `json:"message"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}

func RespondConflict(c *gin.Context, message string) {
	c.JSON(http.StatusConflict, MessageBody{Message: message})
}

func RespondNotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, MessageBody{Message: message})
}
