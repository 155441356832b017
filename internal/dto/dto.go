package dto

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func JsonError(c *gin.Context, status int, message ...string) {
	msg := ""
	if len(message) > 0 {
		msg = message[0]
	}

	c.JSON(status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: msg,
	})
}

type SelectAnswerRequest struct {
	QuestionID string `json:"question_id" binding:"required"`
	Option     string `json:"option" binding:"required"`
}

type UpdateProfileRequest struct {
	Name      string `json:"name" binding:"required"`
	ClassName string `json:"class_name"`
}
