package response

import (
	"net/http"

	"Disastrous/pkg/errors"

	"github.com/gin-gonic/gin"
)

type Body struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func Success(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Body{Code: 0, Message: message, Data: data})
}

func Fail(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusBadRequest, Body{Code: 1, Message: message, Data: data})
}

// FailWithStatus 指定 HTTP 状态码的失败响应
func FailWithStatus(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Body{Code: 1, Message: message, Data: data})
}

// Error 按错误码选 HTTP 状态码的失败响应。未标码的错误按 500 处理。
func Error(c *gin.Context, err error) {
	code := errors.GetCode(err)
	if code == errors.CodeUnknown {
		// 未标码不能和成功的 code 0 混淆
		code = errors.CodeInternal
	}
	status := http.StatusInternalServerError
	switch code {
	case errors.CodeInvalid:
		status = http.StatusBadRequest
	case errors.CodeNotFound:
		status = http.StatusNotFound
	case errors.CodeUnauthorized:
		status = http.StatusUnauthorized
	case errors.CodeUpstream:
		status = http.StatusBadGateway
	}
	c.JSON(status, Body{Code: code, Message: err.Error()})
}
