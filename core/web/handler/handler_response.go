package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jupymate/jupymate_navigator/core/jupiter"
	"github.com/jupymate/jupymate_navigator/core/portfolio"
	"github.com/jupymate/jupymate_navigator/core/swap"
)

type Response struct {
	Code    int64       `json:"code"`
	Message string      `json:"msg"`
	Data    interface{} `json:"data"`
}

const (
	CodeOK          int64 = 0
	CodeBadRequest  int64 = 1001
	CodeUpstream    int64 = 1002
	CodeNoRoute     int64 = 1003
	CodeSwapBuild   int64 = 1004
	CodeTxFailed    int64 = 1005
	CodeTxPending   int64 = 1006
	CodeBadAIOutput int64 = 1007
	CodeInternal    int64 = 1500
)

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Code: CodeOK, Message: "ok", Data: data})
}

func respondBadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, Response{Code: CodeBadRequest, Message: msg})
}

// respondError maps the error taxonomy onto the response envelope. The
// message is the short human-readable text the dashboard shows.
func respondError(c *gin.Context, err error) {
	var upstreamErr *jupiter.UpstreamHTTPError
	var noRouteErr *jupiter.NoRouteError
	var buildErr *jupiter.SwapBuildError
	var txFailedErr *swap.TransactionFailedError
	var pendingErr *swap.ConfirmationPendingError
	var formatErr *portfolio.ClassificationFormatError

	switch {
	case errors.As(err, &upstreamErr):
		c.JSON(http.StatusBadGateway, Response{Code: CodeUpstream, Message: upstreamErr.Error()})
	case errors.As(err, &noRouteErr):
		c.JSON(http.StatusNotFound, Response{Code: CodeNoRoute, Message: noRouteErr.Error()})
	case errors.As(err, &buildErr):
		c.JSON(http.StatusBadGateway, Response{Code: CodeSwapBuild, Message: buildErr.Error()})
	case errors.As(err, &txFailedErr):
		c.JSON(http.StatusConflict, Response{Code: CodeTxFailed, Message: txFailedErr.Error()})
	case errors.As(err, &pendingErr):
		// submitted but unconfirmed: hand the signature back so the user
		// can check the chain instead of retrying
		c.JSON(http.StatusAccepted, Response{
			Code:    CodeTxPending,
			Message: pendingErr.Error(),
			Data:    gin.H{"signature": pendingErr.Signature},
		})
	case errors.As(err, &formatErr):
		c.JSON(http.StatusBadGateway, Response{Code: CodeBadAIOutput, Message: formatErr.Error()})
	default:
		c.JSON(http.StatusInternalServerError, Response{Code: CodeInternal, Message: err.Error()})
	}
}
