package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/jupymate/jupymate_navigator/core/token"
)

// TokenListHandler returns the supported token table.
func TokenListHandler(c *gin.Context) {
	respondOK(c, token.GetRegistry().List())
}
