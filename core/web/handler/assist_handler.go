package handler

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/jupymate/jupymate_navigator/config"
	"github.com/jupymate/jupymate_navigator/core/assist"
	"github.com/jupymate/jupymate_navigator/utils/logger"
	"github.com/sirupsen/logrus"
)

var assistant *assist.Assistant
var onceAssistant sync.Once

func getAssistant() *assist.Assistant {
	onceAssistant.Do(func() {
		assistant = assist.NewAssistant(assist.GetGenerator())
	})
	return assistant
}

// fallback shown when no MCP config file is configured
const defaultMCPConfig = `{
  "mcpServers": {
    "jupiter": {
      "command": "npx",
      "args": ["-y", "@jup-ag/mcp-server"],
      "env": {
        "JUPITER_API_URL": "https://quote-api.jup.ag/v6"
      }
    }
  }
}`

var mcpConfigJSON string
var onceMCP sync.Once

func getMCPConfigJSON() string {
	onceMCP.Do(func() {
		mcpConfigJSON = defaultMCPConfig

		path := config.GetMCPConfig().ConfigFile
		if path == "" {
			return
		}

		data, err := os.ReadFile(path)
		if err != nil {
			logger.Logrus.WithFields(logrus.Fields{"Path": path, "ErrMsg": err}).Error("read mcp config failed, using builtin default")
			return
		}
		if !json.Valid(data) {
			logger.Logrus.WithFields(logrus.Fields{"Path": path}).Error("mcp config is not valid JSON, using builtin default")
			return
		}
		mcpConfigJSON = string(data)
	})
	return mcpConfigJSON
}

// MCPConfigHandler serves the static MCP configuration the dashboard
// renders with tooltips.
func MCPConfigHandler(c *gin.Context) {
	respondOK(c, json.RawMessage(getMCPConfigJSON()))
}

type TooltipRequest struct {
	Parameter string `json:"parameter" binding:"required"`
}

func TooltipHandler(c *gin.Context) {
	var req TooltipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	tooltip, err := getAssistant().Tooltip(c.Request.Context(), req.Parameter, getMCPConfigJSON())
	if err != nil {
		logger.Logrus.WithFields(logrus.Fields{"Parameter": req.Parameter, "ErrMsg": err}).Error("tooltip generation failed")
		respondError(c, err)
		return
	}

	respondOK(c, gin.H{"tooltip": tooltip})
}

type ChatRequest struct {
	Query   string           `json:"query" binding:"required"`
	History []assist.Message `json:"history"`
}

func ChatHandler(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	answer, err := getAssistant().Chat(c.Request.Context(), req.Query, req.History)
	if err != nil {
		logger.Logrus.WithFields(logrus.Fields{"ErrMsg": err}).Error("chat generation failed")
		respondError(c, err)
		return
	}

	respondOK(c, gin.H{"answer": answer})
}
