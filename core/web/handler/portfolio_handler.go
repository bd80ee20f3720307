package handler

import (
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/jupymate/jupymate_navigator/core/assist"
	"github.com/jupymate/jupymate_navigator/core/portfolio"
	"github.com/jupymate/jupymate_navigator/core/token"
	"github.com/jupymate/jupymate_navigator/core/trust"
	"github.com/jupymate/jupymate_navigator/utils/logger"
	"github.com/sirupsen/logrus"
)

var classifier *portfolio.Classifier
var onceClassifier sync.Once

func getClassifier() *portfolio.Classifier {
	onceClassifier.Do(func() {
		classifier = portfolio.NewClassifier(assist.GetGenerator(), trust.GetService())
	})
	return classifier
}

type PortfolioRequest struct {
	Tokens []PortfolioToken `json:"tokens" binding:"required"`
}

type PortfolioToken struct {
	Symbol  string  `json:"symbol" binding:"required"`
	Balance float64 `json:"balance"`
}

// PortfolioHandler runs the AI vibe check over the user's holdings.
// Symbols outside the registry are skipped, matching the dashboard
// which only surfaces supported tokens.
func PortfolioHandler(c *gin.Context) {
	var req PortfolioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	registry := token.GetRegistry()

	var holdings []portfolio.Holding
	for _, t := range req.Tokens {
		if t.Balance < 0 {
			respondBadRequest(c, "balances must be non-negative")
			return
		}
		desc, ok := registry.BySymbol(t.Symbol)
		if !ok {
			continue
		}
		holdings = append(holdings, portfolio.Holding{
			Symbol:    desc.Symbol,
			Balance:   t.Balance,
			RiskClass: desc.RiskClass,
			Mint:      desc.Mint,
		})
	}

	if len(holdings) == 0 {
		respondBadRequest(c, "no supported tokens in portfolio")
		return
	}

	result, err := getClassifier().Classify(c.Request.Context(), holdings)
	if err != nil {
		logger.Logrus.WithFields(logrus.Fields{"Holdings": len(holdings), "ErrMsg": err}).Error("portfolio classification failed")
		respondError(c, err)
		return
	}

	respondOK(c, result)
}
