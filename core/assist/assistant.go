package assist

import (
	"context"
	"fmt"
	"strings"
)

const chatSystemContext = `You are the Jupymate Navigator assistant, a helpful, concise expert on the Jupiter swap aggregator and the Solana ecosystem. Answer questions about swaps, routes, fees, slippage, tokens and the dashboard itself. Keep answers short and practical.`

const tooltipSystemContext = `You are an AI assistant that helps developers understand configuration parameters. Based on the MCP configuration provided, generate a concise and helpful tooltip for the given configuration parameter. Answer with the tooltip text only.`

type Assistant struct {
	gen Generator
}

func NewAssistant(gen Generator) *Assistant {
	return &Assistant{gen: gen}
}

// Tooltip generates helper text for one parameter of the MCP
// configuration JSON.
func (a *Assistant) Tooltip(ctx context.Context, parameter, mcpConfigJSON string) (string, error) {
	if a.gen == nil {
		return "", fmt.Errorf("AI generation is not configured")
	}
	if parameter == "" {
		return "", fmt.Errorf("parameter is required")
	}

	prompt := fmt.Sprintf("MCP Configuration:\n%s\n\nConfiguration Parameter:\n%s\n\nTooltip:", mcpConfigJSON, parameter)

	out, err := a.gen.Generate(ctx, tooltipSystemContext, []Message{{Role: "user", Text: prompt}})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// Chat answers an open-ended user query with prior turns as context.
func (a *Assistant) Chat(ctx context.Context, query string, history []Message) (string, error) {
	if a.gen == nil {
		return "", fmt.Errorf("AI generation is not configured")
	}
	if strings.TrimSpace(query) == "" {
		return "", fmt.Errorf("query is required")
	}

	turns := make([]Message, 0, len(history)+1)
	turns = append(turns, history...)
	turns = append(turns, Message{Role: "user", Text: query})

	out, err := a.gen.Generate(ctx, chatSystemContext, turns)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}
