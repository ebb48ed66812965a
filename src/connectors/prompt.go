package connectors

import (
	"fmt"
	"time"
)

const promptTemplate = `You are an expert forex trading AI. Analyze the %s market for a 5-minute (M5) trade.
Generate a signal JSON with the following fields:
- action: "BUY/CALL" or "SELL/PUT"
- confidence: number between 70 and 99
- analysis: brief technical reason (e.g., "RSI divergence at support level")

Current Time: %s
Assume standard market session behavior.
Respond with the JSON object only.`

// BuildPrompt renders the task sent to every provider for one request.
func BuildPrompt(instrument string, now time.Time) string {
	return fmt.Sprintf(promptTemplate, instrument, now.UTC().Format("15:04:05")+" UTC")
}

// userMessage is the user turn for providers that require one next to the system prompt.
func userMessage(instrument string) string {
	return fmt.Sprintf("Return the signal JSON for %s.", instrument)
}
