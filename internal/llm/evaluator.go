package llm

import (
	"context"
	"errors"
	"fmt"
)

const evaluatorSystemPrompt = `You are a warm, practical family time coach. Output plain text only, no markdown.`

const evaluatorPromptTemplate = `Here is how a household member spent their time during %s.
Hours per category and the weekly goals scaled to this period:

%s

Write at most four short lines:
- one line naming the overall balance
- one line about the goal furthest off target
- up to two concrete suggestions for the next period

Rules:
- Keep each line under 70 characters
- Use the numbers from the data
- Plain text, no bullet symbols, no markdown`

// Evaluator turns aggregated statistics into a short written insight.
type Evaluator struct {
	client Client
}

// NewEvaluator creates a new Evaluator with the given LLM client.
func NewEvaluator(client Client) *Evaluator {
	return &Evaluator{client: client}
}

// EvaluatePeriod sends the formatted statistics of one period to the LLM.
// label names the period ("the week of Jan 5"); data is one category per line.
func (e *Evaluator) EvaluatePeriod(ctx context.Context, label, data string) (string, error) {
	if data == "" {
		return "", errors.New("no statistics to evaluate")
	}
	return e.client.Chat(ctx, []Message{
		{Role: "system", Content: evaluatorSystemPrompt},
		{Role: "user", Content: fmt.Sprintf(evaluatorPromptTemplate, label, data)},
	})
}
