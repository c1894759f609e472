package domain

import "errors"

// ErrSummaryBudgetExceeded signals the summarizer token budget is spent.
var ErrSummaryBudgetExceeded = errors.New("summarizer budget exceeded")

// Summary is a generated excerpt with its token usage.
type Summary struct {
	Text             string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}
