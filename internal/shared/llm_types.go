package shared

import "time"

// TokenUsage tracks the tokens consumed by a single model request.
type TokenUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	Model            string
}

// AgentMeta holds operational metadata for one agent execution, recorded to
// the metrics store by the host.
type AgentMeta struct {
	AgentName string
	Usage     TokenUsage
	Latency   time.Duration
}
