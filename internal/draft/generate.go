// internal/draft/generate.go
package draft

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/haldane/riskgate/internal/types"
)

/*
 * Draft generation contract and response parsing.
 *
 * A Generator converses with a product team: each call carries the free
 * text, optional product context, and the prior turns. The reply is either
 * a structured RuleDraft or a clarifying question (needsMoreInfo).
 *
 * ParseResponse never fails: a reply that does not contain a parseable
 * draft object is treated as pure conversation, so a chatty model degrades
 * to a clarification round instead of an error. Generators only error on
 * transport problems (network, empty completion); retry policy belongs to
 * the caller.
 */

// Generator produces rule drafts from natural-language guidance.
type Generator interface {
	GenerateDraft(ctx context.Context, req Request) (Result, error)
}

// Turn is one prior exchange in the drafting conversation.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Conversation roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Request carries everything a generator needs for one drafting turn.
type Request struct {
	SourceText     string `json:"sourceText"`
	ProductContext string `json:"productContext,omitempty"`
	History        []Turn `json:"history,omitempty"`
}

// Validate gates a drafting request before it reaches a generator.
func (r *Request) Validate() error {
	if strings.TrimSpace(r.SourceText) == "" {
		return types.ErrMissingSourceText
	}
	if len(r.SourceText) > types.MaxSourceTextLength {
		return types.ErrSourceTextTooLong
	}
	return nil
}

// Result is one generator reply: a draft, or a conversational message
// asking for more information.
type Result struct {
	NeedsMoreInfo bool       `json:"needsMoreInfo"`
	Message       string     `json:"message,omitempty"`
	Draft         *RuleDraft `json:"draft,omitempty"`
}

// ParseResponse maps a raw model reply onto a Result. Drafts arrive as a
// JSON object, often wrapped in prose or markdown fences; anything that
// does not yield a draft with logic becomes a conversational reply.
func ParseResponse(raw string) Result {
	payload, ok := extractJSONObject(raw)
	if !ok {
		return conversational(raw)
	}

	var d RuleDraft
	if err := json.Unmarshal([]byte(payload), &d); err != nil {
		return conversational(raw)
	}

	if d.NeedsMoreInfo {
		msg := strings.TrimSpace(d.Message)
		if msg == "" {
			msg = strings.TrimSpace(raw)
		}
		return Result{NeedsMoreInfo: true, Message: msg}
	}
	if d.Logic == nil {
		return conversational(raw)
	}

	d.Normalize()
	return Result{Draft: &d}
}

// extractJSONObject returns the outermost {...} span of the reply. Models
// wrap drafts in explanations and code fences; the braces bound the object
// either way.
func extractJSONObject(raw string) (string, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return raw[start : end+1], true
}

func conversational(raw string) Result {
	return Result{NeedsMoreInfo: true, Message: strings.TrimSpace(raw)}
}

// systemPrompt fixes the output contract for chat-based generators. The
// condition DSL and action vocabulary here must stay in sync with the rules
// package.
const systemPrompt = `You are an insurance product configuration assistant. You convert underwriting guidance written in plain English into machine-evaluable rules.

When the guidance is specific enough, reply with exactly one JSON object:
{
  "name": "short rule name",
  "ruleType": "eligibility" | "pricing" | "forms" | "coverage" | "compliance",
  "ruleCategory": "free-form category",
  "priority": 100,
  "conditionText": "plain-English restatement of the conditions",
  "outcomeText": "plain-English restatement of the outcome",
  "confidence": 0-100,
  "logic": {
    "version": 1,
    "if": {"op": "AND" | "OR", "conditions": [
      {"field": "dotted.path", "operator": "...", "value": ...} | {"op": ..., "conditions": [...]}
    ]},
    "then": [{"type": "...", "target": "dotted.path", "value": ..., "message": "...", "severity": "..."}],
    "else": [...]
  }
}

Condition operators: equals, notEquals, in, notIn, gt, gte, lt, lte, contains, notContains, exists, notExists, between (value is [low, high]), startsWith, endsWith, matches (value is a regex).
Action types: addMessage, block, set, add, remove, require, applyFactor, attachForm, detachForm, setCoverage, setLimit, setDeductible, custom. addMessage and block carry "message" (severity one of info, warning, error, success); the rest carry "target" and usually "value".
Context fields live under: risk, policy, coverage, pricing, location, insured, custom.

When the guidance is too vague to produce a rule, reply with:
{"needsMoreInfo": true, "message": "your clarifying question"}

Reply with the JSON object only.`

// buildUserPrompt assembles the closing user turn from the request.
func buildUserPrompt(req Request) string {
	var b strings.Builder
	if req.ProductContext != "" {
		b.WriteString("Product context: ")
		b.WriteString(req.ProductContext)
		b.WriteString("\n\n")
	}
	b.WriteString("Guidance: ")
	b.WriteString(req.SourceText)
	return b.String()
}
