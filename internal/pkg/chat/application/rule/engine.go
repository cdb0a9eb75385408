package rule

import chat "ucoa-chat/internal/pkg/chat/application/domain"

// Engine evaluates rules in a fixed order and stops at the first violation.
type Engine struct {
	rules []Rule
}

// NewEngine builds the standard pipeline: type, then participant limit, then roles.
func NewEngine(limits Limits) *Engine {
	merged := make(Limits, len(DefaultLimits))
	for t, n := range DefaultLimits {
		merged[t] = n
	}
	for t, n := range limits {
		merged[t] = n
	}
	return NewEngineWith(
		ChatTypeRule{},
		ParticipantLimitRule{Limits: merged},
		ParticipantRoleRule{},
	)
}

// NewEngineWith runs exactly the given rules, in order.
func NewEngineWith(rules ...Rule) *Engine {
	return &Engine{rules: append([]Rule(nil), rules...)}
}

// Validate returns the error of the first failing rule, or nil.
func (e *Engine) Validate(a *chat.ChatAggregate) error {
	for _, r := range e.rules {
		if err := r.Check(a); err != nil {
			return err
		}
	}
	return nil
}
