// Package strategy turns the latest signals of a symbol into one trade-action label.
package strategy

import (
	"errors"
	"fmt"

	"StockPulse/internal/model"
)

// Decision is the outcome of evaluating the rule table.
type Decision struct {
	Action    model.Action
	Rationale string
	Rule      string
}

// Engine evaluates an ordered rule table; the first matching rule wins.
type Engine struct {
	rules []Rule
}

// NewEngine copies the rule table. The final rule must match unconditionally so that every
// evaluation yields an action.
func NewEngine(rules []Rule) (*Engine, error) {
	if len(rules) == 0 {
		return nil, errors.New("strategy: empty rule table")
	}
	for i, r := range rules {
		if r.When == nil || r.Action == "" {
			return nil, fmt.Errorf("strategy: rule %d (%s) needs a predicate and an action", i, r.Name)
		}
		if i > 0 && r.Family < rules[i-1].Family {
			return nil, fmt.Errorf("strategy: rule %s is out of family order", r.Name)
		}
	}
	if rules[len(rules)-1].Family != FamilyDefault {
		return nil, errors.New("strategy: rule table must end with a default rule")
	}
	return &Engine{rules: append([]Rule(nil), rules...)}, nil
}

// Default returns an engine over DefaultRules.
func Default() *Engine {
	e, err := NewEngine(DefaultRules())
	if err != nil {
		panic(err)
	}
	return e
}

// Decide picks the action for s and composes its rationale. Zones are derived from the price
// and bands in s before any rule runs.
func (e *Engine) Decide(s Signals) Decision {
	s.Zones = ComputeZones(s.Price, s.Upper, s.Middle, s.Lower)
	for _, r := range e.rules {
		if r.When(&s) {
			return Decision{Action: r.Action, Rationale: Compose(&s, r), Rule: r.Name}
		}
	}
	// Unreachable with a validated table.
	last := e.rules[len(e.rules)-1]
	return Decision{Action: last.Action, Rationale: Compose(&s, last), Rule: last.Name}
}

// Actions lists every label the engine can produce, in table order without repeats.
func (e *Engine) Actions() []model.Action {
	seen := make(map[model.Action]bool, len(e.rules))
	var out []model.Action
	for _, r := range e.rules {
		if !seen[r.Action] {
			seen[r.Action] = true
			out = append(out, r.Action)
		}
	}
	return out
}

// Rules returns a copy of the table.
func (e *Engine) Rules() []Rule {
	return append([]Rule(nil), e.rules...)
}
