// Package chat implements the farming assistant: a keyword responder and
// conversations whose bot replies arrive after a simulated typing delay.
package chat

import "strings"

// Rule maps a keyword category to a canned answer. Rules are evaluated in
// order and the first rule with a keyword contained in the input wins.
type Rule struct {
	Name     string   `yaml:"name" json:"name"`
	Keywords []string `yaml:"keywords" json:"keywords"`
	Response string   `yaml:"response" json:"response"`
}

// Script is the static content behind the assistant.
type Script struct {
	Greeting       string   `yaml:"greeting" json:"greeting"`
	Fallback       string   `yaml:"fallback" json:"fallback"`
	Rules          []Rule   `yaml:"rules" json:"rules"`
	QuickQuestions []string `yaml:"quick_questions" json:"quick_questions"`
}

type Responder struct {
	rules    []Rule
	fallback string
}

func NewResponder(rules []Rule, fallback string) *Responder {
	rs := make([]Rule, 0, len(rules))
	for _, r := range rules {
		kws := make([]string, 0, len(r.Keywords))
		for _, kw := range r.Keywords {
			if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
				kws = append(kws, kw)
			}
		}
		r.Keywords = kws
		rs = append(rs, r)
	}
	return &Responder{rules: rs, fallback: fallback}
}

// Match returns the first rule whose keyword is a substring of the
// lowercased input.
func (r *Responder) Match(input string) (Rule, bool) {
	msg := strings.ToLower(input)
	for _, rule := range r.rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(msg, kw) {
				return rule, true
			}
		}
	}
	return Rule{}, false
}

func (r *Responder) Respond(input string) string {
	if rule, ok := r.Match(input); ok {
		return rule.Response
	}
	return r.fallback
}

func (r *Responder) Fallback() string { return r.fallback }

func (r *Responder) Rules() []Rule {
	return append([]Rule(nil), r.rules...)
}
