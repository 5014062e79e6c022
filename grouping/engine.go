// Copyright 2025 Agentcast Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package grouping

import (
	"fmt"
	"strings"

	"github.com/hanjuhn/agentcast/core"
)

// Engine classifies records against a validated, ordered rule table.
// Classification is source-agnostic: fallback-tagged records are
// bucketed exactly like real ones.
type Engine struct {
	rules []Rule
}

// NewEngine validates the rule table and builds an engine over it.
// Keywords are normalized to lowercase once at construction.
func NewEngine(rules []Rule) (*Engine, error) {
	if len(rules) == 0 {
		return nil, ErrNoRules
	}

	seen := make(map[string]bool, len(rules))
	normalized := make([]Rule, len(rules))

	for i, rule := range rules {
		if rule.Name == "" {
			return nil, fmt.Errorf("rule %d: %w", i, ErrEmptyRuleName)
		}
		if seen[rule.Name] {
			return nil, fmt.Errorf("rule %q: %w", rule.Name, ErrDuplicateRuleName)
		}
		seen[rule.Name] = true

		terminal := i == len(rules)-1
		if terminal && len(rule.Keywords) != 0 {
			return nil, fmt.Errorf("rule %q: %w", rule.Name, ErrMissingCatchAll)
		}
		if !terminal && len(rule.Keywords) == 0 {
			return nil, fmt.Errorf("rule %q: %w", rule.Name, ErrEmptyKeywords)
		}

		keywords := make([]string, len(rule.Keywords))
		for j, kw := range rule.Keywords {
			keywords[j] = strings.ToLower(kw)
		}
		normalized[i] = Rule{Name: rule.Name, Keywords: keywords}
	}

	return &Engine{rules: normalized}, nil
}

// NewDefaultEngine builds an engine over DefaultRules.
func NewDefaultEngine() *Engine {
	engine, err := NewEngine(DefaultRules())
	if err != nil {
		// DefaultRules is static and always valid.
		panic(err)
	}
	return engine
}

// CategoryNames returns the declared category order.
func (e *Engine) CategoryNames() []string {
	names := make([]string, len(e.rules))
	for i, rule := range e.rules {
		names[i] = rule.Name
	}
	return names
}

// Classify buckets records into categories in declared order.
// Each record lands in the first category whose keyword set has a
// case-insensitive substring match against the record's text signal;
// unmatched records land in the terminal catch-all. Empty categories
// are omitted from the result.
func (e *Engine) Classify(records []core.SourceRecord) []core.Category {
	buckets := make(map[string][]core.SourceRecord, len(e.rules))

	for _, record := range records {
		name := e.categoryFor(record.TextSignal)
		buckets[name] = append(buckets[name], record)
	}

	categories := make([]core.Category, 0, len(buckets))
	for _, rule := range e.rules {
		items, ok := buckets[rule.Name]
		if !ok {
			continue
		}
		categories = append(categories, core.Category{Name: rule.Name, Items: items})
	}
	return categories
}

// categoryFor returns the first matching category name for a signal.
func (e *Engine) categoryFor(signal string) string {
	signal = strings.ToLower(signal)
	catchAll := e.rules[len(e.rules)-1].Name

	if signal == "" {
		return catchAll
	}

	for _, rule := range e.rules[:len(e.rules)-1] {
		for _, keyword := range rule.Keywords {
			if strings.Contains(signal, keyword) {
				return rule.Name
			}
		}
	}
	return catchAll
}
