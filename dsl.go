/*
 * Copyright 2026 The RuleGo Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package reform

import (
	"fmt"

	"github.com/rulego/reform/api/types"
	"github.com/rulego/reform/utils/maps"
)

// Load creates an engine from a rule table definition, decoded with the configured parser (JSON by default).
// Options are applied after the settings of the definition and take precedence over them.
func Load(dsl []byte, opts ...types.Option) (*Reformer, error) {
	config, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}
	def, err := config.Parser.DecodeReform(dsl)
	if err != nil {
		return nil, fmt.Errorf("decode rule table: %w", err)
	}
	return NewFromDef(def, opts...)
}

// NewFromDef creates an engine from a decoded rule table definition.
// Options are applied after the settings of the definition and take precedence over them.
func NewFromDef(def types.ReformDef, opts ...types.Option) (*Reformer, error) {
	defOpts := []types.Option{
		types.WithKeepUnlisted(def.KeepUnlisted),
		types.WithAsync(def.Async),
		types.WithSequential(def.Sequential),
	}
	config, err := newConfig(append(defOpts, opts...)...)
	if err != nil {
		return nil, err
	}
	rules, err := ParseRules(config, def.Rules)
	if err != nil {
		return nil, err
	}
	return newReformer(config, rules)
}

// ParseRules turns raw decoded rule values into a rule table.
// Handlers are created with config.ComponentsRegistry.
func ParseRules(config types.Config, raw map[string]interface{}) (types.RuleTable, error) {
	if config.ComponentsRegistry == nil {
		return nil, fmt.Errorf("parse rules: %w", types.ErrUnknownHandler)
	}
	rules := make(types.RuleTable, len(raw))
	for _, field := range sortedKeys(raw) {
		rule, err := parseRule(config, field, raw[field], false)
		if err != nil {
			return nil, err
		}
		rules[field] = rule
	}
	return rules, nil
}

func parseRule(config types.Config, field string, raw interface{}, nested bool) (types.Rule, error) {
	switch v := raw.(type) {
	case nil:
		return nil, &types.ConfigurationError{Field: field, Err: types.ErrNilRule}
	case types.Rule:
		return v, nil
	case string:
		if v == "" {
			return nil, &types.ConfigurationError{Field: field, Err: types.ErrEmptyName}
		}
		return types.Rename(v), nil
	case bool:
		if v {
			return types.Keep, nil
		}
		return types.Drop, nil
	case []interface{}:
		if nested {
			return nil, &types.ConfigurationError{Field: field, Err: types.ErrNestedMany}
		}
		many := make(types.Many, len(v))
		for i, item := range v {
			rule, err := parseRule(config, fmt.Sprintf("%s[%d]", field, i), item, true)
			if err != nil {
				return nil, err
			}
			many[i] = rule
		}
		return many, nil
	case map[string]interface{}:
		return parseHandlerDef(config, field, v)
	case types.HandlerDef:
		return newHandlerRule(config, field, v)
	default:
		return nil, &types.ConfigurationError{
			Field: field,
			Err:   fmt.Errorf("%w: unexpected %T", types.ErrInvalidRuleShape, raw),
		}
	}
}

func parseHandlerDef(config types.Config, field string, raw map[string]interface{}) (types.Rule, error) {
	var def types.HandlerDef
	if err := maps.Map2StructStrict(raw, &def); err != nil {
		return nil, &types.ConfigurationError{
			Field: field,
			Err:   fmt.Errorf("%w: %v", types.ErrInvalidRuleShape, err),
		}
	}
	return newHandlerRule(config, field, def)
}

func newHandlerRule(config types.Config, field string, def types.HandlerDef) (types.Rule, error) {
	if !def.HasHandler() {
		if def.Name == "" {
			return nil, &types.ConfigurationError{Field: field, Err: types.ErrEmptyName}
		}
		return types.Rename(def.Name), nil
	}
	handlerType, source, ok := def.HandlerType()
	if !ok {
		return nil, &types.ConfigurationError{
			Field: field,
			Err:   fmt.Errorf("%w: exactly one of expr, template, js or func is allowed", types.ErrInvalidRuleShape),
		}
	}
	handler, err := config.ComponentsRegistry.NewHandler(config, handlerType, source)
	if err != nil {
		return nil, &types.ConfigurationError{Field: field, Err: err}
	}
	if def.Name == "" {
		return types.Compute{Handler: handler}, nil
	}
	return types.Descriptor{Name: def.Name, Handler: handler}, nil
}
