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

// Package reform reshapes flat records with a declarative rule table.
//
// # Usage
//
// Every rule is bound to a source field and decides which destination fields it produces:
//
//	rules := types.RuleTable{
//		"id":    reform.Keep,                                // copy as is
//		"name":  reform.Rename("fullName"),                  // rename
//		"age":   reform.Compute(types.ValueFunc(nextYear)),  // recompute, same name
//		"email": reform.Describe("contact", lowerHandler),   // rename and recompute
//		"debug": reform.Drop,                                // remove
//		"tags":  reform.Many("tags", reform.Describe("tagCount", countHandler)), // fan out
//	}
//	reformer, err := reform.New(rules, types.WithKeepUnlisted(true))
//	out, err := reformer.TransformOne(ctx, types.Record{"id": 1, "name": "Ada"})
//
// Source fields without a rule are dropped, unless `WithKeepUnlisted(true)` copies them verbatim.
//
// # Async mode
//
// With `WithAsync(true)` handlers may return a `types.Awaitable` (such as a `*types.Future`).
// Handlers are still called one after the other, in source key order, on the calling
// goroutine; only the awaitables of a record are waited for concurrently, on the configured
// `types.Pool`, before merging. Source values that are awaitables are waited for too.
// Lists are transformed concurrently, or one element after the other with `WithSequential(true)`.
//
// # Merge policy
//
// Fields are resolved in ascending source key order. When several rules produce the same
// destination name, the last resolved one wins; a field whose final value is `types.Absent`
// is removed. Rules also override verbatim copies made by KeepUnlisted.
//
// # Rule table definitions
//
// `Load` builds an engine from a JSON (default) or YAML definition, see `types.ReformDef`:
//
//	{
//	  "keepUnlisted": true,
//	  "rules": {
//	    "name": "fullName",
//	    "debug": false,
//	    "temperature": {"name": "alarm", "expr": "value > 50"},
//	    "count": {"js": "return value + 1"}
//	  }
//	}
package reform

import (
	"context"
	"fmt"
	"sort"

	"github.com/rulego/reform/api/types"
	"github.com/rulego/reform/components"
)

var (
	// Keep copies the field name and value unchanged.
	Keep = types.Keep
	// Drop removes the field.
	Drop = types.Drop
)

// Rename copies the source value unchanged under name.
func Rename(name string) types.Rule {
	return types.Rename(name)
}

// Compute keeps the field name and replaces its value with the result of handler.
func Compute(handler types.Handler) types.Rule {
	return types.Compute{Handler: handler}
}

// Describe renames the field to name and computes its value with handler.
func Describe(name string, handler types.Handler) types.Rule {
	return types.Descriptor{Name: name, Handler: handler}
}

// Many fans one source field out to several destination fields.
// A string argument is a Rename; every other argument must be a types.Rule,
// anything else fails validation with types.ErrInvalidRuleShape.
func Many(rules ...interface{}) types.Rule {
	many := make(types.Many, 0, len(rules))
	for _, r := range rules {
		switch v := r.(type) {
		case string:
			many = append(many, types.Rename(v))
		case types.Rule:
			many = append(many, v)
		default:
			many = append(many, types.Invalid(v))
		}
	}
	return many
}

// TransformFunc transforms one record. The future is already settled in sync mode.
type TransformFunc func(ctx context.Context, record types.Record) *types.Future

// Reformer applies a rule table to records.
// It is immutable after construction and safe for concurrent use.
type Reformer struct {
	rules  types.RuleTable
	config types.Config
	// ownedPool is the pool started for UseDefaultPool
	ownedPool types.Pool
}

// New creates an engine for rules. The rule table is copied and validated;
// a malformed rule fails with a *types.ConfigurationError.
func New(rules types.RuleTable, opts ...types.Option) (*Reformer, error) {
	config, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}
	return newReformer(config, rules)
}

func newConfig(opts ...types.Option) (types.Config, error) {
	config, err := types.NewConfig().Apply(opts...)
	if err != nil {
		return config, err
	}
	if config.Parser == nil {
		config.Parser = &JsonParser{}
	}
	if config.ComponentsRegistry == nil {
		config.ComponentsRegistry = components.Registry
	}
	return config, nil
}

func newReformer(config types.Config, rules types.RuleTable) (*Reformer, error) {
	table := make(types.RuleTable, len(rules))
	for _, field := range sortedKeys(rules) {
		rule := types.Normalize(rules[field])
		if err := types.Validate(field, rule); err != nil {
			return nil, err
		}
		table[field] = rule
	}
	r := &Reformer{rules: table, config: config}
	if config.Pool == nil && config.UseDefaultPool {
		r.ownedPool = types.DefaultPool()
		r.config.Pool = r.ownedPool
	}
	return r, nil
}

// Release stops the pool the engine started for WithDefaultPool.
// A pool installed with WithPool belongs to the caller and is left running.
// The engine must not be used after Release.
func (r *Reformer) Release() {
	if r.ownedPool != nil {
		r.ownedPool.Release()
	}
}

// Config returns the engine configuration.
func (r *Reformer) Config() types.Config {
	return r.config
}

// Rule returns the rule bound to a source field.
func (r *Reformer) Rule(field string) (types.Rule, bool) {
	rule, ok := r.rules[field]
	return rule, ok
}

// Compile returns the transformation of a single record.
func (r *Reformer) Compile() TransformFunc {
	if r.config.Async {
		return r.transformAsync
	}
	return func(ctx context.Context, record types.Record) *types.Future {
		dest, err := r.transformSync(ctx, record)
		if err != nil {
			return types.Rejected(err)
		}
		return types.Resolved(dest)
	}
}

// TransformOne transforms one record, waiting for async handlers.
func (r *Reformer) TransformOne(ctx context.Context, record types.Record) (types.Record, error) {
	if !r.config.Async {
		return r.transformSync(ctx, record)
	}
	v, err := r.transformAsync(ctx, record).Await(ctx)
	if err != nil {
		return nil, err
	}
	return v.(types.Record), nil
}

// TransformAll transforms a list of records, preserving their order.
func (r *Reformer) TransformAll(ctx context.Context, records []types.Record) ([]types.Record, error) {
	v, err := r.transformList(ctx, records).Await(ctx)
	if err != nil {
		return nil, err
	}
	return v.([]types.Record), nil
}

// Transform transforms a record or a list of records and waits for the result.
// input is a types.Record, a map[string]interface{} or a slice of them
// ([]types.Record, []map[string]interface{} or []interface{} holding maps).
// The result is a types.Record or a []types.Record.
func (r *Reformer) Transform(ctx context.Context, input interface{}) (interface{}, error) {
	return r.TransformAsync(ctx, input).Await(ctx)
}

// TransformAsync is Transform returning a future.
// In sync mode the work is done before TransformAsync returns and the future is already settled.
func (r *Reformer) TransformAsync(ctx context.Context, input interface{}) *types.Future {
	switch v := input.(type) {
	case types.Record:
		return r.Compile()(ctx, v)
	case map[string]interface{}:
		return r.Compile()(ctx, v)
	case []types.Record:
		return r.transformList(ctx, v)
	case []map[string]interface{}:
		records := make([]types.Record, len(v))
		for i, item := range v {
			records[i] = item
		}
		return r.transformList(ctx, records)
	case []interface{}:
		records := make([]types.Record, len(v))
		for i, item := range v {
			switch rec := item.(type) {
			case types.Record:
				records[i] = rec
			case map[string]interface{}:
				records[i] = rec
			default:
				return types.Rejected(fmt.Errorf("%w: element %d is %T", types.ErrUnsupportedInput, i, item))
			}
		}
		return r.transformList(ctx, records)
	default:
		return types.Rejected(fmt.Errorf("%w: %T", types.ErrUnsupportedInput, input))
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
