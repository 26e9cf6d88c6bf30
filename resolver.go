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
	"context"
	"fmt"

	"github.com/rulego/reform/api/types"
)

// resolve computes the destination field of one non fan-out rule.
// The handler result is returned as is, even when it is an Awaitable.
func (r *Reformer) resolve(ctx context.Context, attr string, rule types.Rule, src types.Record) (types.Field, error) {
	value := src[attr]
	switch v := rule.(type) {
	case types.Descriptor:
		out, err := v.Handler.Handle(ctx, value, src)
		if err != nil {
			return types.Field{}, fieldError(attr, err)
		}
		return types.Field{Name: v.Name, Value: out}, nil
	case types.Rename:
		return types.Field{Name: string(v), Value: value}, nil
	case types.Compute:
		out, err := v.Handler.Handle(ctx, value, src)
		if err != nil {
			return types.Field{}, fieldError(attr, err)
		}
		return types.Field{Name: attr, Value: out}, nil
	}
	switch rule.Kind() {
	case types.KeepKind:
		return types.Field{Name: attr, Value: value}, nil
	case types.DropKind:
		return types.Field{Name: attr, Value: types.Absent}, nil
	}
	// unreachable for validated tables
	return types.Field{}, &types.ConfigurationError{Field: attr, Err: types.ErrInvalidRuleShape}
}

// resolveMany applies every rule of a fan-out list, in order, to the same source field.
func (r *Reformer) resolveMany(ctx context.Context, attr string, rules types.Many, src types.Record) ([]types.Field, error) {
	fields := make([]types.Field, 0, len(rules))
	for _, rule := range rules {
		field, err := r.resolveSync(ctx, attr, rule, src)
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
	}
	return fields, nil
}

func (r *Reformer) resolveSync(ctx context.Context, attr string, rule types.Rule, src types.Record) (types.Field, error) {
	field, err := r.resolve(ctx, attr, rule, src)
	r.debug(attr, field, err)
	return field, err
}

// pendingField is a resolved field whose value may still have to settle.
type pendingField struct {
	attr  string
	field types.Field
	wait  types.Awaitable
}

// resolvePending resolves one non fan-out rule on the calling goroutine.
// An Awaitable value is kept aside to be awaited later, whatever the rule variant;
// debug for such a field is deferred until it settles.
func (r *Reformer) resolvePending(ctx context.Context, attr string, rule types.Rule, src types.Record) (pendingField, error) {
	field, err := r.resolve(ctx, attr, rule, src)
	if err == nil {
		if wait, ok := field.Value.(types.Awaitable); ok {
			return pendingField{attr: attr, field: field, wait: wait}, nil
		}
	}
	r.debug(attr, field, err)
	return pendingField{attr: attr, field: field}, err
}

// resolveManyPending resolves every rule of a fan-out list in order.
func (r *Reformer) resolveManyPending(ctx context.Context, attr string, rules types.Many, src types.Record) ([]pendingField, error) {
	pending := make([]pendingField, 0, len(rules))
	for _, rule := range rules {
		p, err := r.resolvePending(ctx, attr, rule, src)
		if err != nil {
			return nil, err
		}
		pending = append(pending, p)
	}
	return pending, nil
}

func (r *Reformer) debug(attr string, field types.Field, err error) {
	if r.config.OnDebug != nil {
		r.config.OnDebug(attr, field.Name, field.Value, err)
	}
}

func fieldError(attr string, err error) error {
	return fmt.Errorf("field %s: %w", attr, err)
}
