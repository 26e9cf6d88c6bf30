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

	"github.com/rulego/reform/api/types"
	"golang.org/x/sync/errgroup"
)

// transformSync transforms one record on the calling goroutine.
func (r *Reformer) transformSync(ctx context.Context, src types.Record) (types.Record, error) {
	dest := make(types.Record)
	var pending []types.Field
	for _, attr := range sortedKeys(src) {
		rule, ok := r.rules[attr]
		if !ok {
			if r.config.KeepUnlisted {
				dest[attr] = src[attr]
			}
			continue
		}
		if many, ok := rule.(types.Many); ok {
			fields, err := r.resolveMany(ctx, attr, many, src)
			if err != nil {
				return nil, err
			}
			pending = append(pending, fields...)
		} else {
			field, err := r.resolveSync(ctx, attr, rule, src)
			if err != nil {
				return nil, err
			}
			pending = append(pending, field)
		}
	}
	return combine(pending, dest), nil
}

// transformAsync calls the handlers of src on the calling goroutine, in source key order,
// and returns a future that settles once every awaitable they returned has settled.
// Only the waiting is concurrent; it runs on the configured pool.
func (r *Reformer) transformAsync(ctx context.Context, src types.Record) *types.Future {
	dest := make(types.Record)
	var pending []pendingField
	for _, attr := range sortedKeys(src) {
		rule, ok := r.rules[attr]
		if !ok {
			if r.config.KeepUnlisted {
				dest[attr] = src[attr]
			}
			continue
		}
		if many, ok := rule.(types.Many); ok {
			fields, err := r.resolveManyPending(ctx, attr, many, src)
			if err != nil {
				return types.Rejected(err)
			}
			pending = append(pending, fields...)
		} else {
			field, err := r.resolvePending(ctx, attr, rule, src)
			if err != nil {
				return types.Rejected(err)
			}
			pending = append(pending, field)
		}
	}
	if !hasWait(pending) {
		return types.Resolved(combine(fieldsOf(pending), dest))
	}
	return types.Run(r.config.Pool, func() (interface{}, error) {
		if err := r.settle(ctx, pending); err != nil {
			return nil, err
		}
		return combine(fieldsOf(pending), dest), nil
	})
}

// settle waits for every awaitable of pending concurrently and stores the settled values.
// The first failure is returned without waiting for the rest.
// Debug callbacks run afterwards, in pending order.
func (r *Reformer) settle(ctx context.Context, pending []pendingField) error {
	errs := make([]error, len(pending))
	g, gctx := errgroup.WithContext(ctx)
	for i := range pending {
		p := &pending[i]
		if p.wait == nil {
			continue
		}
		i := i
		g.Go(func() error {
			v, err := p.wait.Await(gctx)
			if err != nil {
				errs[i] = fieldError(p.attr, err)
				return errs[i]
			}
			p.field.Value = v
			return nil
		})
	}
	err := g.Wait()
	for i, p := range pending {
		if p.wait == nil {
			continue
		}
		if err == nil {
			r.debug(p.attr, p.field, nil)
		} else if errs[i] != nil {
			r.debug(p.attr, types.Field{}, errs[i])
		}
	}
	return err
}

func hasWait(pending []pendingField) bool {
	for _, p := range pending {
		if p.wait != nil {
			return true
		}
	}
	return false
}

func fieldsOf(pending []pendingField) []types.Field {
	fields := make([]types.Field, len(pending))
	for i, p := range pending {
		fields[i] = p.field
	}
	return fields
}

// combine folds fields into dest. On name collisions the later field wins,
// then every Absent field is removed.
func combine(fields []types.Field, dest types.Record) types.Record {
	for _, field := range fields {
		dest[field.Name] = field.Value
	}
	for name, value := range dest {
		if types.IsAbsent(value) {
			delete(dest, name)
		}
	}
	return dest
}
