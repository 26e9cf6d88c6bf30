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
	"golang.org/x/sync/errgroup"
)

// transformList transforms every record of a list; the output keeps the input order.
// In sync mode the work is done eagerly and the returned future is already settled.
func (r *Reformer) transformList(ctx context.Context, records []types.Record) *types.Future {
	if !r.config.Async {
		out := make([]types.Record, len(records))
		for i, record := range records {
			dest, err := r.transformSync(ctx, record)
			if err != nil {
				return types.Rejected(elementError(i, err))
			}
			out[i] = dest
		}
		return types.Resolved(out)
	}
	if r.config.Sequential {
		return r.transformSequential(ctx, records)
	}
	return r.transformConcurrent(ctx, records)
}

// transformConcurrent starts all records at once and waits for all of them.
func (r *Reformer) transformConcurrent(ctx context.Context, records []types.Record) *types.Future {
	pending := make([]*types.Future, len(records))
	for i, record := range records {
		pending[i] = r.transformAsync(ctx, record)
	}
	return types.Go(func() (interface{}, error) {
		out := make([]types.Record, len(pending))
		g, gctx := errgroup.WithContext(ctx)
		for i, f := range pending {
			i, f := i, f
			g.Go(func() error {
				v, err := f.Await(gctx)
				if err != nil {
					return elementError(i, err)
				}
				out[i] = v.(types.Record)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			r.config.Logger.Printf("transform list of %d records: %v", len(records), err)
			return nil, err
		}
		return out, nil
	})
}

// transformSequential starts the next record only once the previous one has settled.
func (r *Reformer) transformSequential(ctx context.Context, records []types.Record) *types.Future {
	return types.Go(func() (interface{}, error) {
		out := make([]types.Record, len(records))
		for i, record := range records {
			v, err := r.transformAsync(ctx, record).Await(ctx)
			if err != nil {
				r.config.Logger.Printf("transform record %d of %d: %v", i, len(records), err)
				return nil, elementError(i, err)
			}
			out[i] = v.(types.Record)
		}
		return out, nil
	})
}

func elementError(i int, err error) error {
	return fmt.Errorf("element %d: %w", i, err)
}
