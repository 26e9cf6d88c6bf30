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
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rulego/reform/api/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func double(v interface{}) interface{} {
	return v.(int) * 2
}

func fail(context.Context, interface{}, types.Record) (interface{}, error) {
	return nil, errBoom
}

// later settles with v after d, on its own goroutine.
func later(d time.Duration, v interface{}) types.Handler {
	return types.HandlerFunc(func(context.Context, interface{}, types.Record) (interface{}, error) {
		return types.Go(func() (interface{}, error) {
			time.Sleep(d)
			return v, nil
		}), nil
	})
}

type testLogger struct {
	t *testing.T
}

func (l testLogger) Printf(format string, v ...interface{}) {
	l.t.Logf(format, v...)
}

func mustNew(t *testing.T, rules types.RuleTable, opts ...types.Option) *Reformer {
	t.Helper()
	r, err := New(rules, opts...)
	require.NoError(t, err)
	return r
}

func TestRuleVariants(t *testing.T) {
	tests := []struct {
		name     string
		rules    types.RuleTable
		input    types.Record
		expected types.Record
	}{
		{
			name:     "rename",
			rules:    types.RuleTable{"a": Rename("b")},
			input:    types.Record{"a": 1},
			expected: types.Record{"b": 1},
		},
		{
			name:     "compute",
			rules:    types.RuleTable{"a": Compute(types.ValueFunc(double))},
			input:    types.Record{"a": 2},
			expected: types.Record{"a": 4},
		},
		{
			name:     "descriptor",
			rules:    types.RuleTable{"a": Describe("b", types.ValueFunc(double))},
			input:    types.Record{"a": 3},
			expected: types.Record{"b": 6},
		},
		{
			name:     "keep",
			rules:    types.RuleTable{"a": Keep},
			input:    types.Record{"a": "x", "b": "y"},
			expected: types.Record{"a": "x"},
		},
		{
			name:     "drop",
			rules:    types.RuleTable{"a": Drop, "b": Keep},
			input:    types.Record{"a": 1, "b": 2},
			expected: types.Record{"b": 2},
		},
		{
			name:     "many",
			rules:    types.RuleTable{"a": Many("a", "b", Describe("c", types.ValueFunc(double)))},
			input:    types.Record{"a": 5},
			expected: types.Record{"a": 5, "b": 5, "c": 10},
		},
		{
			name:     "many last wins",
			rules:    types.RuleTable{"a": Many("x", Describe("x", types.ValueFunc(double)))},
			input:    types.Record{"a": 2},
			expected: types.Record{"x": 4},
		},
		{
			name:     "collision between sources",
			rules:    types.RuleTable{"a": Rename("x"), "b": Rename("x")},
			input:    types.Record{"a": 1, "b": 2},
			expected: types.Record{"x": 2},
		},
		{
			name: "absent handler result",
			rules: types.RuleTable{"a": Compute(types.ValueFunc(func(interface{}) interface{} {
				return types.Absent
			}))},
			input:    types.Record{"a": 1},
			expected: types.Record{},
		},
		{
			name:     "missing source field",
			rules:    types.RuleTable{"a": Rename("b")},
			input:    types.Record{"c": 1},
			expected: types.Record{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, async := range []bool{false, true} {
				r := mustNew(t, tt.rules, types.WithAsync(async))
				out, err := r.TransformOne(context.Background(), tt.input)
				require.NoError(t, err)
				assert.Equal(t, tt.expected, out, "async=%v", async)
			}
		})
	}
}

func TestKeepUnlisted(t *testing.T) {
	r := mustNew(t, types.RuleTable{"a": Drop}, types.WithKeepUnlisted(true))
	out, err := r.TransformOne(context.Background(), types.Record{"a": 1, "b": 2, "c": "x"})
	require.NoError(t, err)
	assert.Equal(t, types.Record{"b": 2, "c": "x"}, out)

	r = mustNew(t, types.RuleTable{"a": Drop})
	out, err = r.TransformOne(context.Background(), types.Record{"a": 1, "b": 2})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestRuleOverridesUnlistedCopy(t *testing.T) {
	r := mustNew(t, types.RuleTable{"a": Rename("b")}, types.WithKeepUnlisted(true))
	out, err := r.TransformOne(context.Background(), types.Record{"a": 1, "b": 2})
	require.NoError(t, err)
	assert.Equal(t, types.Record{"b": 1}, out)
}

func TestKeepOnlyIsIdempotent(t *testing.T) {
	input := types.Record{"a": 1, "b": "x", "c": []int{1, 2}}
	r := mustNew(t, types.RuleTable{"a": Keep, "b": Keep, "c": Keep})
	once, err := r.TransformOne(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, input, once)
	twice, err := r.TransformOne(context.Background(), once)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestInputIsNotModified(t *testing.T) {
	input := types.Record{"a": 1, "b": 2}
	r := mustNew(t, types.RuleTable{"a": Rename("c"), "b": Drop})
	_, err := r.TransformOne(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, types.Record{"a": 1, "b": 2}, input)
}

func TestHandlerReceivesRecord(t *testing.T) {
	total := types.HandlerFunc(func(_ context.Context, value interface{}, record types.Record) (interface{}, error) {
		return value.(int) * record["count"].(int), nil
	})
	r := mustNew(t, types.RuleTable{"price": Describe("total", total), "count": Keep})
	out, err := r.TransformOne(context.Background(), types.Record{"price": 3, "count": 4})
	require.NoError(t, err)
	assert.Equal(t, types.Record{"total": 12, "count": 4}, out)
}

func TestSyncDoesNotAwait(t *testing.T) {
	future := types.Resolved(5)
	h := types.ValueFunc(func(interface{}) interface{} { return future })
	r := mustNew(t, types.RuleTable{"a": Compute(h)})
	out, err := r.TransformOne(context.Background(), types.Record{"a": 1})
	require.NoError(t, err)
	assert.Same(t, future, out["a"])
}

func TestAsyncAwaitsHandlerResults(t *testing.T) {
	r := mustNew(t, types.RuleTable{
		"a": Describe("x", later(20*time.Millisecond, "slow")),
		"b": Compute(later(time.Millisecond, "fast")),
		"c": Rename("d"),
	}, types.WithAsync(true))

	f := r.Compile()(context.Background(), types.Record{"a": 1, "b": 2, "c": 3})
	v, err := f.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, types.Record{"x": "slow", "b": "fast", "d": 3}, v)
}

func TestAsyncAwaitablesSettleConcurrently(t *testing.T) {
	var wg sync.WaitGroup
	wg.Add(3)
	barrier := types.ValueFunc(func(v interface{}) interface{} {
		return types.Go(func() (interface{}, error) {
			wg.Done()
			// settles only once all three awaitables are pending
			wg.Wait()
			return v, nil
		})
	})
	r := mustNew(t, types.RuleTable{
		"a": Compute(barrier),
		"b": Compute(barrier),
		"c": Compute(barrier),
	}, types.WithAsync(true), types.WithDefaultPool())
	defer r.Release()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	out, err := r.TransformOne(ctx, types.Record{"a": 1, "b": 2, "c": 3})
	require.NoError(t, err)
	assert.Equal(t, types.Record{"a": 1, "b": 2, "c": 3}, out)
}

// Handlers append to a log without locking: they must be called one after the other,
// in source key order, even in async mode.
func TestAsyncHandlerCallOrder(t *testing.T) {
	var calls []string
	logging := func(name string) types.Handler {
		return types.HandlerFunc(func(_ context.Context, v interface{}, _ types.Record) (interface{}, error) {
			calls = append(calls, fmt.Sprintf("%s%d", name, v))
			return types.Go(func() (interface{}, error) {
				return v, nil
			}), nil
		})
	}
	rules := types.RuleTable{"a": Compute(logging("a")), "b": Compute(logging("b")), "c": Compute(logging("c"))}
	records := []types.Record{{"a": 0, "b": 0, "c": 0}, {"a": 1, "b": 1, "c": 1}}
	expected := []string{"a0", "b0", "c0", "a1", "b1", "c1"}

	for _, opts := range [][]types.Option{
		{types.WithAsync(true)},
		{types.WithAsync(true), types.WithSequential(true)},
	} {
		r := mustNew(t, rules, opts...)
		for i := 0; i < 200; i++ {
			calls = calls[:0]
			out, err := r.TransformAll(context.Background(), records)
			require.NoError(t, err)
			assert.Equal(t, records, out)
			assert.Equal(t, expected, calls)
		}
	}
}

func TestAsyncAwaitsPassThroughValues(t *testing.T) {
	three := types.Go(func() (interface{}, error) {
		time.Sleep(time.Millisecond)
		return 3, nil
	})
	r := mustNew(t, types.RuleTable{
		"a": Keep,
		"b": Rename("c"),
		"d": Many("d", "e"),
	}, types.WithAsync(true))
	out, err := r.TransformOne(context.Background(), types.Record{
		"a": types.Resolved(1),
		"b": types.Resolved(2),
		"d": three,
	})
	require.NoError(t, err)
	assert.Equal(t, types.Record{"a": 1, "c": 2, "d": 3, "e": 3}, out)

	_, err = r.TransformOne(context.Background(), types.Record{"a": types.Rejected(errBoom)})
	assert.ErrorIs(t, err, errBoom)
}

func TestOnDebugAwaited(t *testing.T) {
	var calls []string
	r := mustNew(t, types.RuleTable{
		"a": Describe("b", later(time.Millisecond, "x")),
		"c": Keep,
	}, types.WithAsync(true), types.WithOnDebug(func(source, target string, value interface{}, err error) {
		calls = append(calls, fmt.Sprintf("%s>%s=%v", source, target, value))
	}))
	out, err := r.TransformOne(context.Background(), types.Record{"a": 1, "c": 2})
	require.NoError(t, err)
	assert.Equal(t, types.Record{"b": "x", "c": 2}, out)
	// fields without awaitables are reported as soon as they are resolved
	assert.Equal(t, []string{"c>c=2", "a>b=x"}, calls)
}

type countingPool struct {
	released int32
}

func (p *countingPool) Submit(task func()) error {
	go task()
	return nil
}

func (p *countingPool) Release() {
	atomic.AddInt32(&p.released, 1)
}

func TestRelease(t *testing.T) {
	r := mustNew(t, types.RuleTable{"a": Compute(later(time.Millisecond, 2))}, types.WithAsync(true), types.WithDefaultPool())
	require.NotNil(t, r.Config().Pool)
	out, err := r.TransformOne(context.Background(), types.Record{"a": 1})
	require.NoError(t, err)
	assert.Equal(t, types.Record{"a": 2}, out)
	r.Release()
	r.Release()

	loaded, err := Load([]byte(`{"async": true, "rules": {"a": "b"}}`), types.WithDefaultPool())
	require.NoError(t, err)
	require.NotNil(t, loaded.Config().Pool)
	loaded.Release()

	pool := &countingPool{}
	r = mustNew(t, types.RuleTable{"a": Compute(later(time.Millisecond, 2))}, types.WithAsync(true), types.WithPool(pool))
	out, err = r.TransformOne(context.Background(), types.Record{"a": 1})
	require.NoError(t, err)
	assert.Equal(t, types.Record{"a": 2}, out)
	r.Release()
	assert.Equal(t, int32(0), atomic.LoadInt32(&pool.released))

	r = mustNew(t, types.RuleTable{"a": Keep}, types.WithDefaultPool(), types.WithPool(pool))
	assert.Same(t, pool, r.Config().Pool)
	r.Release()
	assert.Equal(t, int32(0), atomic.LoadInt32(&pool.released))
}

func TestHandlerError(t *testing.T) {
	rules := types.RuleTable{"a": Compute(types.HandlerFunc(fail)), "b": Keep}
	for _, async := range []bool{false, true} {
		r := mustNew(t, rules, types.WithAsync(async))
		_, err := r.TransformOne(context.Background(), types.Record{"a": 1, "b": 2})
		assert.ErrorIs(t, err, errBoom, "async=%v", async)
		assert.Contains(t, err.Error(), "field a")
	}
}

func TestAwaitableRejection(t *testing.T) {
	h := types.ValueFunc(func(interface{}) interface{} { return types.Rejected(errBoom) })
	r := mustNew(t, types.RuleTable{"a": Compute(h)}, types.WithAsync(true))
	_, err := r.TransformOne(context.Background(), types.Record{"a": 1})
	assert.ErrorIs(t, err, errBoom)
}

func TestAsyncAwaitablePanic(t *testing.T) {
	h := types.ValueFunc(func(interface{}) interface{} {
		return types.Go(func() (interface{}, error) { panic("kaboom") })
	})
	r := mustNew(t, types.RuleTable{"a": Compute(h)}, types.WithAsync(true))
	_, err := r.TransformOne(context.Background(), types.Record{"a": 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kaboom")
}

func TestAsyncCancel(t *testing.T) {
	never := types.ValueFunc(func(interface{}) interface{} { return types.NewFuture() })
	r := mustNew(t, types.RuleTable{"a": Compute(never)}, types.WithAsync(true))

	ctx, cancel := context.WithCancel(context.Background())
	f := r.Compile()(ctx, types.Record{"a": 1})
	cancel()
	_, err := f.Await(context.Background())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConfigurationError(t *testing.T) {
	tests := []struct {
		name  string
		rule  types.Rule
		field string
		err   error
	}{
		{name: "nil", rule: nil, field: "a", err: types.ErrNilRule},
		{name: "empty rename", rule: Rename(""), field: "a", err: types.ErrEmptyName},
		{name: "empty descriptor name", rule: Describe("", types.ValueFunc(double)), field: "a", err: types.ErrEmptyName},
		{name: "nil descriptor handler", rule: Describe("b", nil), field: "a", err: types.ErrNilHandler},
		{name: "nil compute handler", rule: Compute(nil), field: "a", err: types.ErrNilHandler},
		{name: "nested many", rule: Many("b", Many("c")), field: "a[1]", err: types.ErrNestedMany},
		{name: "bad many element", rule: Many("b", 42), field: "a[1]", err: types.ErrInvalidRuleShape},
		{name: "nil descriptor pointer", rule: (*types.Descriptor)(nil), field: "a", err: types.ErrNilRule},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(types.RuleTable{"a": tt.rule})
			var configErr *types.ConfigurationError
			require.ErrorAs(t, err, &configErr)
			assert.Equal(t, tt.field, configErr.Field)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestPointerRules(t *testing.T) {
	r := mustNew(t, types.RuleTable{
		"a": &types.Descriptor{Name: "b", Handler: types.ValueFunc(double)},
		"c": &types.Compute{Handler: types.ValueFunc(double)},
	})
	rule, ok := r.Rule("a")
	require.True(t, ok)
	assert.Equal(t, types.DescriptorKind, rule.Kind())
	out, err := r.TransformOne(context.Background(), types.Record{"a": 1, "c": 2})
	require.NoError(t, err)
	assert.Equal(t, types.Record{"b": 2, "c": 4}, out)
}

func TestRulesAreCopied(t *testing.T) {
	rules := types.RuleTable{"a": Rename("b")}
	r := mustNew(t, rules)
	rules["a"] = Drop
	out, err := r.TransformOne(context.Background(), types.Record{"a": 1})
	require.NoError(t, err)
	assert.Equal(t, types.Record{"b": 1}, out)
}

func TestOnDebug(t *testing.T) {
	type call struct {
		source, target string
		value          interface{}
		err            error
	}
	for _, async := range []bool{false, true} {
		var lock sync.Mutex
		var calls []call
		r := mustNew(t, types.RuleTable{
			"a": Rename("b"),
			"c": Compute(types.HandlerFunc(fail)),
		}, types.WithAsync(async), types.WithOnDebug(func(source, target string, value interface{}, err error) {
			lock.Lock()
			defer lock.Unlock()
			calls = append(calls, call{source, target, value, err})
		}))
		_, err := r.TransformOne(context.Background(), types.Record{"a": 1, "c": 2})
		require.Error(t, err)

		lock.Lock()
		assert.Contains(t, calls, call{"a", "b", 1, nil}, "async=%v", async)
		lock.Unlock()
	}
}

func TestTransformList(t *testing.T) {
	records := make([]types.Record, 10)
	for i := range records {
		records[i] = types.Record{"n": i}
	}
	// later records settle first
	slow := types.HandlerFunc(func(_ context.Context, v interface{}, _ types.Record) (interface{}, error) {
		d := time.Duration(10-v.(int)) * time.Millisecond
		return types.Go(func() (interface{}, error) {
			time.Sleep(d)
			return v.(int) * 10, nil
		}), nil
	})
	for _, opts := range [][]types.Option{
		{types.WithAsync(true)},
		{types.WithAsync(true), types.WithSequential(true)},
	} {
		r := mustNew(t, types.RuleTable{"n": Describe("m", slow)}, opts...)
		out, err := r.TransformAll(context.Background(), records)
		require.NoError(t, err)
		require.Len(t, out, len(records))
		for i, rec := range out {
			assert.Equal(t, types.Record{"m": i * 10}, rec)
		}
	}
}

func TestSequentialOrdering(t *testing.T) {
	var lock sync.Mutex
	var started, finished []int
	h := types.HandlerFunc(func(_ context.Context, v interface{}, _ types.Record) (interface{}, error) {
		n := v.(int)
		lock.Lock()
		started = append(started, n)
		lock.Unlock()
		return types.Go(func() (interface{}, error) {
			time.Sleep(time.Duration(5-n) * time.Millisecond)
			lock.Lock()
			finished = append(finished, n)
			lock.Unlock()
			return n, nil
		}), nil
	})
	r := mustNew(t, types.RuleTable{"n": Compute(h)}, types.WithAsync(true), types.WithSequential(true))
	input := []interface{}{
		map[string]interface{}{"n": 0},
		map[string]interface{}{"n": 1},
		map[string]interface{}{"n": 2},
		map[string]interface{}{"n": 3},
	}
	v, err := r.Transform(context.Background(), input)
	require.NoError(t, err)
	assert.Len(t, v, 4)
	assert.Equal(t, []int{0, 1, 2, 3}, started)
	assert.Equal(t, []int{0, 1, 2, 3}, finished)
}

func TestTransformListError(t *testing.T) {
	h := types.HandlerFunc(func(_ context.Context, v interface{}, _ types.Record) (interface{}, error) {
		if v.(int) == 1 {
			return nil, errBoom
		}
		return v, nil
	})
	records := []types.Record{{"n": 0}, {"n": 1}, {"n": 2}}
	for _, opts := range [][]types.Option{
		nil,
		{types.WithAsync(true)},
		{types.WithAsync(true), types.WithSequential(true)},
	} {
		r := mustNew(t, types.RuleTable{"n": Compute(h)}, append(opts, types.WithLogger(testLogger{t}))...)
		_, err := r.TransformAll(context.Background(), records)
		assert.ErrorIs(t, err, errBoom)
		assert.Contains(t, err.Error(), "element 1")
	}
}

func TestTransformInputs(t *testing.T) {
	r := mustNew(t, types.RuleTable{"a": Rename("b")})
	ctx := context.Background()

	v, err := r.Transform(ctx, map[string]interface{}{"a": 1})
	require.NoError(t, err)
	assert.Equal(t, types.Record{"b": 1}, v)

	v, err = r.Transform(ctx, []map[string]interface{}{{"a": 1}, {"a": 2}})
	require.NoError(t, err)
	assert.Equal(t, []types.Record{{"b": 1}, {"b": 2}}, v)

	v, err = r.Transform(ctx, []types.Record{})
	require.NoError(t, err)
	assert.Equal(t, []types.Record{}, v)

	f := r.TransformAsync(ctx, types.Record{"a": 3})
	assert.True(t, f.Settled())

	for _, input := range []interface{}{42, "a", []interface{}{types.Record{"a": 1}, 7}, nil} {
		_, err = r.Transform(ctx, input)
		assert.ErrorIs(t, err, types.ErrUnsupportedInput, fmt.Sprintf("%v", input))
	}
}
