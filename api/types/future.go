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

package types

import (
	"context"
	"fmt"
	"sync"
)

// Awaitable is a value that settles later.
// In async mode the engine waits for handler results implementing it.
type Awaitable interface {
	Await(ctx context.Context) (interface{}, error)
}

// Future is a value or an error that becomes available once, at some point in time.
// The zero value is not usable; create futures with Run, Go, Resolved or Rejected.
type Future struct {
	done  chan struct{}
	once  sync.Once
	value interface{}
	err   error
}

var _ Awaitable = (*Future)(nil)

// NewFuture returns an unsettled future. Settle it with Resolve or Reject.
func NewFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// Resolved returns a future already settled with v.
func Resolved(v interface{}) *Future {
	f := NewFuture()
	f.Resolve(v)
	return f
}

// Rejected returns a future already settled with err.
func Rejected(err error) *Future {
	f := NewFuture()
	f.Reject(err)
	return f
}

// Go runs fn on a new goroutine and returns its future.
func Go(fn func() (interface{}, error)) *Future {
	return Run(nil, fn)
}

// Run submits fn to pool and returns its future. A nil pool runs fn on a new goroutine.
// If the pool refuses the task the future is rejected with the submit error.
// A panic in fn rejects the future instead of crashing the process.
func Run(pool Pool, fn func() (interface{}, error)) *Future {
	f := NewFuture()
	task := func() {
		defer func() {
			if caught := recover(); caught != nil {
				f.Reject(fmt.Errorf("%v", caught))
			}
		}()
		v, err := fn()
		f.Settle(v, err)
	}
	if pool == nil {
		go task()
	} else if err := pool.Submit(task); err != nil {
		f.Reject(fmt.Errorf("submit task: %w", err))
	}
	return f
}

// Settle resolves the future with v when err is nil, otherwise rejects it with err.
// Only the first call has an effect.
func (f *Future) Settle(v interface{}, err error) {
	f.once.Do(func() {
		f.value, f.err = v, err
		close(f.done)
	})
}

// Resolve settles the future with v.
func (f *Future) Resolve(v interface{}) {
	f.Settle(v, nil)
}

// Reject settles the future with err.
func (f *Future) Reject(err error) {
	f.Settle(nil, err)
}

// Done is closed once the future has settled.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the future settles or ctx is done.
func (f *Future) Await(ctx context.Context) (interface{}, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	select {
	case <-f.done:
		return f.value, f.err
	default:
	}
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Settled reports whether the future has settled.
func (f *Future) Settled() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}
