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
	"math"
	"time"

	"github.com/rulego/reform/utils/pool"
)

// Config defines the configuration of a reform engine.
// A Config is copied into the engine on construction and never changes afterwards.
type Config struct {
	// KeepUnlisted copies source fields that have no rule verbatim into the destination record.
	KeepUnlisted bool
	// Async makes transformations return futures. Handlers are still called one after the
	// other on the calling goroutine, but may return an Awaitable; the awaitables of a record
	// are waited for concurrently before merging.
	Async bool
	// Sequential, together with Async, transforms the elements of a list one at a time:
	// element N+1 starts only after element N, including its handlers, has fully settled.
	Sequential bool
	// OnDebug is called for every resolved field.
	// - sourceField: the field of the source record
	// - targetField: the destination field name, empty if resolution failed
	// - value: the resolved value, possibly Absent
	// - err: the handler error, if any
	OnDebug func(sourceField, targetField string, value interface{}, err error)
	// ScriptMaxExecutionTime is the maximum execution time of script handlers, defaulting to 2000 milliseconds.
	ScriptMaxExecutionTime time.Duration
	// Pool runs the tasks waiting for the awaitables of async records. If not configured, the go func method is used.
	// The default implementation is `pool.WorkerPool`.
	Pool Pool
	// UseDefaultPool makes the engine start its own `pool.WorkerPool` when Pool is nil.
	// The engine stops it on Release.
	UseDefaultPool bool
	// Parser decodes rule table definitions, defaulting to the JSON parser.
	Parser Parser
	// ComponentsRegistry builds handlers of rule table definitions, defaulting to `components.Registry`.
	ComponentsRegistry HandlerRegistry
	// Logger is the logging interface, defaulting to `DefaultLogger()`.
	Logger Logger
	// Properties are global values, exposed to script handlers as `global`.
	Properties map[string]interface{}
	// Udf holds custom Golang functions and native scripts callable from script handlers.
	// Entries implementing Handler can also be referenced by name from `func` handlers.
	Udf map[string]interface{}
}

// RegisterUdf registers a custom function.
func (c *Config) RegisterUdf(name string, value interface{}) {
	if c.Udf == nil {
		c.Udf = make(map[string]interface{})
	}
	c.Udf[name] = value
}

// NewConfig creates a new Config with default values and applies the provided options.
func NewConfig(opts ...Option) Config {
	c := &Config{
		ScriptMaxExecutionTime: time.Millisecond * 2000,
		Logger:                 DefaultLogger(),
		Properties:             make(map[string]interface{}),
	}

	for _, opt := range opts {
		_ = opt(c)
	}
	return *c
}

// Apply applies opts to a copy of c, stopping at the first failing option.
func (c Config) Apply(opts ...Option) (Config, error) {
	c.Properties = cloneMap(c.Properties)
	c.Udf = cloneMap(c.Udf)
	for _, opt := range opts {
		if err := opt(&c); err != nil {
			return c, err
		}
	}
	c.Logger = NewLogger(c.Logger)
	return c, nil
}

// DefaultPool provides a default coroutine pool.
func DefaultPool() Pool {
	wp := &pool.WorkerPool{MaxWorkersCount: math.MaxInt32}
	wp.Start()
	return wp
}

func cloneMap(m map[string]interface{}) map[string]interface{} {
	cp := make(map[string]interface{}, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}
