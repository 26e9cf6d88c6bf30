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

import "time"

// Option is a function type that modifies the Config.
type Option func(*Config) error

// WithKeepUnlisted is an option that keeps source fields without a rule.
func WithKeepUnlisted(keepUnlisted bool) Option {
	return func(c *Config) error {
		c.KeepUnlisted = keepUnlisted
		return nil
	}
}

// WithAsync is an option that switches the engine to async mode.
func WithAsync(async bool) Option {
	return func(c *Config) error {
		c.Async = async
		return nil
	}
}

// WithSequential is an option that serializes list elements in async mode.
func WithSequential(sequential bool) Option {
	return func(c *Config) error {
		c.Sequential = sequential
		return nil
	}
}

// WithOnDebug is an option that sets the on debug callback of the Config.
func WithOnDebug(onDebug func(sourceField, targetField string, value interface{}, err error)) Option {
	return func(c *Config) error {
		c.OnDebug = onDebug
		return nil
	}
}

// WithPool is an option that sets the pool of the Config.
func WithPool(pool Pool) Option {
	return func(c *Config) error {
		c.Pool = pool
		return nil
	}
}

// WithDefaultPool is an option that makes the engine start and own a `pool.WorkerPool`.
// The pool is started once, when the engine is built, and stopped by the engine's Release.
func WithDefaultPool() Option {
	return func(c *Config) error {
		c.UseDefaultPool = true
		return nil
	}
}

// WithScriptMaxExecutionTime is an option that sets the js max execution time of the Config.
func WithScriptMaxExecutionTime(scriptMaxExecutionTime time.Duration) Option {
	return func(c *Config) error {
		c.ScriptMaxExecutionTime = scriptMaxExecutionTime
		return nil
	}
}

// WithParser is an option that sets the parser of the Config.
func WithParser(parser Parser) Option {
	return func(c *Config) error {
		c.Parser = parser
		return nil
	}
}

// WithComponentsRegistry is an option that sets the handler components registry of the Config.
func WithComponentsRegistry(componentsRegistry HandlerRegistry) Option {
	return func(c *Config) error {
		c.ComponentsRegistry = componentsRegistry
		return nil
	}
}

// WithLogger is an option that sets the logger of the Config.
func WithLogger(logger Logger) Option {
	return func(c *Config) error {
		c.Logger = logger
		return nil
	}
}

// WithProperties is an option that merges global properties into the Config.
func WithProperties(properties map[string]interface{}) Option {
	return func(c *Config) error {
		if c.Properties == nil {
			c.Properties = make(map[string]interface{})
		}
		for k, v := range properties {
			c.Properties[k] = v
		}
		return nil
	}
}

// WithUdf is an option that registers a custom function.
func WithUdf(name string, value interface{}) Option {
	return func(c *Config) error {
		c.RegisterUdf(name, value)
		return nil
	}
}
