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

// HandlerComponent builds handlers of one type from the source text of a definition,
// for example the expression of an `expr` handler.
type HandlerComponent interface {
	// Type is the definition key selecting this component, e.g. "expr".
	Type() string
	// New compiles source into a Handler. Compilation errors are returned here, not at transform time.
	New(config Config, source string) (Handler, error)
}

// DescGetter 该接口是可选的，组件可以实现该接口，提供组件描述，
type DescGetter interface {
	Desc() string
}

// HandlerRegistry keeps the handler components available to rule table definitions.
type HandlerRegistry interface {
	// Register adds a component; registering an existing type is an error.
	Register(component HandlerComponent) error
	// Unregister removes the component of the given type.
	Unregister(handlerType string) error
	// NewHandler builds a handler with the component registered for handlerType.
	NewHandler(config Config, handlerType, source string) (Handler, error)
	// Components returns the registered components by type.
	Components() map[string]HandlerComponent
}
