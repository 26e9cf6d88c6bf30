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

// Package types holds the interfaces and data types shared by the reform engine,
// its handler components and its parsers.
package types

import "context"

// Record is a flat key/value object. It is both the input and the output of a transformation.
type Record map[string]interface{}

// Field is one resolved destination field.
type Field struct {
	Name  string
	Value interface{}
}

type absent struct{}

func (absent) String() string {
	return "<absent>"
}

// Absent marks a field that must not appear in the destination record.
// Handlers return it to drop a field; the Drop rule resolves to it.
var Absent interface{} = absent{}

// IsAbsent reports whether v is the Absent sentinel.
func IsAbsent(v interface{}) bool {
	_, ok := v.(absent)
	return ok
}

// Handler computes a destination value from a source field value and the record it belongs to.
// In async mode a handler may return an Awaitable; the engine waits for it to settle.
type Handler interface {
	Handle(ctx context.Context, value interface{}, record Record) (interface{}, error)
}

// HandlerFunc adapts an ordinary function to the Handler interface.
type HandlerFunc func(ctx context.Context, value interface{}, record Record) (interface{}, error)

func (f HandlerFunc) Handle(ctx context.Context, value interface{}, record Record) (interface{}, error) {
	return f(ctx, value, record)
}

// ValueFunc adapts a function that only looks at the field value and cannot fail.
type ValueFunc func(value interface{}) interface{}

func (f ValueFunc) Handle(_ context.Context, value interface{}, _ Record) (interface{}, error) {
	return f(value), nil
}

// Pool 协程池
type Pool interface {
	// Submit 往协程池提交一个任务
	// 如果协程池满返回错误
	Submit(task func()) error
	// Release 释放
	Release()
}

// Parser decodes a rule table definition.
// The default parser reads JSON; implement this interface to load definitions
// in another format and install it with `WithParser`.
type Parser interface {
	// DecodeReform parses a definition from an input source.
	DecodeReform(dsl []byte) (ReformDef, error)
	// EncodeReform converts a definition back to its source format.
	EncodeReform(def ReformDef) ([]byte, error)
}
