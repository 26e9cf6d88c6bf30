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

// ReformDef is the serializable definition of an engine: its settings and its rule table.
//
//	{
//	  "keepUnlisted": true,
//	  "rules": {
//	    "a": "b",
//	    "c": true,
//	    "d": false,
//	    "e": {"name": "f", "expr": "value * 2"},
//	    "g": {"js": "return value + 1"},
//	    "h": ["h", {"name": "h2", "func": "toString"}]
//	  }
//	}
//
// Rule values keep their raw decoded shape and are turned into Rule values once, when the engine is built:
// a string renames, true keeps, false drops, a list fans out and an object is a HandlerDef.
type ReformDef struct {
	KeepUnlisted bool                   `json:"keepUnlisted,omitempty" yaml:"keepUnlisted,omitempty"`
	Async        bool                   `json:"async,omitempty" yaml:"async,omitempty"`
	Sequential   bool                   `json:"sequential,omitempty" yaml:"sequential,omitempty"`
	Rules        map[string]interface{} `json:"rules" yaml:"rules"`
}

// HandlerDef is the object form of a rule.
// With Name and a handler it is a Descriptor, with a handler only it is a Compute
// and with Name only it is a Rename. Exactly one handler key may be set.
type HandlerDef struct {
	// Name is the destination field name.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	// Expr is an expr-lang expression evaluated with `value`, `record` and `global`.
	Expr string `json:"expr,omitempty" yaml:"expr,omitempty"`
	// Template is a `${...}` template rendered with `value`, `record` and `global`.
	Template string `json:"template,omitempty" yaml:"template,omitempty"`
	// Js is the body of a JavaScript function `(value, record)`.
	Js string `json:"js,omitempty" yaml:"js,omitempty"`
	// Func names a registered Handler.
	Func string `json:"func,omitempty" yaml:"func,omitempty"`
}

// HandlerType returns the handler kind and its source; ok is false unless exactly one handler key is set.
func (d HandlerDef) HandlerType() (handlerType, source string, ok bool) {
	count := 0
	for _, kv := range [][2]string{
		{HandlerTypeExpr, d.Expr},
		{HandlerTypeTemplate, d.Template},
		{HandlerTypeJs, d.Js},
		{HandlerTypeFunc, d.Func},
	} {
		if kv[1] != "" {
			handlerType, source = kv[0], kv[1]
			count++
		}
	}
	return handlerType, source, count == 1
}

// HasHandler reports whether any handler key is set.
func (d HandlerDef) HasHandler() bool {
	return d.Expr != "" || d.Template != "" || d.Js != "" || d.Func != ""
}

const (
	HandlerTypeExpr     = "expr"
	HandlerTypeTemplate = "template"
	HandlerTypeJs       = "js"
	HandlerTypeFunc     = "func"
)
