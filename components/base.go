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

// Package components provides the handler components that rule table definitions use
// to compute field values.
//
// Available handler components:
//
//   - ExprHandler (`expr`): evaluates an expr-lang expression
//   - TemplateHandler (`template`): renders a `${...}` template
//   - JsHandler (`js`): runs the body of a JavaScript function `(value, record)`
//   - FuncHandler (`func`): references a named Go handler from Config.Udf or builtin/funcs
//
// Expressions and templates are evaluated with these variables:
//
//   - value: the source field value
//   - record: the whole source record
//   - global: Config.Properties
//
// plus every non-script entry of Config.Udf under its own name.
//
// Custom components are added with `Registry.Register`.
package components

import (
	"github.com/rulego/reform/api/types"
	"github.com/rulego/reform/utils/js"
)

const (
	// ValueKey the source field value variable
	ValueKey = "value"
	// RecordKey the source record variable
	RecordKey = "record"
)

var NodeUtils = &nodeUtils{}

type nodeUtils struct {
}

// GetEvn builds the evaluation environment of expression and template handlers.
func (n *nodeUtils) GetEvn(config types.Config, value interface{}, record types.Record) map[string]interface{} {
	var evn = make(map[string]interface{}, len(config.Udf)+3)
	for k, v := range config.Udf {
		if _, ok := v.(string); !ok {
			evn[k] = v
		}
	}
	evn[js.GlobalKey] = config.Properties
	evn[ValueKey] = value
	evn[RecordKey] = map[string]interface{}(record)
	return evn
}
