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

package components

// 规则配置示例：
//
//	"rules": {
//	  "count": {"js": "return value + 1"},
//	  "debug": {"js": "if (!global.debug) { return undefined } return value"}
//	}
import (
	"context"
	"fmt"
	"strings"

	"github.com/rulego/reform/api/types"
	"github.com/rulego/reform/utils/js"
)

const (
	// JsHandlerFuncTemplate JS函数模板，用于包装用户脚本
	JsHandlerFuncTemplate = "function Handle(value, record) { %s }"
	// JsHandlerFuncName JS引擎中执行的函数名称
	JsHandlerFuncName = "Handle"
)

var _ types.HandlerComponent = (*JsHandlerComponent)(nil)

// JsHandlerComponent builds JsHandler from the body of a JavaScript function.
type JsHandlerComponent struct{}

func (c *JsHandlerComponent) Type() string {
	return types.HandlerTypeJs
}

func (c *JsHandlerComponent) Desc() string {
	return "compute the value with a JavaScript function body receiving value and record"
}

func (c *JsHandlerComponent) New(config types.Config, source string) (types.Handler, error) {
	script := strings.TrimSpace(source)
	jsEngine, err := js.NewGojaJsEngine(config, fmt.Sprintf(JsHandlerFuncTemplate, script), nil)
	if err != nil {
		return nil, err
	}
	return &JsHandler{jsEngine: jsEngine}, nil
}

// JsHandler JavaScript字段处理器
// Returning `undefined` drops the field.
type JsHandler struct {
	jsEngine *js.GojaJsEngine
}

func (h *JsHandler) Handle(ctx context.Context, value interface{}, record types.Record) (interface{}, error) {
	return h.jsEngine.Execute(ctx, JsHandlerFuncName, value, map[string]interface{}(record))
}
