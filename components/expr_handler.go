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
//	  "temperature": {"name": "alarm", "expr": "value > 50"},
//	  "name":        {"expr": "upper(value)"},
//	  "total":       {"expr": "record.price * record.count"}
//	}
import (
	"context"
	"strings"

	"github.com/rulego/reform/api/types"
	"github.com/rulego/reform/utils/el"
)

var _ types.HandlerComponent = (*ExprHandlerComponent)(nil)

// ExprHandlerComponent builds ExprHandler from an expr-lang expression.
type ExprHandlerComponent struct{}

func (c *ExprHandlerComponent) Type() string {
	return types.HandlerTypeExpr
}

func (c *ExprHandlerComponent) Desc() string {
	return "compute the value with an expr-lang expression"
}

func (c *ExprHandlerComponent) New(config types.Config, source string) (types.Handler, error) {
	program, err := el.NewExprTemplate(strings.TrimSpace(source))
	if err != nil {
		return nil, err
	}
	return &ExprHandler{config: config, program: program}, nil
}

// ExprHandler 使用expr表达式计算字段值
type ExprHandler struct {
	config  types.Config
	program *el.ExprTemplate
}

func (h *ExprHandler) Handle(_ context.Context, value interface{}, record types.Record) (interface{}, error) {
	return h.program.Execute(NodeUtils.GetEvn(h.config, value, record))
}
