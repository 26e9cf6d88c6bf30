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
//	  "first": {"name": "fullName", "template": "${record.first} ${record.last}"}
//	}
import (
	"context"

	"github.com/rulego/reform/api/types"
	"github.com/rulego/reform/utils/el"
)

var _ types.HandlerComponent = (*TemplateHandlerComponent)(nil)

// TemplateHandlerComponent builds TemplateHandler from a `${...}` template.
type TemplateHandlerComponent struct{}

func (c *TemplateHandlerComponent) Type() string {
	return types.HandlerTypeTemplate
}

func (c *TemplateHandlerComponent) Desc() string {
	return "render the value from a ${...} template"
}

func (c *TemplateHandlerComponent) New(config types.Config, source string) (types.Handler, error) {
	tmpl, err := el.NewTemplate(source)
	if err != nil {
		return nil, err
	}
	return &TemplateHandler{config: config, tmpl: tmpl}, nil
}

// TemplateHandler 使用模板渲染字段值
// A template made of a single `${expr}` keeps the type of the expression result,
// any other template renders to a string.
type TemplateHandler struct {
	config types.Config
	tmpl   el.Template
}

func (h *TemplateHandler) Handle(_ context.Context, value interface{}, record types.Record) (interface{}, error) {
	if !h.tmpl.HasVar() {
		return h.tmpl.Execute(nil)
	}
	return h.tmpl.Execute(NodeUtils.GetEvn(h.config, value, record))
}
