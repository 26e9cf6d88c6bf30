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

// Package el evaluates expr-lang expressions and `${...}` templates against a data map.
package el

import (
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/rulego/reform/utils/str"
)

// Template is a compiled template. Execute is safe for concurrent use.
type Template interface {
	Execute(data map[string]any) (interface{}, error)
	// HasVar 是否有变量
	HasVar() bool
}

// NewTemplate picks the template kind from tmpl:
// a string that is exactly one `${expr}` keeps the type of the expression result,
// a string with embedded `${...}` renders to a string,
// any other value is returned unchanged.
func NewTemplate(tmpl any) (Template, error) {
	v, ok := tmpl.(string)
	if !ok {
		return &AnyTemplate{Tmpl: tmpl}, nil
	}
	trimV := strings.TrimSpace(v)
	if strings.HasPrefix(trimV, str.VarPrefix) && strings.HasSuffix(trimV, str.VarSuffix) &&
		strings.Count(trimV, str.VarPrefix) == 1 {
		return NewExprTemplate(trimV[len(str.VarPrefix) : len(trimV)-len(str.VarSuffix)])
	}
	if str.CheckHasVar(v) {
		return NewMixedTemplate(v)
	}
	return &NotTemplate{Tmpl: v}, nil
}

// ExprTemplate evaluates one expr-lang expression.
type ExprTemplate struct {
	Tmpl    string
	Program *vm.Program
}

// NewExprTemplate compiles an expression. Undefined variables evaluate to nil.
func NewExprTemplate(tmpl string) (*ExprTemplate, error) {
	program, err := expr.Compile(tmpl, expr.AllowUndefinedVariables())
	if err != nil {
		return nil, err
	}
	return &ExprTemplate{Tmpl: tmpl, Program: program}, nil
}

func (t *ExprTemplate) Execute(data map[string]any) (interface{}, error) {
	// vm.VM is not safe for concurrent use, so each run gets its own
	var machine vm.VM
	return machine.Run(t.Program, data)
}

func (t *ExprTemplate) HasVar() bool {
	return true
}

// NotTemplate 原样输出
type NotTemplate struct {
	Tmpl string
}

func (t *NotTemplate) Execute(map[string]any) (interface{}, error) {
	return t.Tmpl, nil
}

func (t *NotTemplate) HasVar() bool {
	return false
}

// AnyTemplate returns a non-string value as is.
type AnyTemplate struct {
	Tmpl any
}

func (t *AnyTemplate) Execute(map[string]any) (interface{}, error) {
	return t.Tmpl, nil
}

func (t *AnyTemplate) HasVar() bool {
	return false
}

// MixedTemplate 支持混合字符串和变量的模板，格式如 aa/${xxx}
type MixedTemplate struct {
	Tmpl  string
	parts []mixedPart
}

// mixedPart is either literal text or a compiled variable.
type mixedPart struct {
	text    string
	program *vm.Program
}

func NewMixedTemplate(tmpl string) (*MixedTemplate, error) {
	t := &MixedTemplate{Tmpl: tmpl}
	rest := tmpl
	for {
		start := strings.Index(rest, str.VarPrefix)
		if start == -1 {
			break
		}
		end := strings.Index(rest[start:], str.VarSuffix)
		if end == -1 {
			break
		}
		end += start
		program, err := expr.Compile(strings.TrimSpace(rest[start+len(str.VarPrefix):end]), expr.AllowUndefinedVariables())
		if err != nil {
			return nil, err
		}
		if start > 0 {
			t.parts = append(t.parts, mixedPart{text: rest[:start]})
		}
		t.parts = append(t.parts, mixedPart{program: program})
		rest = rest[end+len(str.VarSuffix):]
	}
	if rest != "" {
		t.parts = append(t.parts, mixedPart{text: rest})
	}
	return t, nil
}

func (t *MixedTemplate) Execute(data map[string]any) (interface{}, error) {
	var sb strings.Builder
	var machine vm.VM
	for _, part := range t.parts {
		if part.program == nil {
			sb.WriteString(part.text)
			continue
		}
		val, err := machine.Run(part.program, data)
		if err != nil {
			return nil, err
		}
		sb.WriteString(str.ToString(val))
	}
	return sb.String(), nil
}

func (t *MixedTemplate) HasVar() bool {
	for _, part := range t.parts {
		if part.program != nil {
			return true
		}
	}
	return false
}
