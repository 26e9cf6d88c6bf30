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
//	  "name": {"func": "upper"},
//	  "id":   {"name": "uid", "func": "uuid"}
//	}
import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rulego/reform/api/types"
	"github.com/rulego/reform/builtin/funcs"
)

// ErrFuncNotFound the named function is neither a Config.Udf handler nor a builtin
var ErrFuncNotFound = errors.New("func not found")

var _ types.HandlerComponent = (*FuncHandlerComponent)(nil)

// FuncHandlerComponent resolves a handler by name, first in Config.Udf, then in funcs.Handlers.
// Udf entries qualify when they are a types.Handler, a handler function or a value function.
type FuncHandlerComponent struct{}

func (c *FuncHandlerComponent) Type() string {
	return types.HandlerTypeFunc
}

func (c *FuncHandlerComponent) Desc() string {
	return "compute the value with a named Go function"
}

func (c *FuncHandlerComponent) New(config types.Config, source string) (types.Handler, error) {
	name := strings.TrimSpace(source)
	if v, ok := config.Udf[name]; ok {
		if h := asHandler(v); h != nil {
			return h, nil
		}
	}
	if h, ok := funcs.Handlers.Get(name); ok {
		return h, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrFuncNotFound, name)
}

func asHandler(v interface{}) types.Handler {
	switch fn := v.(type) {
	case types.Handler:
		return fn
	case func(ctx context.Context, value interface{}, record types.Record) (interface{}, error):
		return types.HandlerFunc(fn)
	case func(value interface{}) interface{}:
		return types.ValueFunc(fn)
	default:
		return nil
	}
}
