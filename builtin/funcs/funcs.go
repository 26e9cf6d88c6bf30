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

// Package funcs holds the named handlers that rule table definitions reference with `func`.
//
//	{"rules": {"name": {"func": "upper"}, "id": {"name": "uid", "func": "uuid"}}}
package funcs

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/rulego/reform/api/types"
	"github.com/rulego/reform/utils/cast"
	"github.com/rulego/reform/utils/str"
)

// Handlers 内置命名处理器
var Handlers handlerMap

func init() {
	Handlers.RegisterAll(map[string]types.Handler{
		"upper": types.ValueFunc(func(v interface{}) interface{} {
			return strings.ToUpper(str.ToString(v))
		}),
		"lower": types.ValueFunc(func(v interface{}) interface{} {
			return strings.ToLower(str.ToString(v))
		}),
		"trim": types.ValueFunc(func(v interface{}) interface{} {
			return strings.TrimSpace(str.ToString(v))
		}),
		"escape": types.ValueFunc(func(v interface{}) interface{} {
			var replacer = strings.NewReplacer(
				"\\", "\\\\", // 反斜杠
				"\"", "\\\"", // 双引号
				"\n", "\\n", // 换行符
				"\r", "\\r", // 回车符
				"\t", "\\t", // 制表符
			)
			return replacer.Replace(str.ToString(v))
		}),
		"toString": handle(func(v interface{}) (interface{}, error) {
			return cast.ToStringE(v)
		}),
		"toInt": handle(func(v interface{}) (interface{}, error) {
			return cast.ToInt64E(v)
		}),
		"toFloat": handle(func(v interface{}) (interface{}, error) {
			return cast.ToFloat64E(v)
		}),
		"toBool": handle(func(v interface{}) (interface{}, error) {
			return cast.ToBoolE(v)
		}),
		// uuid ignores the source value and generates a random identifier
		"uuid": handle(func(interface{}) (interface{}, error) {
			id, err := uuid.NewV4()
			if err != nil {
				return nil, err
			}
			return id.String(), nil
		}),
		// now ignores the source value and returns the current unix time in milliseconds
		"now": types.ValueFunc(func(interface{}) interface{} {
			return time.Now().UnixMilli()
		}),
	})
}

func handle(fn func(v interface{}) (interface{}, error)) types.HandlerFunc {
	return func(_ context.Context, value interface{}, _ types.Record) (interface{}, error) {
		return fn(value)
	}
}

type handlerMap struct {
	v map[string]types.Handler
	sync.RWMutex
}

func (x *handlerMap) Register(name string, value types.Handler) {
	x.Lock()
	defer x.Unlock()
	if x.v == nil {
		x.v = make(map[string]types.Handler)
	}
	x.v[name] = value
}

func (x *handlerMap) RegisterAll(values map[string]types.Handler) {
	x.Lock()
	defer x.Unlock()
	if x.v == nil {
		x.v = make(map[string]types.Handler)
	}
	for k, v := range values {
		x.v[k] = v
	}
}

func (x *handlerMap) UnRegister(name string) {
	x.Lock()
	defer x.Unlock()
	delete(x.v, name)
}

func (x *handlerMap) Get(name string) (types.Handler, bool) {
	x.RLock()
	defer x.RUnlock()
	f, ok := x.v[name]
	return f, ok
}

// Names returns the registered names in ascending order.
func (x *handlerMap) Names() []string {
	x.RLock()
	defer x.RUnlock()
	var keys = make([]string, 0, len(x.v))
	for k := range x.v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
