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

import (
	"fmt"
	"sync"

	"github.com/rulego/reform/api/types"
)

// Registry 默认处理器组件注册器
var Registry = new(HandlerComponentRegistry)

func init() {
	for _, c := range []types.HandlerComponent{
		&ExprHandlerComponent{},
		&TemplateHandlerComponent{},
		&JsHandlerComponent{},
		&FuncHandlerComponent{},
	} {
		_ = Registry.Register(c)
	}
}

var _ types.HandlerRegistry = (*HandlerComponentRegistry)(nil)

// HandlerComponentRegistry 处理器组件注册器
type HandlerComponentRegistry struct {
	components map[string]types.HandlerComponent
	sync.RWMutex
}

// Register 注册处理器组件
func (r *HandlerComponentRegistry) Register(component types.HandlerComponent) error {
	r.Lock()
	defer r.Unlock()
	if r.components == nil {
		r.components = make(map[string]types.HandlerComponent)
	}
	if _, ok := r.components[component.Type()]; ok {
		return fmt.Errorf("the component already exists. handlerType=%s", component.Type())
	}
	r.components[component.Type()] = component
	return nil
}

// Unregister 删除处理器组件
func (r *HandlerComponentRegistry) Unregister(handlerType string) error {
	r.Lock()
	defer r.Unlock()
	if _, ok := r.components[handlerType]; !ok {
		return fmt.Errorf("%w: %s", types.ErrUnknownHandler, handlerType)
	}
	delete(r.components, handlerType)
	return nil
}

// NewHandler 根据类型和源码创建处理器
func (r *HandlerComponentRegistry) NewHandler(config types.Config, handlerType, source string) (types.Handler, error) {
	r.RLock()
	component, ok := r.components[handlerType]
	r.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", types.ErrUnknownHandler, handlerType)
	}
	return component.New(config, source)
}

// Components 获取所有注册的处理器组件
func (r *HandlerComponentRegistry) Components() map[string]types.HandlerComponent {
	r.RLock()
	defer r.RUnlock()
	cp := make(map[string]types.HandlerComponent, len(r.components))
	for k, v := range r.components {
		cp[k] = v
	}
	return cp
}
