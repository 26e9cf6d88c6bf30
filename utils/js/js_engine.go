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

// Package js runs JavaScript handlers with goja.
//
// A GojaJsEngine compiles a script once and keeps a pool of goja runtimes with the
// script, the global properties (`global`) and the user defined functions (Udf)
// already loaded, so that concurrent executions never share a runtime.
package js

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dop251/goja"
	"github.com/rulego/reform/api/types"
)

const (
	// GlobalKey global properties key, call them through the global.xx method
	GlobalKey = "global"
)

// ErrExecutionTimeout the script ran longer than Config.ScriptMaxExecutionTime
var ErrExecutionTimeout = errors.New("execution timeout")

// GojaJsEngine goja js engine
type GojaJsEngine struct {
	vmPool            sync.Pool
	config            types.Config
	jsScript          *goja.Program
	jsUdfProgramCache map[string]*goja.Program
}

// NewGojaJsEngine Create a new instance of the JavaScript engine
func NewGojaJsEngine(config types.Config, jsScript string, fromVars map[string]interface{}) (*GojaJsEngine, error) {
	program, err := goja.Compile("", jsScript, true)
	if err != nil {
		return nil, err
	}
	jsEngine := &GojaJsEngine{
		config:   config,
		jsScript: program,
	}
	if err = jsEngine.PreCompileJs(config); err != nil {
		return nil, err
	}
	jsEngine.vmPool = sync.Pool{
		New: func() interface{} {
			return jsEngine.NewVm(config, fromVars)
		},
	}
	return jsEngine, nil
}

// PreCompileJs Precompiled UDF JavaScript source
func (g *GojaJsEngine) PreCompileJs(config types.Config) error {
	var jsUdfProgramCache = make(map[string]*goja.Program)
	for k, v := range config.Udf {
		if jsFuncStr, ok := v.(string); ok {
			p, err := goja.Compile(k, jsFuncStr, true)
			if err != nil {
				return fmt.Errorf("compile udf %s: %w", k, err)
			}
			jsUdfProgramCache[k] = p
		}
	}
	g.jsUdfProgramCache = jsUdfProgramCache
	return nil
}

// NewVm new a js VM
func (g *GojaJsEngine) NewVm(config types.Config, fromVars map[string]interface{}) *goja.Runtime {
	vm := goja.New()

	for k, v := range fromVars {
		if err := vm.Set(k, v); err != nil {
			config.Logger.Printf("set fromVar %s error: %s", k, err.Error())
		}
	}

	if len(config.Properties) != 0 {
		if err := vm.Set(GlobalKey, config.Properties); err != nil {
			config.Logger.Printf("set global properties error: %s", err.Error())
		}
	}

	for k, v := range config.Udf {
		var err error
		if _, ok := v.(string); ok {
			// JS string - run precompiled program
			if p, exists := g.jsUdfProgramCache[k]; exists {
				_, err = vm.RunProgram(p)
			}
		} else {
			// Direct Go function
			err = vm.Set(k, v)
		}
		if err != nil {
			config.Logger.Printf("parse js script=%s error: %s", k, err.Error())
		}
	}

	stop := g.startTimeout(vm)
	_, err := vm.RunProgram(g.jsScript)
	stop()
	vm.ClearInterrupt()

	if err != nil {
		config.Logger.Printf("js vm error: %s", err.Error())
	}
	return vm
}

// Execute calls functionName with argumentList.
// A JavaScript `undefined` result is reported as types.Absent.
// The call is interrupted when ctx is done or ScriptMaxExecutionTime elapses.
func (g *GojaJsEngine) Execute(ctx context.Context, functionName string, argumentList ...interface{}) (out interface{}, err error) {
	defer func() {
		if caught := recover(); caught != nil {
			err = fmt.Errorf("%s", caught)
		}
	}()

	vm := g.vmPool.Get().(*goja.Runtime)
	vm.ClearInterrupt()
	defer func() {
		vm.ClearInterrupt()
		g.vmPool.Put(vm)
	}()

	if ctx != nil {
		fired := make(chan struct{})
		stop := context.AfterFunc(ctx, func() {
			vm.Interrupt(ctx.Err())
			close(fired)
		})
		defer func() {
			if !stop() {
				<-fired
			}
		}()
	}

	defer g.startTimeout(vm)()

	f, ok := goja.AssertFunction(vm.Get(functionName))
	if !ok {
		return nil, errors.New(functionName + " is not a function")
	}

	var params []goja.Value
	if len(argumentList) > 0 {
		params = make([]goja.Value, len(argumentList))
		for i, v := range argumentList {
			params[i] = vm.ToValue(v)
		}
	}

	res, err := f(goja.Undefined(), params...)
	if err != nil {
		var interrupted *goja.InterruptedError
		if errors.As(err, &interrupted) {
			if cause, ok := interrupted.Value().(error); ok {
				return nil, cause
			}
		}
		return nil, err
	}
	if goja.IsUndefined(res) {
		return types.Absent, nil
	}
	return res.Export(), nil
}

// startTimeout interrupts vm once ScriptMaxExecutionTime elapses.
// The returned stop function returns only after a fired interrupt has been delivered,
// so a cleared runtime cannot be interrupted afterwards.
func (g *GojaJsEngine) startTimeout(vm *goja.Runtime) (stop func()) {
	if g.config.ScriptMaxExecutionTime <= 0 {
		return func() {}
	}
	fired := make(chan struct{})
	timer := time.AfterFunc(g.config.ScriptMaxExecutionTime, func() {
		vm.Interrupt(ErrExecutionTimeout)
		close(fired)
	})
	return func() {
		if !timer.Stop() {
			<-fired
		}
	}
}
