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

import (
	"errors"
	"fmt"
)

var (
	// ErrNilRule a rule table entry is nil
	ErrNilRule = errors.New("rule is nil")
	// ErrEmptyName a rename or descriptor has no destination name
	ErrEmptyName = errors.New("destination field name is empty")
	// ErrNilHandler a descriptor or compute rule has no handler
	ErrNilHandler = errors.New("handler is nil")
	// ErrNestedMany a fan-out list contains another fan-out list
	ErrNestedMany = errors.New("fan-out rules cannot be nested")
	// ErrInvalidRuleShape the rule matches none of the supported shapes
	ErrInvalidRuleShape = errors.New("invalid rule shape")
	// ErrUnknownHandler the handler type of a definition is not registered
	ErrUnknownHandler = errors.New("unknown handler type")
	// ErrUnsupportedInput Transform was called with something that is neither a record nor a list of records
	ErrUnsupportedInput = errors.New("input is not a record or a list of records")
)

// ConfigurationError reports a malformed rule bound to a source field.
type ConfigurationError struct {
	Field string
	Err   error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid rule for field %q: %v", e.Field, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}
