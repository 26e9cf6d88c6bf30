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

import "fmt"

// RuleKind identifies a Rule variant.
type RuleKind int

const (
	DescriptorKind RuleKind = iota
	RenameKind
	ComputeKind
	KeepKind
	DropKind
	ManyKind
	InvalidKind
)

func (k RuleKind) String() string {
	switch k {
	case DescriptorKind:
		return "descriptor"
	case RenameKind:
		return "rename"
	case ComputeKind:
		return "compute"
	case KeepKind:
		return "keep"
	case DropKind:
		return "drop"
	case ManyKind:
		return "many"
	case InvalidKind:
		return "invalid"
	default:
		return fmt.Sprintf("RuleKind(%d)", int(k))
	}
}

// Rule describes how one source field produces destination fields.
// The set of implementations is closed: Descriptor, Rename, Compute, Keep, Drop and Many.
type Rule interface {
	Kind() RuleKind
	rule()
}

// RuleTable maps a source field name to its rule.
type RuleTable map[string]Rule

// Descriptor renames the field to Name and computes its value with Handler.
type Descriptor struct {
	Name    string
	Handler Handler
}

func (Descriptor) Kind() RuleKind { return DescriptorKind }
func (Descriptor) rule()          {}

// Rename copies the source value unchanged under a new name.
type Rename string

func (Rename) Kind() RuleKind { return RenameKind }
func (Rename) rule()          {}

// Compute keeps the field name and replaces the value with the handler result.
type Compute struct {
	Handler Handler
}

func (Compute) Kind() RuleKind { return ComputeKind }
func (Compute) rule()          {}

type keepRule struct{}

func (keepRule) Kind() RuleKind { return KeepKind }
func (keepRule) rule()          {}

type dropRule struct{}

func (dropRule) Kind() RuleKind { return DropKind }
func (dropRule) rule()          {}

var (
	// Keep copies the field name and value unchanged.
	Keep Rule = keepRule{}
	// Drop keeps the field name and resolves it to Absent, removing it from the output.
	Drop Rule = dropRule{}
)

// Many fans one source field out to several destination fields, resolved in order.
// Its elements must not be Many themselves.
type Many []Rule

func (Many) Kind() RuleKind { return ManyKind }
func (Many) rule()          {}

type invalidRule struct {
	value interface{}
}

func (invalidRule) Kind() RuleKind { return InvalidKind }
func (invalidRule) rule()          {}

// Invalid wraps a value that is not a rule, for constructors taking loosely typed arguments.
// Validate rejects it with ErrInvalidRuleShape naming the type of v.
func Invalid(v interface{}) Rule {
	return invalidRule{value: v}
}

// Validate checks that a rule is well formed.
// field is the source field the rule is bound to and is only used for error reporting.
func Validate(field string, r Rule) error {
	return validate(field, r, false)
}

func validate(field string, r Rule, nested bool) error {
	switch v := r.(type) {
	case nil:
		return &ConfigurationError{Field: field, Err: ErrNilRule}
	case Descriptor:
		if v.Name == "" {
			return &ConfigurationError{Field: field, Err: ErrEmptyName}
		}
		if v.Handler == nil {
			return &ConfigurationError{Field: field, Err: ErrNilHandler}
		}
	case *Descriptor:
		if v == nil {
			return &ConfigurationError{Field: field, Err: ErrNilRule}
		}
		return validate(field, *v, nested)
	case Rename:
		if v == "" {
			return &ConfigurationError{Field: field, Err: ErrEmptyName}
		}
	case Compute:
		if v.Handler == nil {
			return &ConfigurationError{Field: field, Err: ErrNilHandler}
		}
	case *Compute:
		if v == nil {
			return &ConfigurationError{Field: field, Err: ErrNilRule}
		}
		return validate(field, *v, nested)
	case keepRule, dropRule:
	case Many:
		if nested {
			return &ConfigurationError{Field: field, Err: ErrNestedMany}
		}
		for i, item := range v {
			if err := validate(fmt.Sprintf("%s[%d]", field, i), item, true); err != nil {
				return err
			}
		}
	case invalidRule:
		return &ConfigurationError{Field: field, Err: fmt.Errorf("%w: unexpected %T", ErrInvalidRuleShape, v.value)}
	default:
		return &ConfigurationError{Field: field, Err: ErrInvalidRuleShape}
	}
	return nil
}

// Normalize returns r with pointer variants dereferenced, so that callers only
// have to deal with value variants. Many is normalized element by element.
func Normalize(r Rule) Rule {
	switch v := r.(type) {
	case *Descriptor:
		if v != nil {
			return *v
		}
	case *Compute:
		if v != nil {
			return *v
		}
	case Many:
		out := make(Many, len(v))
		for i, item := range v {
			out[i] = Normalize(item)
		}
		return out
	}
	return r
}
