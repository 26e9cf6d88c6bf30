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

package el

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTemplate(t *testing.T) {
	tests := []struct {
		name     string
		tmpl     any
		data     map[string]any
		expected interface{}
		hasVar   bool
	}{
		{
			name:     "expression keeps its type",
			tmpl:     "${value * 2}",
			data:     map[string]any{"value": 21},
			expected: 42,
			hasVar:   true,
		},
		{
			name:     "expression with spaces",
			tmpl:     "  ${ record.name }  ",
			data:     map[string]any{"record": map[string]any{"name": "lala"}},
			expected: "lala",
			hasVar:   true,
		},
		{
			name: "mixed content",
			tmpl: "${record.first} ${record.last}!",
			data: map[string]any{"record": map[string]any{
				"first": "Ada",
				"last":  "Lovelace",
			}},
			expected: "Ada Lovelace!",
			hasVar:   true,
		},
		{
			name:     "repeated variable",
			tmpl:     "${value}-${value}",
			data:     map[string]any{"value": 1},
			expected: "1-1",
			hasVar:   true,
		},
		{
			name:     "undefined variable renders empty",
			tmpl:     "a/${missing}/b",
			data:     map[string]any{},
			expected: "a//b",
			hasVar:   true,
		},
		{
			name:     "plain string",
			tmpl:     "hello",
			expected: "hello",
		},
		{
			name:     "non string",
			tmpl:     5,
			expected: 5,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, err := NewTemplate(tt.tmpl)
			require.NoError(t, err)
			assert.Equal(t, tt.hasVar, tmpl.HasVar())
			got, err := tmpl.Execute(tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestTemplateCompileError(t *testing.T) {
	_, err := NewTemplate("${value +}")
	assert.Error(t, err)
	_, err = NewTemplate("a ${value +} b")
	assert.Error(t, err)
	_, err = NewExprTemplate("(")
	assert.Error(t, err)
}

func TestExprTemplateRuntimeError(t *testing.T) {
	tmpl, err := NewExprTemplate(`value.name`)
	require.NoError(t, err)
	_, err = tmpl.Execute(map[string]any{"value": 5})
	assert.Error(t, err)
}

func TestExprTemplateConcurrent(t *testing.T) {
	tmpl, err := NewExprTemplate("value + 1")
	require.NoError(t, err)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			out, err := tmpl.Execute(map[string]any{"value": i})
			assert.NoError(t, err)
			assert.Equal(t, i+1, out)
		}(i)
	}
	wg.Wait()
}
