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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApply(t *testing.T) {
	base := NewConfig(WithProperties(map[string]interface{}{"a": 1}))
	c, err := base.Apply(WithProperties(map[string]interface{}{"b": 2}), WithLogger(nil), WithDefaultPool())
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"a": 1, "b": 2}, c.Properties)
	assert.Equal(t, map[string]interface{}{"a": 1}, base.Properties)
	assert.NotNil(t, c.Logger)
	// the pool is started by the engine, not by the option
	assert.True(t, c.UseDefaultPool)
	assert.Nil(t, c.Pool)
}
