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

package str

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type User struct {
	Username string
	Age      int
}

func TestToString(t *testing.T) {
	var x interface{}
	x = 123
	assert.Equal(t, "123", ToString(x))
	x = "this is test"
	assert.Equal(t, "this is test", ToString(x))
	x = []byte("this is test")
	assert.Equal(t, "this is test", ToString(x))
	assert.Equal(t, "1.5", ToString(1.5))
	assert.Equal(t, "true", ToString(true))
	assert.Equal(t, "18446744073709551615", ToString(uint64(18446744073709551615)))
	assert.Equal(t, "boom", ToString(errors.New("boom")))
	assert.Equal(t, "", ToString(nil))

	x = User{Username: "lala", Age: 25}
	assert.Equal(t, `{"Username":"lala","Age":25}`, ToString(x))

	x = map[string]string{"name": "<lala>"}
	assert.Equal(t, `{"name":"<lala>"}`, ToString(x))

	x = map[interface{}]interface{}{1: "a"}
	assert.Equal(t, `{"1":"a"}`, ToString(x))
}

func TestCheckHasVar(t *testing.T) {
	assert.True(t, CheckHasVar("${value}"))
	assert.True(t, CheckHasVar("Hello ${record.name}!"))
	assert.False(t, CheckHasVar("Hello"))
	assert.False(t, CheckHasVar("${value"))
}
