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

package maps

import "github.com/mitchellh/mapstructure"

// Map2Struct Decode takes an input structure and uses reflection to translate it to
// the output structure. output must be a pointer to a map or struct.
// Duration strings such as "5s" are decoded into time.Duration fields.
func Map2Struct(input interface{}, output interface{}) error {
	return decode(input, output, false)
}

// Map2StructStrict is Map2Struct failing on input keys that match no field of output.
func Map2StructStrict(input interface{}, output interface{}) error {
	return decode(input, output, true)
}

func decode(input interface{}, output interface{}, errorUnused bool) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:  mapstructure.StringToTimeDurationHookFunc(),
		ErrorUnused: errorUnused,
		Result:      output,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}
