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

package reform

import (
	"github.com/rulego/reform/api/types"
	"github.com/rulego/reform/utils/json"
	"gopkg.in/yaml.v3"
)

var (
	_ types.Parser = (*JsonParser)(nil)
	_ types.Parser = (*YamlParser)(nil)
)

// JsonParser reads rule table definitions in JSON.
type JsonParser struct {
}

func (p *JsonParser) DecodeReform(dsl []byte) (types.ReformDef, error) {
	var def types.ReformDef
	err := json.Unmarshal(dsl, &def)
	return def, err
}

func (p *JsonParser) EncodeReform(def types.ReformDef) ([]byte, error) {
	return json.Marshal(def)
}

// YamlParser reads rule table definitions in YAML.
type YamlParser struct {
}

func (p *YamlParser) DecodeReform(dsl []byte) (types.ReformDef, error) {
	var def types.ReformDef
	err := yaml.Unmarshal(dsl, &def)
	return def, err
}

func (p *YamlParser) EncodeReform(def types.ReformDef) ([]byte, error) {
	return yaml.Marshal(def)
}
