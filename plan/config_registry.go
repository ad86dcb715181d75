// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package plan 定義取樣計畫的設定結構與載入流程。
package plan

import (
	"encoding/json"

	"github.com/zintix-labs/unirange/errs"
	"gopkg.in/yaml.v3"
)

// GetPlanSettingByYAML
// 會讀取 YAML 設定、初始化各工作並執行基本檢查後回傳。
func GetPlanSettingByYAML(data []byte) (*PlanSetting, error) {
	ps := &PlanSetting{}
	if err := yaml.Unmarshal(data, ps); err != nil {
		return nil, errs.Wrap(err, "failed to unmarshall yaml")
	}

	// 設定檔初始化
	if err := ps.init(); err != nil {
		return nil, errs.Wrap(err, "plan setting initialized err")
	}

	return ps, nil
}

// GetPlanSettingByJSON
// 會讀取 Json 設定、初始化各工作並執行基本檢查後回傳
func GetPlanSettingByJSON(data []byte) (*PlanSetting, error) {
	ps := &PlanSetting{}
	if err := json.Unmarshal(data, ps); err != nil {
		return nil, errs.Wrap(err, "can not unmarshall json byte")
	}

	// 設定檔初始化
	if err := ps.init(); err != nil {
		return nil, errs.Wrap(err, "plan setting initialized err")
	}

	return ps, nil
}
