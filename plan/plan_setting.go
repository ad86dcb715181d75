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

package plan

import (
	"github.com/zintix-labs/unirange/errs"
)

// PlanSetting 包含一份取樣計畫所需的所有高階設定。
type PlanSetting struct {
	PlanName string       `yaml:"plan_name" json:"plan_name"`
	Draws    int          `yaml:"draws"     json:"draws"`
	Jobs     []JobSetting `yaml:"jobs"      json:"jobs"`
}

// init
func (ps *PlanSetting) init() error {
	for i := range ps.Jobs {
		if err := ps.Jobs[i].init(); err != nil {
			return err
		}
	}
	return ps.valid()
}

// valid 執行最基本的設定檔檢查，如需更多驗證可在此擴充。
func (ps *PlanSetting) valid() error {
	if ps.PlanName == "" {
		return errs.NewFatal("empty plan_name")
	}
	if ps.Draws < 1 {
		return errs.Fatalf("plan %s: draws must be >= 1, got %d", ps.PlanName, ps.Draws)
	}
	if len(ps.Jobs) == 0 {
		return errs.Fatalf("plan %s: empty jobs", ps.PlanName)
	}

	// 工作名稱在計畫內必須唯一，報表與 API 以名稱索引
	seen := map[string]bool{}
	for i := range ps.Jobs {
		name := ps.Jobs[i].Name
		if seen[name] {
			return errs.Fatalf("plan %s: duplicate job name %q", ps.PlanName, name)
		}
		seen[name] = true
	}
	return nil
}

// Job 依名稱查找工作設定，找不到時回傳 nil。
func (ps *PlanSetting) Job(name string) *JobSetting {
	for i := range ps.Jobs {
		if ps.Jobs[i].Name == name {
			return &ps.Jobs[i]
		}
	}
	return nil
}
