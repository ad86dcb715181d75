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

// Package unirange 提供區間取樣引擎的「組裝入口（assembler）」與「運行入口（runtime entry）」。
//
// 你可以把 Lab 視為一個「可被後端/模擬器使用的 runtime」，它負責把下列兩個必需的地基組裝在一起，並提供建立 Engine 的入口：
//  1. 計畫目錄：定義有哪些取樣計畫（PlanSetting），每個計畫內有哪些工作（JobSetting）。
//  2. Factory：亂數核心工廠（PRNG factory），保證可重現（reproducible）與可審計（auditable）。
//
// 設計重點：
//   - Lab 本身不綁定任何「檔案路徑」概念：計畫來源一律以 fs.FS 的形式注入。
//   - Engine 是對外提供 Draw 的最小單位；區間語意的核心在 sdk/interval。
//
// 典型使用情境：
//   - 後端服務（HTTP）：由 Lab 建立 Engine，Engine 對外提供 Draw。
//   - 模擬器（sim）：由 Lab 建立多台 Engine 進行大量取樣並產出統計報表。
package unirange

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/zintix-labs/unirange/errs"
	"github.com/zintix-labs/unirange/plan"
	"github.com/zintix-labs/unirange/sdk/core"
)

// Configs 用來把一或多個計畫來源（fs.FS）打包成 New() 需要的參數。
//
// 為什麼是 fs.FS：
//   - 你可以用 go:embed 把計畫直接編進 binary（部署最穩定，不依賴工作目錄）。
//   - 也可以用 os.DirFS 在本機開發時讀取目錄。
//
// Lab 不解析「路徑」：它只依賴 fs.FS + 檔名來取得計畫內容。
func Configs(cfgs ...fs.FS) []fs.FS {
	return cfgs
}

// Lab 是「組裝器（assembler）」與「運行入口（runtime entry）」。
//
// 使用流程通常分成兩階段：
//   - 註冊/組裝階段（registration/build）：掃描來源、解析計畫、檢查重複與缺漏。
//   - 執行階段（runtime）：依據計畫名稱產生 Engine，並在 Engine 上執行 Draw。
//
// 重要設計原則：
//   - 計畫名稱唯一性只保證在「同一個 Lab instance」內。
//   - runtime 一旦開始（例如已建立 Engine 並對外服務），不建議再變更計畫目錄。
type Lab struct {
	cf      core.Factory
	sources []fs.FS
	plans   map[string]*plan.PlanSetting
	names   []string
	frozen  bool
}

// New 建立一個 Lab instance。
//
// 參數要求（是合約的一部分）：
//   - cf 不能為 nil：沒有 RNG 工廠就無法建立可重現/可審計的核心。
//   - cfgs 至少一個：沒有計畫來源，目錄無法解析 PlanSetting。
func New(cf core.Factory, cfgs []fs.FS) (*Lab, error) {
	if cf == nil {
		return nil, errs.NewFatal("core factory required")
	}
	if len(cfgs) == 0 {
		return nil, errs.NewFatal("configs required")
	}
	lab := &Lab{
		cf:      cf,
		sources: cfgs,
		plans:   make(map[string]*plan.PlanSetting),
	}
	return lab, nil
}

// NewAuto 建立一個直接進入執行階段的 Lab instance。
func NewAuto(cf core.Factory, cfgs []fs.FS) (*Lab, error) {
	lab, err := New(cf, cfgs)
	if err != nil {
		return nil, err
	}
	if err := lab.RegisterAll(); err != nil {
		return nil, err
	}
	lab.Freeze()
	return lab, nil
}

// RegisterAll
//
// 會掃描持有的計畫來源（fs.FS），把所有可辨識的設定檔（.yaml/.yml/.json）
// 嘗試解析成 *plan.PlanSetting，並以計畫名稱批次註冊。
//
// 行為特性（重要）：
//  1. Fail-fast：任何一個檔案讀取/解析/基本檢查失敗，都會立刻回傳 error（不會忽略、也不會繼續掃完）。
//  2. 原子性：只有當「全部檔案」都成功解析並通過基本檢查時，才會一次性寫入目錄。
//  3. 穩定性：會依檔名排序後再處理，確保行為 determinism（方便重現與除錯）。
func (l *Lab) RegisterAll() error {
	if l.frozen {
		return errs.NewFatal("lab is frozen")
	}
	if len(l.sources) == 0 {
		return errs.NewFatal("configs required")
	}

	type pending struct {
		name string
		ps   *plan.PlanSetting
	}
	loaded := make([]pending, 0, 16)
	seen := map[string]string{}

	for _, src := range l.sources {
		files := make([]string, 0, 16)
		walkErr := fs.WalkDir(src, ".", func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path == "." {
					return nil
				}
				return errs.NewFatal(fmt.Sprintf("configs must be flat (no subdir): %q", path))
			}
			base := filepath.Base(path)
			if strings.HasPrefix(base, ".") {
				return nil
			}
			ext := strings.ToLower(filepath.Ext(base))
			if ext != ".yaml" && ext != ".yml" && ext != ".json" {
				return nil
			}
			files = append(files, path)
			return nil
		})
		if walkErr != nil {
			return walkErr
		}
		sort.Strings(files)

		for _, path := range files {
			base := filepath.Base(path)
			raw, rerr := fs.ReadFile(src, path)
			if rerr != nil {
				return errs.NewFatal(fmt.Sprintf("read config failed: %s", base))
			}

			var (
				ps   *plan.PlanSetting
				perr error
			)
			switch strings.ToLower(filepath.Ext(base)) {
			case ".yaml", ".yml":
				ps, perr = plan.GetPlanSettingByYAML(raw)
			case ".json":
				ps, perr = plan.GetPlanSettingByJSON(raw)
			}
			if perr != nil {
				return errs.Wrap(perr, fmt.Sprintf("parse plan failed: %s", base))
			}

			nameKey := strings.ToLower(strings.TrimSpace(ps.PlanName))
			if prev, ok := seen[nameKey]; ok {
				return errs.NewFatal(fmt.Sprintf("duplicate plan name: %s (config=%s and %s)", nameKey, prev, base))
			}
			if _, ok := l.plans[nameKey]; ok {
				return errs.NewFatal(fmt.Sprintf("plan already registered: %s (config=%s)", nameKey, base))
			}
			seen[nameKey] = base
			loaded = append(loaded, pending{name: nameKey, ps: ps})
		}
	}

	if len(loaded) == 0 {
		return errs.NewFatal("no config files found to register")
	}

	// 全部通過才寫入
	for _, p := range loaded {
		l.plans[p.name] = p.ps
		l.names = append(l.names, p.name)
	}
	sort.Strings(l.names)
	return nil
}

// Freeze 進入執行階段：之後不再允許註冊新計畫。
func (l *Lab) Freeze() {
	l.frozen = true
}

// IsFrozen 回報是否已進入執行階段。
func (l *Lab) IsFrozen() bool {
	return l.frozen
}

// Plans 回傳已註冊的計畫名稱（排序後）。
func (l *Lab) Plans() []string {
	return l.names
}

// PlanByName 依名稱查找計畫（大小寫不敏感）。
func (l *Lab) PlanByName(name string) (*plan.PlanSetting, bool) {
	ps, ok := l.plans[strings.ToLower(strings.TrimSpace(name))]
	return ps, ok
}

// NewEngine 依據目錄內的計畫名稱建立一台 Engine（seed 由 crypto/rand 產生）。
func (l *Lab) NewEngine(name string) (*Engine, error) {
	ps, err := l.planForRuntime(name)
	if err != nil {
		return nil, err
	}
	return newEngine(ps, l.cf)
}

// NewEngineWithSeed 與 NewEngine 相同，但由呼叫端指定初始 seed。
//
// 使用情境：
//   - 可重現的測試：同一份計畫 + 同一個 seed，應產生一致的取樣序列。
//
// 注意：seed 只是「出生入口」。若要在任意時間點完整重現，請使用核心的 Snapshot/Restore。
func (l *Lab) NewEngineWithSeed(name string, seed int64) (*Engine, error) {
	ps, err := l.planForRuntime(name)
	if err != nil {
		return nil, err
	}
	return newEngineWithSeed(ps, l.cf, seed)
}

func (l *Lab) NewSimulator(name string) (*Simulator, error) {
	ps, err := l.planForRuntime(name)
	if err != nil {
		return nil, err
	}
	return newSimulator(ps, l.cf)
}

func (l *Lab) NewSimulatorWithSeed(name string, seed int64) (*Simulator, error) {
	ps, err := l.planForRuntime(name)
	if err != nil {
		return nil, err
	}
	return newSimulatorWithSeed(ps, l.cf, seed)
}

// NewSimulatorByYAML 以外部計畫內容直接建立模擬器（不經過目錄）。
//
// 使用情境：HTTP 端讓呼叫端帶計畫上來做一次性模擬。
func (l *Lab) NewSimulatorByYAML(raw []byte, seed int64) (*Simulator, error) {
	ps, err := plan.GetPlanSettingByYAML(raw)
	if err != nil {
		return nil, err
	}
	return newSimulatorWithSeed(ps, l.cf, seed)
}

func (l *Lab) NewSimulatorByJSON(raw []byte, seed int64) (*Simulator, error) {
	ps, err := plan.GetPlanSettingByJSON(raw)
	if err != nil {
		return nil, err
	}
	return newSimulatorWithSeed(ps, l.cf, seed)
}

func (l *Lab) planForRuntime(name string) (*plan.PlanSetting, error) {
	if !l.frozen {
		return nil, errs.NewFatal("lab is not frozen yet")
	}
	ps, ok := l.PlanByName(name)
	if !ok {
		return nil, errs.NewWarn("plan not found: " + name)
	}
	return ps, nil
}
