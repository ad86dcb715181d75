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

package unirange

import (
	"crypto/rand"
	"math"
	"math/big"
	"sync"

	"github.com/zintix-labs/unirange/errs"
	"github.com/zintix-labs/unirange/plan"
	"github.com/zintix-labs/unirange/sdk/core"
	"github.com/zintix-labs/unirange/sdk/interval"
)

// DrawOut 單次取樣的對外結果。
//
// Domain 決定讀哪個欄位：int 讀 Int，real 讀 Real。
type DrawOut struct {
	PlanName string  `json:"plan_name"`
	JobName  string  `json:"job_name"`
	Domain   string  `json:"domain"`
	Interval string  `json:"interval"`
	Int      int64   `json:"int"`
	Real     float64 `json:"real"`
}

// jobRunner 把單一工作編譯成可直接取樣的形式。
//
// 邊界轉換在建構時做一次，熱路徑上只剩 delegate 的 Draw。
type jobRunner struct {
	js    *plan.JobSetting
	intS  interval.IntSampler[int64]
	realS interval.RealSampler[float64]
}

// Engine 封裝一台「可對外提供 Draw」的取樣引擎。
//
// 對外：提供 Draw 入口（HTTP/模擬器通常只操作 Engine）。
// 對內：持有 RNG 核心與計畫內每個工作的正規化取樣器。
//
// 並發語意：
//   - 同一台 Engine 以 mutex 保護核心狀態，但熱路徑模擬請使用多台
//     Engine 分散到不同 worker（見 Simulator / EnginePool）。
//
// initseed 用於記錄出生時的 seed（追溯/重現的基礎資訊）；完整審計仍以
// 核心的 Snapshot/Restore 為準。
type Engine struct {
	planName string
	ps       *plan.PlanSetting
	core     core.PRNG
	jobs     []jobRunner
	byName   map[string]int
	mu       sync.Mutex
	initseed int64
}

// newEngine 以「隨機 seed」建立 Engine。
//
// 這裡使用 crypto/rand 產生 seed 是為了在對外服務情境避免可預測 RNG，
// 同時保留可追溯性（seed 會被記錄在 Engine.initseed）。
func newEngine(ps *plan.PlanSetting, cf core.Factory) (*Engine, error) {
	seed, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	if err != nil {
		return nil, errs.Wrap(err, "new crypto seed error in go std lib")
	}
	return newEngineWithSeed(ps, cf, seed.Int64())
}

// newEngineWithSeed 以指定 seed 建立 Engine。
//
// 這是最常用的「可重現」入口：同一份 PlanSetting + 同一個 seed，
// 應能得到一致的取樣序列（取決於核心實作）。
func newEngineWithSeed(ps *plan.PlanSetting, cf core.Factory, seed int64) (*Engine, error) {
	if ps == nil {
		return nil, errs.NewFatal("nil plan setting")
	}
	if cf == nil {
		return nil, errs.NewFatal("core factory required")
	}

	e := &Engine{
		planName: ps.PlanName,
		ps:       ps,
		core:     cf.New(seed),
		jobs:     make([]jobRunner, len(ps.Jobs)),
		byName:   make(map[string]int, len(ps.Jobs)),
		initseed: seed,
	}

	for i := range ps.Jobs {
		js := &ps.Jobs[i]
		jr := jobRunner{js: js}
		switch js.Domain {
		case plan.DomainInt:
			a, b := js.IntBounds()
			jr.intS = interval.NewInt(js.Tag(), a, b)
		case plan.DomainReal:
			a, b := js.RealBounds()
			jr.realS = interval.NewReal(js.Tag(), a, b)
		default:
			return nil, errs.Fatalf("job %s: unknown domain %q", js.Name, js.Domain)
		}
		e.jobs[i] = jr
		e.byName[js.Name] = i
	}
	return e, nil
}

// PlanName 回傳引擎所屬的計畫名稱。
func (e *Engine) PlanName() string {
	return e.planName
}

// Jobs 回傳計畫內的工作設定（唯讀引用）。
func (e *Engine) Jobs() []plan.JobSetting {
	return e.ps.Jobs
}

// Draw 為主要公開入口：依工作名稱取出一個落在指定區間內的值。
func (e *Engine) Draw(jobName string) (DrawOut, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	i, ok := e.byName[jobName]
	if !ok {
		return DrawOut{}, errs.NewWarn("job name not found: " + jobName)
	}

	jr := &e.jobs[i]
	out := DrawOut{
		PlanName: e.planName,
		JobName:  jr.js.Name,
		Domain:   string(jr.js.Domain),
		Interval: jr.js.Interval,
	}
	switch jr.js.Domain {
	case plan.DomainInt:
		out.Int = jr.intS.Draw(e.core)
	case plan.DomainReal:
		out.Real = jr.realS.Draw(e.core)
	}
	return out, nil
}

// DrawInternal 直接以工作索引取樣；常用於模擬器或測試
//
// 請勿在正式環境使用
//
// 此行為跳過名稱查找與鎖，呼叫端必須保證單一 goroutine 存取
func (e *Engine) DrawInternal(i int) (iv int64, rv float64) {
	jr := &e.jobs[i]
	if jr.js.Domain == plan.DomainInt {
		return jr.intS.Draw(e.core), 0
	}
	return 0, jr.realS.Draw(e.core)
}

// SnapshotCore 取得核心狀態暫存 當前僅提供取得核心狀態
func (e *Engine) SnapshotCore() ([]byte, error) {
	return e.core.Snapshot()
}

// RestoreCore 恢復核心狀態暫存 當前僅提供恢復核心狀態
func (e *Engine) RestoreCore(src []byte) error {
	return e.core.Restore(src)
}
