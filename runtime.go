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
	"context"
	"crypto/rand"
	"math"
	"math/big"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/zintix-labs/unirange/errs"
)

// DrawRequest 對外取樣請求：以計畫名稱 + 工作名稱路由。
type DrawRequest struct {
	PlanName string `json:"plan_name"`
	JobName  string `json:"job_name"`
}

type DrawRuntime struct {
	// build-time 來源（只讀引用）
	lab *Lab // 方便取計畫目錄/corefactory 與共用一些 helper

	// data-plane：關鍵主池（每個計畫一個 pool）
	pools map[string]*EnginePool
	names []string // 固定順序，用於觀測/列舉（來自 lab.Plans()）

	// lifecycle
	done      chan struct{}
	closeOnce sync.Once
	closed    atomic.Bool
	reason    atomic.Value // string

	// runtime 行為設定（一期先簡單，之後可擴展）
	poolSize int // 每個計畫的池大小（BuildRuntime(n) 的 n）
}

// BuildRuntime 把 Lab 內所有計畫各自組成一個 EnginePool，進入對外服務模式。
func (l *Lab) BuildRuntime(poolSize int) (*DrawRuntime, error) {
	// 1. 進入 runtime 前，目錄必須 Freeze
	l.Freeze()

	names := l.Plans()
	if len(names) == 0 {
		return nil, errs.NewFatal("no plans registered")
	}

	rt := &DrawRuntime{
		lab:      l,
		pools:    make(map[string]*EnginePool, len(names)),
		names:    names,
		done:     make(chan struct{}),
		poolSize: max(1, poolSize),
	}
	rt.reason.Store("")

	// 2. 先全建好（fail-fast + cleanup）
	for _, name := range names {
		ps, ok := l.PlanByName(name)
		if !ok {
			return nil, errs.NewFatal("plan not found: " + name)
		}

		seed, _ := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
		ep, err := newEnginePool(rt.poolSize, ps, l.cf, seed.Int64())
		if err != nil {
			return nil, err
		}
		rt.pools[name] = ep
	}
	return rt, nil
}

func (rt *DrawRuntime) Draw(ctx context.Context, req *DrawRequest) (DrawOut, error) {
	select {
	case <-ctx.Done():
		// 如果通知取消
		return DrawOut{}, errs.NewWarn("draw canceled/timeout: " + ctx.Err().Error())
	case <-rt.done:
		// done is the source of truth; keep a fast boolean for cheap reads/telemetry.
		rt.closed.Store(true)
		return DrawOut{}, errs.NewFatal("draw runtime closed: " + rt.ClosedReason())
	default:
	}

	ep, ok := rt.pools[strings.ToLower(strings.TrimSpace(req.PlanName))]
	if !ok {
		return DrawOut{}, errs.NewWarn("plan name not found")
	}

	// pool 自己會處理 done / close / rebuild / metrics
	return ep.Draw(ctx, req.JobName)
}

// Plans 回傳 runtime 持有的計畫名稱（固定順序）。
func (rt *DrawRuntime) Plans() []string {
	return rt.names
}

// Metrics 回傳每個計畫池的觀測快照（依固定順序）。
func (rt *DrawRuntime) Metrics() []EnginePoolMetrics {
	ms := make([]EnginePoolMetrics, 0, len(rt.names))
	for _, name := range rt.names {
		ms = append(ms, rt.pools[name].Metrics())
	}
	return ms
}

// Close transitions the runtime into a closed state. It is safe to call multiple times.
func (rt *DrawRuntime) Close() {
	rt.closeWithReason("closed")
}

// closeWithReason closes the runtime and records the reason (written once).
func (rt *DrawRuntime) closeWithReason(reason string) {
	rt.closeOnce.Do(func() {
		if reason == "" {
			reason = "closed"
		}
		rt.reason.Store(reason)
		rt.closed.Store(true)
		close(rt.done)
		for _, ep := range rt.pools {
			ep.Close()
		}
	})
}

// Closed reports whether the runtime has been closed.
func (rt *DrawRuntime) Closed() bool {
	return rt.closed.Load()
}

func (rt *DrawRuntime) ClosedReason() string {
	if v := rt.reason.Load(); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
