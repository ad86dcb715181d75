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
	"io"
	"math"
	"math/big"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/zintix-labs/unirange/errs"
	"github.com/zintix-labs/unirange/plan"
	"github.com/zintix-labs/unirange/recorder"
	"github.com/zintix-labs/unirange/sdk/core"
	"github.com/zintix-labs/unirange/stats"
)

const capPrepare int = 100

// Simulator 用於大量取樣，可建立多台引擎並平行紀錄統計。
type Simulator struct {
	PlanName  string                     // 計畫名稱
	ps        *plan.PlanSetting          // 方便重用建立紀錄員
	cf        core.Factory               // 亂數生成器
	initSeed  int64                      // 初始下的種子
	seedmaker *seedMaker                 // 種子生成器
	eBuf      []*Engine                  // 併發執行引擎實例
	rBuf      [][]*recorder.DrawRecorder // 併發紀錄員（worker × job）
}

func newSimulator(ps *plan.PlanSetting, cf core.Factory) (*Simulator, error) {
	seed, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	if err != nil {
		return nil, err
	}
	return newSimulatorWithSeed(ps, cf, seed.Int64())
}

func newSimulatorWithSeed(ps *plan.PlanSetting, cf core.Factory, seed int64) (*Simulator, error) {
	s := &Simulator{
		PlanName:  ps.PlanName,
		ps:        ps,
		cf:        cf,
		initSeed:  seed,
		seedmaker: newSeedMaker(seed),
		eBuf:      make([]*Engine, 1, capPrepare),
		rBuf:      make([][]*recorder.DrawRecorder, 0, capPrepare),
	}
	e, err := newEngineWithSeed(ps, cf, s.initSeed)
	if err != nil {
		return nil, err
	}
	s.eBuf[0] = e
	return s, nil
}

// InitSeed 回傳模擬器出生時的種子，供報表/重現使用。
func (s *Simulator) InitSeed() int64 {
	return s.initSeed
}

// Sim 單線模擬器：以一台引擎對計畫內每個工作連續取樣指定次數，
// 回傳統計結果與用時
func (s *Simulator) Sim(draws int, showpb bool) (*stats.StatReport, time.Duration, error) {
	defer s.reset()
	if draws < 1 {
		return nil, 0, errs.NewWarn("draws must > 0")
	}
	if len(s.rBuf) == 0 {
		rs, err := s.newRecorderSet()
		if err != nil {
			return nil, 0, err
		}
		s.rBuf = append(s.rBuf, rs)
	}
	rs := s.rBuf[0]
	e := s.eBuf[0]

	bar := pb.StartNew(draws * len(s.ps.Jobs))
	if !showpb {
		bar.SetWriter(io.Discard)
	}
	for j := range s.ps.Jobs {
		isInt := s.ps.Jobs[j].Domain == plan.DomainInt
		r := rs[j]
		for i := 0; i < draws; i++ {
			iv, rv := e.DrawInternal(j)
			if isInt {
				r.RecordInt(iv)
			} else {
				r.RecordReal(rv)
			}
			bar.Increment()
		}
	}
	used := time.Since(bar.StartTime())
	bar.Finish()

	result, err := s.collect([][]*recorder.DrawRecorder{rs}, draws)
	if err != nil {
		return nil, 0, err
	}
	return result, used, nil
}

// SimMP 平行執行多台引擎，每個工作總計 draws*mp 次取樣，
// 合併統計結果後回傳統計結果與用時
func (s *Simulator) SimMP(draws int, mp int, showpb bool) (*stats.StatReport, time.Duration, error) {
	defer s.reset()
	if mp <= 0 {
		return nil, 0, errs.NewWarn("workers must > 0")
	}
	if draws < 1 {
		return nil, 0, errs.NewWarn("draws must > 0")
	}
	for len(s.eBuf) < mp {
		e, err := newEngineWithSeed(s.ps, s.cf, s.seedmaker.next())
		if err != nil {
			return nil, 0, err
		}
		s.eBuf = append(s.eBuf, e)
	}

	for len(s.rBuf) < mp {
		rs, err := s.newRecorderSet()
		if err != nil {
			return nil, 0, err
		}
		s.rBuf = append(s.rBuf, rs)
	}

	wg := new(sync.WaitGroup)
	wg.Add(mp)
	bar := pb.StartNew(draws * mp * len(s.ps.Jobs))
	if !showpb {
		bar.SetWriter(io.Discard)
	}
	for w := 0; w < mp; w++ {
		go func(w int) {
			defer wg.Done()
			e := s.eBuf[w]
			rs := s.rBuf[w]
			for j := range s.ps.Jobs {
				isInt := s.ps.Jobs[j].Domain == plan.DomainInt
				r := rs[j]
				for i := 0; i < draws; i++ {
					iv, rv := e.DrawInternal(j)
					if isInt {
						r.RecordInt(iv)
					} else {
						r.RecordReal(rv)
					}
					bar.Increment()
				}
			}
		}(w)
	}
	wg.Wait()
	used := time.Since(bar.StartTime())
	bar.Finish()

	result, err := s.collect(s.rBuf[:mp], draws*mp)
	if err != nil {
		return nil, 0, err
	}
	return result, used, nil
}

// newRecorderSet 為計畫內每個工作建立一個紀錄員
func (s *Simulator) newRecorderSet() ([]*recorder.DrawRecorder, error) {
	rs := make([]*recorder.DrawRecorder, len(s.ps.Jobs))
	for j := range s.ps.Jobs {
		r, err := recorder.NewDrawRecorder(&s.ps.Jobs[j])
		if err != nil {
			return nil, err
		}
		rs[j] = r
	}
	return rs, nil
}

// collect 逐工作合併各 worker 的紀錄並組出總報表
func (s *Simulator) collect(bufs [][]*recorder.DrawRecorder, draws int) (*stats.StatReport, error) {
	report := &stats.StatReport{
		Summary: &stats.SummaryReport{
			PlanName: s.PlanName,
			Draws:    draws,
		},
		Jobs: make([]*stats.JobReport, len(s.ps.Jobs)),
	}
	for j := range s.ps.Jobs {
		parts := make([]*recorder.DrawRecorder, len(bufs))
		for w := range bufs {
			parts[w] = bufs[w][j]
		}
		merged, err := recorder.MergeDrawRecorder(parts)
		if err != nil {
			return nil, err
		}
		report.Jobs[j] = merged.Done()
	}
	report.Done()
	return report, nil
}

func (s *Simulator) reset() {
	s.rBuf = s.rBuf[:0]
}

const mask63 = uint64(1<<63) - 1

type seedMaker struct {
	state atomic.Uint64 // always in [0, 2^63)
}

func newSeedMaker(seed int64) *seedMaker {
	s := &seedMaker{}
	s.state.Store(uint64(seed) & mask63)
	return s
}

// state 走全週期（不重複），再用可逆 mix63 打散
//
// 注意：此方法可能在併發環境下被多 goroutines 同時呼叫（例如 SimMP）。
// 因此 state 的推進必須是原子的：
//   - 使用 CAS（Compare-And-Swap）迴圈確保每次呼叫都會取得唯一的下一個 state。
//   - 回傳值使用推進後的 state 經 mix63 打散後的結果。
func (s *seedMaker) next() int64 {
	for {
		old := s.state.Load()                                            // always masked
		next := (old*6364136223846793005 + 1442695040888963407) & mask63 // full-period LCG mod 2^63
		if s.state.CompareAndSwap(old, next) {
			return int64(mix63(next)) // 一定非負
		}
	}
}

// mix63：只用「可逆」的 bit 操作 + 乘奇數（mod 2^63）
func mix63(x uint64) uint64 {
	x &= mask63
	x ^= x >> 30
	x = (x * 0xBF58476D1CE4E5B9) & mask63 // 乘奇數 ⇒ mod 2^63 可逆
	x ^= x >> 27
	x = (x * 0x94D049BB133111EB) & mask63
	x ^= x >> 31
	return x & mask63
}
