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

package recorder

import (
	"fmt"
	"math"

	"github.com/zintix-labs/unirange/errs"
	"github.com/zintix-labs/unirange/plan"
	"github.com/zintix-labs/unirange/sdk/interval"
	"github.com/zintix-labs/unirange/stats"
)

const (
	// 離散域逐值計數的跨度上限，超過改用等寬直方圖
	maxExactSpan = 512
	// 直方圖分桶數
	histogramBins = 64
)

// DrawRecorder 取樣紀錄員
//
// DrawRecorder 負責紀錄單一工作的取樣落點，並透過Done輸出統計報表
type DrawRecorder struct {
	JobName  string
	Domain   plan.Domain
	Notation string
	Tag      interval.Tag
	A, B     float64

	// 轉換後的閉區間邊界（離散域以 int64 精確保存）
	NormLo, NormHi float64
	intLo, intHi   int64
	exact          bool
	span           uint64 // 0 代表 2^64

	counts       []int
	rounds       int
	outOfRange   int
	observedMin  float64
	observedMax  float64
	lowerTouched bool // 觀測到 v == A
	upperTouched bool // 觀測到 v == B
	seen         bool
}

func NewDrawRecorder(js *plan.JobSetting) (*DrawRecorder, error) {
	r := new(DrawRecorder)

	if js == nil {
		return r, errs.NewFatal("nil job setting")
	}
	if !js.Tag().Valid() {
		return r, errs.NewFatal(fmt.Sprintf("job %s: invalid interval tag", js.Name))
	}

	// 通過valid
	r.JobName = js.Name
	r.Domain = js.Domain
	r.Notation = js.Interval
	r.Tag = js.Tag()
	r.A = js.A
	r.B = js.B

	switch js.Domain {
	case plan.DomainInt:
		a, b := js.IntBounds()
		r.intLo = interval.LowerInt(r.Tag, a, b)
		r.intHi = interval.UpperInt(r.Tag, a, b)
		r.NormLo = float64(r.intLo)
		r.NormHi = float64(r.intHi)
		r.span = uint64(r.intHi) - uint64(r.intLo) + 1
		r.exact = r.span != 0 && r.span <= maxExactSpan
		if r.exact {
			r.counts = make([]int, r.span)
		} else {
			r.counts = make([]int, histogramBins)
		}
	case plan.DomainReal:
		a, b := js.RealBounds()
		r.NormLo = interval.LowerReal(r.Tag, a, b)
		r.NormHi = interval.UpperReal(r.Tag, a, b)
		r.counts = make([]int, histogramBins)
	default:
		return r, errs.NewFatal(fmt.Sprintf("job %s: unknown domain %q", js.Name, js.Domain))
	}

	return r, nil
}

func MergeDrawRecorder(r []*DrawRecorder) (*DrawRecorder, error) {
	if len(r) == 0 {
		return nil, errs.NewFatal("merge draw record err : empty input")
	}
	r0 := r[0]
	s := new(DrawRecorder)
	*s = *r0
	s.counts = make([]int, len(r0.counts))
	s.rounds = 0
	s.outOfRange = 0
	s.seen = false
	s.lowerTouched = false
	s.upperTouched = false

	for _, v := range r {
		if v.JobName != r0.JobName {
			return s, errs.NewFatal("merge draw record err : different job name")
		}
		if v.Domain != r0.Domain || v.Notation != r0.Notation {
			return s, errs.NewFatal("merge draw record err : different job shape")
		}
		if v.A != r0.A || v.B != r0.B {
			return s, errs.NewFatal("merge draw record err : different bounds")
		}

		for i := range v.counts {
			s.counts[i] += v.counts[i]
		}
		s.rounds += v.rounds
		s.outOfRange += v.outOfRange
		s.lowerTouched = s.lowerTouched || v.lowerTouched
		s.upperTouched = s.upperTouched || v.upperTouched

		if v.seen {
			if !s.seen || v.observedMin < s.observedMin {
				s.observedMin = v.observedMin
			}
			if !s.seen || v.observedMax > s.observedMax {
				s.observedMax = v.observedMax
			}
			s.seen = true
		}
	}
	return s, nil
}

// RecordInt 紀錄一次離散域取樣
func (r *DrawRecorder) RecordInt(v int64) {
	r.rounds++

	// 界外值只進 OutOfRange，不參與觸及旗標與 min/max
	if v < r.intLo || v > r.intHi {
		r.outOfRange++
		return
	}
	r.touch(float64(v))
	if r.exact {
		r.counts[uint64(v)-uint64(r.intLo)]++
		return
	}
	r.counts[r.intBin(v)]++
}

// RecordReal 紀錄一次連續域取樣
func (r *DrawRecorder) RecordReal(v float64) {
	r.rounds++

	if v < r.NormLo || v > r.NormHi {
		r.outOfRange++
		return
	}
	r.touch(v)
	r.counts[r.realBin(v)]++
}

// Rounds 回傳已紀錄的取樣次數
func (r *DrawRecorder) Rounds() int {
	return r.rounds
}

func (r *DrawRecorder) Done() *stats.JobReport {
	report := &stats.JobReport{
		JobName:      r.JobName,
		Domain:       string(r.Domain),
		Interval:     r.Notation,
		A:            r.A,
		B:            r.B,
		NormLo:       r.NormLo,
		NormHi:       r.NormHi,
		Rounds:       r.rounds,
		Bins:         r.binLabels(),
		Counts:       r.counts,
		Exact:        r.exact,
		ObservedMin:  r.observedMin,
		ObservedMax:  r.observedMax,
		LowerTouched: r.lowerTouched,
		UpperTouched: r.upperTouched,
		OutOfRange:   r.outOfRange,
	}
	return report
}

// ============================================================
// ** 內部方法 **
// ============================================================

func (r *DrawRecorder) touch(v float64) {
	if !r.seen {
		r.observedMin = v
		r.observedMax = v
		r.seen = true
	} else {
		if v < r.observedMin {
			r.observedMin = v
		}
		if v > r.observedMax {
			r.observedMax = v
		}
	}
	if v == r.A {
		r.lowerTouched = true
	}
	if v == r.B {
		r.upperTouched = true
	}
}

// intBin 把寬跨度的離散值映射到等寬直方圖桶
func (r *DrawRecorder) intBin(v int64) int {
	offset := uint64(v) - uint64(r.intLo)
	denom := float64(r.span)
	if r.span == 0 {
		denom = math.Pow(2, 64)
	}
	idx := int(float64(offset) / denom * histogramBins)
	if idx >= histogramBins {
		idx = histogramBins - 1
	}
	return idx
}

// realBin 把連續值映射到等寬直方圖桶
func (r *DrawRecorder) realBin(v float64) int {
	w := r.NormHi - r.NormLo
	if w <= 0 {
		return 0
	}
	// 極端跨度下 (v-lo)/w 可能溢位，改以半分避免
	f := (v/w - r.NormLo/w)
	idx := int(f * histogramBins)
	if idx < 0 {
		idx = 0
	}
	if idx >= histogramBins {
		idx = histogramBins - 1
	}
	return idx
}

func (r *DrawRecorder) binLabels() []string {
	labels := make([]string, len(r.counts))
	if r.exact {
		for i := range labels {
			labels[i] = fmt.Sprintf("%d", r.intLo+int64(i))
		}
		return labels
	}
	w := (r.NormHi - r.NormLo) / float64(len(labels))
	for i := range labels {
		lo := r.NormLo + float64(i)*w
		labels[i] = fmt.Sprintf("[%.4g,%.4g)", lo, lo+w)
	}
	if n := len(labels); n > 0 {
		labels[n-1] = fmt.Sprintf("[%.4g,%.4g]", r.NormHi-w, r.NormHi)
	}
	return labels
}
