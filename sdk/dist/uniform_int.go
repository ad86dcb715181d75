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

package dist

import (
	"math/bits"

	"github.com/zintix-labs/unirange/sdk/core"
)

// UniformInt 封閉區間 [lo,hi] 的均勻整數取樣器。
//
// 合約：
//   - 建構時要求 lo <= hi（呼叫端前置條件，不做檢查）。
//   - 每次 Draw 產出的值滿足 lo <= v <= hi，且區間內每個可表示值
//     都有正機率被取到（無偏）。
//   - 除了邊界本身不持有任何狀態；熵一律來自外部的 core.RAND。
type UniformInt[T Integers] struct {
	lo, hi T
	span   uint64 // uint64(hi)-uint64(lo)+1；0 代表完整 64-bit 範圍
}

// NewUniformInt 以閉區間邊界建立取樣器。
//
// span 以 uint64 模算術計算：對任何寬度的有號/無號型別，
// uint64(hi)-uint64(lo) 在二補數表示下都是正確的無號距離。
func NewUniformInt[T Integers](lo, hi T) UniformInt[T] {
	return UniformInt[T]{lo: lo, hi: hi, span: uint64(hi) - uint64(lo) + 1}
}

// Draw 取出一個 [lo,hi] 內的均勻亂數。
func (d UniformInt[T]) Draw(rng core.RAND) T {
	return d.lo + T(randBelow(rng, d.span))
}

// Bounds 回傳取樣器持有的閉區間邊界。
func (d UniformInt[T]) Bounds() (lo, hi T) {
	return d.lo, d.hi
}

// randBelow 回傳 [0,n) 的無偏亂數（基於乘法高位與拒絕採樣）。
//
// n == 0 視為完整 64-bit 範圍（2^64），直接回傳 Uint64。
func randBelow(rng core.RAND, n uint64) uint64 {
	if n == 0 {
		return rng.Uint64()
	}
	if n&(n-1) == 0 { // n is power of two, can mask
		return rng.Uint64() & (n - 1)
	}
	hi, lo := bits.Mul64(rng.Uint64(), n)
	if lo < n {
		thresh := -n % n
		for lo < thresh {
			hi, lo = bits.Mul64(rng.Uint64(), n)
		}
	}
	return hi
}
