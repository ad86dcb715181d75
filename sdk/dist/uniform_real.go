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
	"github.com/zintix-labs/unirange/sdk/core"
)

// UniformReal 封閉區間 [lo,hi] 的均勻浮點取樣器。
//
// 合約：
//   - 建構時要求 lo <= hi（呼叫端前置條件，不做檢查）。
//   - 每次 Draw 產出的值滿足 lo <= v <= hi。
//   - hi 本身只會經由捨入命中（測度零事件）；下層 Float64 為 [0,1)。
type UniformReal[T Floaters] struct {
	lo, hi T
}

// NewUniformReal 以閉區間邊界建立取樣器。
func NewUniformReal[T Floaters](lo, hi T) UniformReal[T] {
	return UniformReal[T]{lo: lo, hi: hi}
}

// Draw 取出一個 [lo,hi] 內的均勻亂數。
//
// 使用凸組合 lo*(1-f)+hi*f 而非 lo+f*(hi-lo)：
// 後者的 (hi-lo) 在極端邊界（如 ±MaxFloat64）會溢位成 +Inf，
// 凸組合則全程有限。捨入可能讓結果貼到邊界外側，因此兩側都夾住。
func (d UniformReal[T]) Draw(rng core.RAND) T {
	f := T(rng.Float64())
	v := d.lo*(1-f) + d.hi*f
	if v < d.lo {
		v = d.lo
	}
	if v > d.hi {
		v = d.hi
	}
	return v
}

// Bounds 回傳取樣器持有的閉區間邊界。
func (d UniformReal[T]) Bounds() (lo, hi T) {
	return d.lo, d.hi
}
