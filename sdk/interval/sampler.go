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

package interval

import (
	"github.com/zintix-labs/unirange/sdk/core"
	"github.com/zintix-labs/unirange/sdk/dist"
)

// IntSampler 離散域的正規化取樣器。
//
// 以組合（而非繼承）持有轉換後閉區間的整數 delegate：
// 邊界在建構時計算一次，之後每次 Draw 都直接落在正規化範圍內。
type IntSampler[T dist.Integers] struct {
	d dist.UniformInt[T]
}

// NewInt 依標記與原始邊界 (a,b) 建立離散域取樣器。
//
// 前置條件（不檢查）：a <= b，且轉換後區間非空。
func NewInt[T dist.Integers](tag Tag, a, b T) IntSampler[T] {
	return IntSampler[T]{
		d: dist.NewUniformInt(LowerInt(tag, a, b), UpperInt(tag, a, b)),
	}
}

// Draw 以外部亂數來源取出一個落在原始請求區間內的值。
func (s IntSampler[T]) Draw(rng core.RAND) T {
	return s.d.Draw(rng)
}

// Bounds 回傳轉換後的閉區間邊界 [lower',upper']。
func (s IntSampler[T]) Bounds() (lo, hi T) {
	return s.d.Bounds()
}

// RealSampler 連續域的正規化取樣器。
type RealSampler[T dist.Floaters] struct {
	d dist.UniformReal[T]
}

// NewReal 依標記與原始邊界 (a,b) 建立連續域取樣器。
//
// 前置條件（不檢查）：a <= b，且兩端皆為有限值。
func NewReal[T dist.Floaters](tag Tag, a, b T) RealSampler[T] {
	return RealSampler[T]{
		d: dist.NewUniformReal(LowerReal(tag, a, b), UpperReal(tag, a, b)),
	}
}

// Draw 以外部亂數來源取出一個落在原始請求區間內的值。
func (s RealSampler[T]) Draw(rng core.RAND) T {
	return s.d.Draw(rng)
}

// Bounds 回傳轉換後的閉區間邊界 [lower',upper']。
func (s RealSampler[T]) Bounds() (lo, hi T) {
	return s.d.Bounds()
}

// DrawInt 便利入口：建構即取樣（取樣器本身無狀態，丟棄無成本）。
func DrawInt[T dist.Integers](rng core.RAND, tag Tag, a, b T) T {
	return NewInt(tag, a, b).Draw(rng)
}

// DrawReal 便利入口：建構即取樣。
func DrawReal[T dist.Floaters](rng core.RAND, tag Tag, a, b T) T {
	return NewReal(tag, a, b).Draw(rng)
}
