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

// Package core 提供取樣端所需的亂數來源合約（RAND/PRNG）與預設引擎。
//
// 本套件只定義「位元來源」：上層的區間正規化與封閉區間取樣器
// （sdk/interval、sdk/dist）一律透過 RAND 取得熵，從不檢視或改寫
// 引擎內部狀態。
package core

// PRNG 定義取樣所需的亂數來源，需同時支援取樣與狀態保存/還原。
type PRNG interface {
	RAND
	Restorable
}

// Restorable 定義可快照與還原的狀態介面。
type Restorable interface {
	// Snapshot 回傳可用於還原的序列化狀態。
	Snapshot() ([]byte, error)
	// Restore 依序列化狀態還原 PRNG 內部狀態。
	Restore([]byte) error
}

// RAND 定義核心亂數取樣能力。
//
// 為什麼只要求兩個方法（Uint64 / Float64）？
//
// 1) Uint64 是整數取樣家族唯一需要的原料
//   - 封閉區間整數取樣（sdk/dist.UniformInt）以 64-bit 無偏 bounded
//     generation 實作，任何寬度的目標型別都從 Uint64 裁切。
//   - 32-bit 原生的引擎（例如 PCG32）自行決定如何組出 64-bit 輸出。
//
// 2) Float64 的精度與生成方式應由 PRNG 決定
//   - Float64 通常希望使用 53-bit mantissa 來生成 [0,1)；但有些實作
//     只提供 32-bit 精度或有更快的路徑。
//   - 讓 PRNG 自己提供 Float64，可以明確表達「精度（32-bit vs 53-bit）」
//     與「效能」取捨。
type RAND interface {
	// Uint64 回傳非負 uint64 亂數。
	Uint64() uint64
	// Float64 回傳 [0,1) 的浮點亂數。
	Float64() float64
}

// Factory 亂數引擎工廠。
type Factory interface {
	// New 以指定 seed 建立新的 PRNG。
	//
	// 合約（很重要）：在同一個實作與同一個版本下，New(seed) 必須是
	// 「決定性」的——相同的 seed 必須產生相同的初始內部狀態與輸出序列。
	//
	// 為什麼只保留 New？
	//   - unirange 需要可重現（審計/回放/併發模擬的多引擎派生）。
	//   - seed 的生命週期由上層統一管理：外部未提供時由上層產生並保存
	//     baseSeed，後續所有引擎皆由 baseSeed 以固定算法派生子 seed。
	//   - 因此內部永遠不需要呼叫「不帶 seed 的 New()」，避免行為不一致
	//     與難以重現。
	New(int64) PRNG
}

// DefaultFactory 實作預設的 Factory（PCG64 引擎）。
type DefaultFactory struct{}

// New 滿足合約
func (d *DefaultFactory) New(seed int64) PRNG {
	return newPCG64WithSeed(seed)
}

func NewDefault() *DefaultFactory {
	return &DefaultFactory{}
}

// PCG32Factory 以 PCG32 作為引擎的工廠，給 32-bit 友善的使用情境。
type PCG32Factory struct{}

// New 滿足合約
func (d *PCG32Factory) New(seed int64) PRNG {
	return newPCG32WithSeed(seed)
}

func NewPCG32() *PCG32Factory {
	return &PCG32Factory{}
}
