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

package stats

import (
	"gonum.org/v1/gonum/stat/distuv"
)

// ============================================================
// ** 內部統計函數 **
// ============================================================

// chiSquareUniform 對分桶計數做均勻性的 Pearson 卡方檢定。
//
// 回傳 (卡方統計量, 自由度, p 值)。p 值以 ChiSquared 分布的右尾計算；
// 桶數不足兩個或沒有樣本時自由度為 0、p 值為 1（無從檢定，不視為偏離）。
func chiSquareUniform(counts []int) (x2 float64, df int, p float64) {
	m := len(counts)
	n := 0
	for _, c := range counts {
		n += c
	}
	if m < 2 || n == 0 {
		return 0, 0, 1
	}

	expected := float64(n) / float64(m)
	for _, c := range counts {
		d := float64(c) - expected
		x2 += d * d / expected
	}
	df = m - 1

	dist := distuv.ChiSquared{K: float64(df)}
	p = dist.Survival(x2)
	return x2, df, p
}

// Clopper–Pearson exact CI for binomial proportion (k successes out of n)
func proportionCICP(k int, n int, confidence float64) (pHat float64, ci CI) {
	if n == 0 {
		return 0, CI{0, 1}
	}
	alpha := 1 - confidence
	pHat = float64(k) / float64(n)

	// Beta PPF 映射，處理邊界
	if k == 0 {
		ci.Lo = 0
	} else {
		b := distuv.Beta{Alpha: float64(k), Beta: float64(n - k + 1)}
		ci.Lo = b.Quantile(alpha / 2)
	}
	if k == n {
		ci.Hi = 1
	} else {
		b := distuv.Beta{Alpha: float64(k + 1), Beta: float64(n - k)}
		ci.Hi = b.Quantile(1 - alpha/2)
	}
	return
}
