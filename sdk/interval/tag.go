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

// Package interval 是「uniform in range」的正規化核心。
//
// 呼叫端以四種區間慣例之一指定取樣範圍：
//
//	[a,b]  ClosedClosed
//	[a,b)  ClosedOpen
//	(a,b]  OpenClosed
//	(a,b)  OpenOpen
//
// 本套件把任一慣例的 (a,b) 轉換成等價的閉區間 [lower',upper']，
// 再交給 sdk/dist 的封閉區間取樣器。轉換規則（數值域 × 標記）：
//
//	離散域：開端點以「往內一步」排除（a+1 / b-1）。
//	連續域：開下界以「朝 b 的下一個可表示浮點值」排除（最小擾動）；
//	        上界一律維持 b——半開上界以 b 仍為閉上界近似，
//	        命中 b 為測度零事件。此不對稱為刻意保留的行為。
//
// 前置條件（不檢查、違反即為未定義結果）：
//   - a <= b 由呼叫端保證。
//   - 轉換後區間不可為空（例如離散域 OpenOpen 且 b == a+1）。
//
// 數值域的判別發生在編譯期：整數型別走 dist.Integers 約束、
// 浮點型別走 dist.Floaters 約束，其他型別無法編譯。
package interval

// Tag 區間慣例標記。純粹的分派鍵，不攜帶資料。
type Tag uint8

const (
	ClosedClosed Tag = iota // [a,b]
	ClosedOpen              // [a,b)
	OpenClosed              // (a,b]
	OpenOpen                // (a,b)
)

var tagStrMap = map[Tag]string{
	ClosedClosed: "[]",
	ClosedOpen:   "[)",
	OpenClosed:   "(]",
	OpenOpen:     "()",
}

// String 回傳標記的短字串形式（"[]" / "[)" / "(]" / "()"）。
func (t Tag) String() string {
	if s, ok := tagStrMap[t]; ok {
		return s
	}
	return "invalid"
}

// Valid 回報 t 是否為四個已定義標記之一。
func (t Tag) Valid() bool {
	_, ok := tagStrMap[t]
	return ok
}
