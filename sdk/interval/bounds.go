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
	"math"
	"unsafe"

	"github.com/zintix-labs/unirange/sdk/dist"
)

// 邊界轉換規則。對任何標記 T 與數值域 D，閉區間
// [Lower*(tag,a,b), Upper*(tag,a,b)] 與 tag 所指定的 (a,b) 區間集合相等：
//
//	[a, b] == [LowerInt(ClosedClosed,a,b), UpperInt(ClosedClosed,a,b)]
//	(a, b) == [LowerInt(OpenOpen,a,b),     UpperInt(OpenOpen,a,b)]
//	[a, b) == [LowerInt(ClosedOpen,a,b),   UpperInt(ClosedOpen,a,b)]
//	(a, b] == [LowerInt(OpenClosed,a,b),   UpperInt(OpenClosed,a,b)]

// LowerInt 回傳離散域的正規化下界：開下界往內一步（a+1），閉下界原樣。
func LowerInt[T dist.Integers](tag Tag, a, b T) T {
	switch tag {
	case OpenClosed, OpenOpen:
		return a + 1
	default:
		return a
	}
}

// UpperInt 回傳離散域的正規化上界：開上界往內一步（b-1），閉上界原樣。
func UpperInt[T dist.Integers](tag Tag, a, b T) T {
	switch tag {
	case ClosedOpen, OpenOpen:
		return b - 1
	default:
		return b
	}
}

// LowerReal 回傳連續域的正規化下界：開下界取「a 朝 b 的下一個可表示
// 浮點值」（最小擾動，於域極值處仍有限），閉下界原樣。
func LowerReal[T dist.Floaters](tag Tag, a, b T) T {
	switch tag {
	case OpenClosed, OpenOpen:
		return nextAfter(a, b)
	default:
		return a
	}
}

// UpperReal 回傳連續域的正規化上界：一律維持 b。
//
// 半開上界（ClosedOpen/OpenOpen）不取 b 的前一個可表示值，而是讓 b
// 留在 delegate 的閉上界上——命中 b 為測度零事件。這個不對稱行為是
// 刻意保留的；改掉它會改變可觀測的取樣範圍。
func UpperReal[T dist.Floaters](tag Tag, a, b T) T {
	return b
}

// nextAfter 回傳 x 朝 y 方向的下一個可表示浮點值。
//
// 必須依 T 的實際寬度選擇 Nextafter32 / Nextafter：
// 在 float64 精度下步進再轉回 float32 會得到 x 本身（步距太小被捨入掉）。
// Sizeof 是編譯期常數，分支會被折疊。
func nextAfter[T dist.Floaters](x, y T) T {
	var zero T
	if unsafe.Sizeof(zero) == 4 {
		return T(math.Nextafter32(float32(x), float32(y)))
	}
	return T(math.Nextafter(float64(x), float64(y)))
}
