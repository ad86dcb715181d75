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
	"testing"

	"github.com/zintix-labs/unirange/sdk/core"
)

// -----------------------------------------------------------------------------
// Helper Functions
// -----------------------------------------------------------------------------

// setEqual 驗證觀測集合與期望集合完全一致
func setEqual[T comparable](t *testing.T, name string, got map[T]bool, want []T) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("[%s] expected %d distinct values, observed %d: %v", name, len(want), len(got), got)
	}
	for _, v := range want {
		if !got[v] {
			t.Fatalf("[%s] expected value %v never observed", name, v)
		}
	}
}

// -----------------------------------------------------------------------------
// Tests for Tag
// -----------------------------------------------------------------------------

// TestTagString 驗證四種標記的短字串形式與合法性判斷
func TestTagString(t *testing.T) {
	cases := []struct {
		tag  Tag
		want string
	}{
		{ClosedClosed, "[]"},
		{ClosedOpen, "[)"},
		{OpenClosed, "(]"},
		{OpenOpen, "()"},
	}
	for _, c := range cases {
		if got := c.tag.String(); got != c.want {
			t.Errorf("Tag(%d).String() = %q, want %q", c.tag, got, c.want)
		}
		if !c.tag.Valid() {
			t.Errorf("Tag(%d) should be valid", c.tag)
		}
	}
	if Tag(9).Valid() {
		t.Errorf("Tag(9) should be invalid")
	}
	if got := Tag(9).String(); got != "invalid" {
		t.Errorf("Tag(9).String() = %q", got)
	}
}

// -----------------------------------------------------------------------------
// Tests for Discrete Bounds
// -----------------------------------------------------------------------------

// TestIntBoundsTable 驗證離散域四種標記的邊界轉換表
// 檢查項目: a=2, b=5 時
//
//	[2,5] -> [2,5]
//	[2,5) -> [2,4]
//	(2,5] -> [3,5]
//	(2,5) -> [3,4]
func TestIntBoundsTable(t *testing.T) {
	cases := []struct {
		tag    Tag
		lo, hi int
	}{
		{ClosedClosed, 2, 5},
		{ClosedOpen, 2, 4},
		{OpenClosed, 3, 5},
		{OpenOpen, 3, 4},
	}
	for _, c := range cases {
		lo := LowerInt(c.tag, 2, 5)
		hi := UpperInt(c.tag, 2, 5)
		if lo != c.lo || hi != c.hi {
			t.Errorf("%s(2,5): got [%d,%d], want [%d,%d]", c.tag, lo, hi, c.lo, c.hi)
		}
	}
}

// TestIntBoundsNarrowTypes 驗證窄型別在型別極值處不回繞
// 檢查項目: 閉端點在 MinInt8/MaxUint8 原樣保留，內縮只發生在開端點
func TestIntBoundsNarrowTypes(t *testing.T) {
	if lo := LowerInt[int8](ClosedClosed, math.MinInt8, 0); lo != math.MinInt8 {
		t.Errorf("closed lower at MinInt8: got %d", lo)
	}
	if lo := LowerInt[int8](OpenClosed, math.MinInt8, 0); lo != math.MinInt8+1 {
		t.Errorf("open lower at MinInt8: got %d", lo)
	}
	if hi := UpperInt[uint8](ClosedClosed, 0, math.MaxUint8); hi != math.MaxUint8 {
		t.Errorf("closed upper at MaxUint8: got %d", hi)
	}
	if hi := UpperInt[uint8](ClosedOpen, 0, math.MaxUint8); hi != math.MaxUint8-1 {
		t.Errorf("open upper at MaxUint8: got %d", hi)
	}
	if lo := LowerInt[int64](ClosedClosed, math.MinInt64, math.MaxInt64); lo != math.MinInt64 {
		t.Errorf("closed lower at MinInt64: got %d", lo)
	}
	if hi := UpperInt[int64](ClosedClosed, math.MinInt64, math.MaxInt64); hi != math.MaxInt64 {
		t.Errorf("closed upper at MaxInt64: got %d", hi)
	}
}

// TestIntSamplerExhaustive 驗證離散取樣的可觀測集合恰為標記所指定的集合
// 檢查項目: a=0, b=3，四種標記的觀測集合
//
//	[0,3] -> {0,1,2,3}
//	[0,3) -> {0,1,2}
//	(0,3] -> {1,2,3}
//	(0,3) -> {1,2}
func TestIntSamplerExhaustive(t *testing.T) {
	cases := []struct {
		tag  Tag
		want []int
	}{
		{ClosedClosed, []int{0, 1, 2, 3}},
		{ClosedOpen, []int{0, 1, 2}},
		{OpenClosed, []int{1, 2, 3}},
		{OpenOpen, []int{1, 2}},
	}
	factory := core.NewDefault()
	for i, c := range cases {
		rng := factory.New(int64(100 + i))
		s := NewInt(c.tag, 0, 3)
		seen := map[int]bool{}
		for n := 0; n < 4096; n++ {
			seen[s.Draw(rng)] = true
		}
		setEqual(t, c.tag.String(), seen, c.want)
	}
}

// -----------------------------------------------------------------------------
// Tests for Continuous Bounds
// -----------------------------------------------------------------------------

// TestRealBoundsTable 驗證連續域的邊界轉換
// 檢查項目: 開下界取 a 朝 b 的下一個可表示值；上界一律維持 b
func TestRealBoundsTable(t *testing.T) {
	const a, b = 1.0, 2.0
	step := math.Nextafter(a, b)

	cases := []struct {
		tag    Tag
		lo, hi float64
	}{
		{ClosedClosed, a, b},
		{ClosedOpen, a, b},
		{OpenClosed, step, b},
		{OpenOpen, step, b},
	}
	for _, c := range cases {
		lo := LowerReal(c.tag, a, b)
		hi := UpperReal(c.tag, a, b)
		if lo != c.lo || hi != c.hi {
			t.Errorf("%s(%v,%v): got [%v,%v], want [%v,%v]", c.tag, a, b, lo, hi, c.lo, c.hi)
		}
	}
	if step <= a {
		t.Fatalf("nextafter step not strictly greater: %v", step)
	}
}

// TestRealBoundsMinimalPerturbation 驗證開下界的內縮恰為一個 ULP
// 檢查項目: LowerReal 與 a 之間不存在其他可表示值
func TestRealBoundsMinimalPerturbation(t *testing.T) {
	a, b := 1.0, 2.0
	lo := LowerReal(OpenOpen, a, b)
	if back := math.Nextafter(lo, a); back != a {
		t.Fatalf("lower bound is not adjacent to a: %v steps back to %v", lo, back)
	}
}

// TestRealBoundsFloat32 驗證 float32 的步進使用 32 位元精度
// 檢查項目: 結果必須嚴格大於 a（在 float64 精度下步進會被捨入回 a）
func TestRealBoundsFloat32(t *testing.T) {
	var a, b float32 = 1, 2
	lo := LowerReal(OpenClosed, a, b)
	if lo <= a {
		t.Fatalf("float32 open lower not strictly greater: %v", lo)
	}
	if want := math.Nextafter32(a, b); lo != want {
		t.Fatalf("float32 step mismatch: got %v, want %v", lo, want)
	}
}

// TestRealBoundsExtremes 驗證域極值處的轉換仍為有限值
func TestRealBoundsExtremes(t *testing.T) {
	lo := LowerReal(OpenClosed, -math.MaxFloat64, 0)
	if math.IsInf(lo, 0) || lo <= -math.MaxFloat64 {
		t.Fatalf("open lower at -MaxFloat64: got %v", lo)
	}
	hi := UpperReal(ClosedOpen, 0, math.MaxFloat64)
	if hi != math.MaxFloat64 {
		t.Fatalf("upper at MaxFloat64: got %v", hi)
	}
}

// TestRealSamplerSidedness 驗證開下界取樣值嚴格大於 a
func TestRealSamplerSidedness(t *testing.T) {
	rng := core.NewDefault().New(200)
	s := NewReal(OpenClosed, 1.0, 2.0)
	lo, hi := s.Bounds()
	if lo != math.Nextafter(1, 2) || hi != 2 {
		t.Fatalf("bounds mismatch: [%v,%v]", lo, hi)
	}
	for i := 0; i < 100000; i++ {
		v := s.Draw(rng)
		if v <= 1.0 || v > 2.0 {
			t.Fatalf("value violates (1,2]: %v", v)
		}
	}
}

// -----------------------------------------------------------------------------
// Tests for Samplers / Convenience Entrypoints
// -----------------------------------------------------------------------------

// TestDrawTypeRouting 驗證各數值型別都能經由泛型約束正確分派
// 注意: 非數值型別（如 string）直接無法通過編譯，
// 例如 DrawInt[string](...) 會在編譯期被 dist.Integers 約束拒絕。
func TestDrawTypeRouting(t *testing.T) {
	rng := core.NewDefault().New(300)

	if v := DrawInt(rng, ClosedClosed, int8(-5), int8(5)); v < -5 || v > 5 {
		t.Errorf("int8 out of range: %d", v)
	}
	if v := DrawInt(rng, OpenOpen, int16(0), int16(10)); v < 1 || v > 9 {
		t.Errorf("int16 out of range: %d", v)
	}
	if v := DrawInt(rng, ClosedOpen, uint32(0), uint32(10)); v > 9 {
		t.Errorf("uint32 out of range: %d", v)
	}
	if v := DrawInt(rng, OpenClosed, uint64(0), uint64(10)); v < 1 || v > 10 {
		t.Errorf("uint64 out of range: %d", v)
	}
	if v := DrawInt(rng, ClosedClosed, uintptr(0), uintptr(4)); v > 4 {
		t.Errorf("uintptr out of range: %d", v)
	}
	if v := DrawReal(rng, ClosedClosed, float32(0), float32(1)); v < 0 || v > 1 {
		t.Errorf("float32 out of range: %v", v)
	}
	if v := DrawReal(rng, OpenOpen, 0.0, 1.0); v <= 0 || v > 1 {
		t.Errorf("float64 out of range: %v", v)
	}
}

// TestNamedTypeRouting 驗證自訂底層型別同樣可用（~ 約束）
func TestNamedTypeRouting(t *testing.T) {
	type coins int32
	type weight float64

	rng := core.NewDefault().New(301)
	if v := DrawInt(rng, ClosedClosed, coins(1), coins(6)); v < 1 || v > 6 {
		t.Errorf("named int out of range: %d", v)
	}
	if v := DrawReal(rng, OpenClosed, weight(0), weight(1)); v <= 0 || v > 1 {
		t.Errorf("named float out of range: %v", v)
	}
}

// TestClosedClosedIdempotent 驗證 [] 標記在兩域皆為恆等轉換
func TestClosedClosedIdempotent(t *testing.T) {
	if lo, hi := LowerInt(ClosedClosed, -7, 7), UpperInt(ClosedClosed, -7, 7); lo != -7 || hi != 7 {
		t.Errorf("discrete identity broken: [%d,%d]", lo, hi)
	}
	if lo, hi := LowerReal(ClosedClosed, -1.5, 1.5), UpperReal(ClosedClosed, -1.5, 1.5); lo != -1.5 || hi != 1.5 {
		t.Errorf("continuous identity broken: [%v,%v]", lo, hi)
	}
}
