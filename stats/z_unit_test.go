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
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func demoReport() *StatReport {
	return &StatReport{
		Summary: &SummaryReport{PlanName: "demo", Draws: 400},
		Jobs: []*JobReport{
			{
				JobName:  "dice",
				Domain:   "int",
				Interval: "[]",
				A:        1, B: 4,
				NormLo: 1, NormHi: 4,
				Rounds: 400,
				Bins:   []string{"1", "2", "3", "4"},
				Counts: []int{101, 99, 103, 97},
				Exact:  true,
			},
		},
	}
}

// TestChiSquareUniform 驗證卡方檢定對均勻與偏斜計數的判別
func TestChiSquareUniform(t *testing.T) {
	x2, df, p := chiSquareUniform([]int{100, 98, 102, 100})
	if df != 3 {
		t.Fatalf("df: %d", df)
	}
	if p < 0.5 {
		t.Fatalf("near-uniform counts should have high p, got x2=%v p=%v", x2, p)
	}

	_, _, pBad := chiSquareUniform([]int{400, 0, 0, 0})
	if pBad > 1e-6 {
		t.Fatalf("skewed counts should have tiny p, got %v", pBad)
	}
}

// TestChiSquareDegenerate 驗證無從檢定的輸入回傳 p=1
func TestChiSquareDegenerate(t *testing.T) {
	if _, df, p := chiSquareUniform(nil); df != 0 || p != 1 {
		t.Fatalf("nil counts: df=%d p=%v", df, p)
	}
	if _, df, p := chiSquareUniform([]int{7}); df != 0 || p != 1 {
		t.Fatalf("single bin: df=%d p=%v", df, p)
	}
	if _, df, p := chiSquareUniform([]int{0, 0}); df != 0 || p != 1 {
		t.Fatalf("zero samples: df=%d p=%v", df, p)
	}
}

// TestProportionCICP 驗證 Clopper–Pearson 區間的基本性質
func TestProportionCICP(t *testing.T) {
	hat, ci := proportionCICP(50, 100, 0.95)
	if hat != 0.5 {
		t.Fatalf("pHat: %v", hat)
	}
	if ci.Lo >= hat || ci.Hi <= hat {
		t.Fatalf("CI should bracket pHat: [%v,%v]", ci.Lo, ci.Hi)
	}
	if ci.Lo < 0.39 || ci.Hi > 0.61 {
		t.Fatalf("CI too wide for n=100: [%v,%v]", ci.Lo, ci.Hi)
	}

	// 邊界情形
	if _, ci := proportionCICP(0, 100, 0.95); ci.Lo != 0 {
		t.Fatalf("k=0 lower should be 0: %v", ci.Lo)
	}
	if _, ci := proportionCICP(100, 100, 0.95); ci.Hi != 1 {
		t.Fatalf("k=n upper should be 1: %v", ci.Hi)
	}
	if _, ci := proportionCICP(0, 0, 0.95); ci.Lo != 0 || ci.Hi != 1 {
		t.Fatalf("n=0 should be [0,1]: %+v", ci)
	}
}

// TestStatReportDone 驗證 Done 的頻率計算與均勻判定
func TestStatReportDone(t *testing.T) {
	s := demoReport()
	s.Done()

	j := s.Jobs[0]
	if len(j.Freq) != 4 {
		t.Fatalf("freq: %v", j.Freq)
	}
	if j.Freq[0] != 101.0/400.0 {
		t.Fatalf("freq[0]: %v", j.Freq[0])
	}
	if !j.Uniform {
		t.Fatalf("near-uniform counts flagged as biased: p=%v", j.ChiPValue)
	}
	if j.LowerHitCI.Hi <= j.LowerHitCI.Lo {
		t.Fatalf("endpoint CI degenerate: %+v", j.LowerHitCI)
	}
	if s.Summary.Rounds != 400 || s.Summary.Jobs != 1 {
		t.Fatalf("summary: %+v", s.Summary)
	}

	// Done 應為冪等
	s.Done()
	if s.Summary.Rounds != 400 {
		t.Fatalf("second Done changed summary: %+v", s.Summary)
	}
}

// TestJsonRender 驗證 JSON 輸出可回讀
func TestJsonRender(t *testing.T) {
	s := demoReport()
	var buf bytes.Buffer
	if err := s.WriteWith(&buf, &JsonStatReportRender{}); err != nil {
		t.Fatalf("write: %v", err)
	}
	var back StatReport
	if err := json.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatalf("round trip: %v", err)
	}
	if back.Summary.PlanName != "demo" || back.Jobs[0].JobName != "dice" {
		t.Fatalf("round trip mismatch: %+v", back.Summary)
	}
}

// TestYAMLRender 驗證一維陣列以 flow style 輸出
//
// 報告結構只帶 json tag，yaml.v3 對未標註欄位輸出小寫鍵名。
func TestYAMLRender(t *testing.T) {
	s := demoReport()
	var buf bytes.Buffer
	if err := s.WriteWith(&buf, &YAMLStatReportRender{}); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "planname: demo") {
		t.Fatalf("missing plan name:\n%s", out)
	}
	if !strings.Contains(out, "[101, 99, 103, 97]") {
		t.Fatalf("counts not rendered flow style:\n%s", out)
	}
}
