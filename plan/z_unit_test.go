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

package plan

import (
	"testing"

	"github.com/zintix-labs/unirange/sdk/interval"
)

const demoYAML = `
plan_name: demo
draws: 1000
jobs:
  - name: dice
    domain: int
    interval: "[]"
    a: 1
    b: 6
  - name: index
    domain: int
    interval: "[)"
    a: 0
    b: 10
  - name: weight
    domain: real
    interval: "()"
    a: 0.0
    b: 1.0
`

// TestGetPlanSettingByYAML 驗證 YAML 計畫的載入與初始化
func TestGetPlanSettingByYAML(t *testing.T) {
	ps, err := GetPlanSettingByYAML([]byte(demoYAML))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if ps.PlanName != "demo" || ps.Draws != 1000 || len(ps.Jobs) != 3 {
		t.Fatalf("unexpected plan: %+v", ps)
	}

	dice := ps.Job("dice")
	if dice == nil {
		t.Fatal("job dice not found")
	}
	if dice.Tag() != interval.ClosedClosed || dice.Domain != DomainInt {
		t.Fatalf("dice misparsed: tag=%v domain=%v", dice.Tag(), dice.Domain)
	}
	if a, b := dice.IntBounds(); a != 1 || b != 6 {
		t.Fatalf("dice bounds: (%d,%d)", a, b)
	}

	weight := ps.Job("weight")
	if weight.Tag() != interval.OpenOpen || weight.Domain != DomainReal {
		t.Fatalf("weight misparsed: tag=%v domain=%v", weight.Tag(), weight.Domain)
	}
	if ps.Job("nope") != nil {
		t.Fatal("unknown job should be nil")
	}
}

// TestGetPlanSettingByJSON 驗證 JSON 計畫的載入
func TestGetPlanSettingByJSON(t *testing.T) {
	data := []byte(`{
		"plan_name": "j",
		"draws": 10,
		"jobs": [{"name": "x", "domain": "int", "interval": "(]", "a": 0, "b": 3}]
	}`)
	ps, err := GetPlanSettingByJSON(data)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if ps.Jobs[0].Tag() != interval.OpenClosed {
		t.Fatalf("tag misparsed: %v", ps.Jobs[0].Tag())
	}
}

// TestParseTag 驗證區間字串解析
func TestParseTag(t *testing.T) {
	cases := map[string]interval.Tag{
		"[]": interval.ClosedClosed,
		"[)": interval.ClosedOpen,
		"(]": interval.OpenClosed,
		"()": interval.OpenOpen,
	}
	for s, want := range cases {
		got, err := ParseTag(s)
		if err != nil || got != want {
			t.Errorf("ParseTag(%q) = %v, %v", s, got, err)
		}
	}
	if _, err := ParseTag("[("); err == nil {
		t.Error("expected error for unknown notation")
	}
}

// TestPlanValidation 驗證各種非法設定都被擋下
// 檢查項目: 核心取樣器不做前置條件檢查，所有違規必須在載入期失敗
func TestPlanValidation(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"a > b", `
plan_name: p
draws: 1
jobs:
  - {name: x, domain: int, interval: "[]", a: 5, b: 2}
`},
		{"empty open-open int", `
plan_name: p
draws: 1
jobs:
  - {name: x, domain: int, interval: "()", a: 2, b: 3}
`},
		{"degenerate open real", `
plan_name: p
draws: 1
jobs:
  - {name: x, domain: real, interval: "(]", a: 1.5, b: 1.5}
`},
		{"non-integral int bounds", `
plan_name: p
draws: 1
jobs:
  - {name: x, domain: int, interval: "[]", a: 0.5, b: 2}
`},
		{"infinite real bound", `
plan_name: p
draws: 1
jobs:
  - {name: x, domain: real, interval: "[]", a: 0, b: .inf}
`},
		{"unknown domain", `
plan_name: p
draws: 1
jobs:
  - {name: x, domain: complex, interval: "[]", a: 0, b: 1}
`},
		{"unknown interval", `
plan_name: p
draws: 1
jobs:
  - {name: x, domain: int, interval: "><", a: 0, b: 1}
`},
		{"duplicate job names", `
plan_name: p
draws: 1
jobs:
  - {name: x, domain: int, interval: "[]", a: 0, b: 1}
  - {name: x, domain: int, interval: "[]", a: 0, b: 1}
`},
		{"zero draws", `
plan_name: p
draws: 0
jobs:
  - {name: x, domain: int, interval: "[]", a: 0, b: 1}
`},
		{"empty plan name", `
plan_name: ""
draws: 1
jobs:
  - {name: x, domain: int, interval: "[]", a: 0, b: 1}
`},
		{"empty jobs", `
plan_name: p
draws: 1
jobs: []
`},
	}
	for _, c := range cases {
		if _, err := GetPlanSettingByYAML([]byte(c.yaml)); err == nil {
			t.Errorf("[%s] expected load failure", c.name)
		}
	}
}

// TestDegenerateClosedAllowed 驗證 [x,x] 在兩域都是合法的單點區間
func TestDegenerateClosedAllowed(t *testing.T) {
	data := `
plan_name: p
draws: 1
jobs:
  - {name: i, domain: int, interval: "[]", a: 7, b: 7}
  - {name: r, domain: real, interval: "[]", a: 1.5, b: 1.5}
`
	if _, err := GetPlanSettingByYAML([]byte(data)); err != nil {
		t.Fatalf("degenerate closed interval should load: %v", err)
	}
}

// TestEmptyAfterStepIn 驗證 (a,a+1) 在離散域視為空區間
func TestEmptyAfterStepIn(t *testing.T) {
	data := `
plan_name: p
draws: 1
jobs:
  - {name: x, domain: int, interval: "(]", a: 3, b: 3}
`
	if _, err := GetPlanSettingByYAML([]byte(data)); err == nil {
		t.Fatal("(3,3] should be rejected as empty")
	}
}
