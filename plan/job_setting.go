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
	"fmt"
	"math"

	"github.com/zintix-labs/unirange/errs"
	"github.com/zintix-labs/unirange/sdk/interval"
)

// Domain 指定單一工作的數值域。
type Domain string

const (
	DomainInt  Domain = "int"  // 離散域，邊界視為 int64
	DomainReal Domain = "real" // 連續域，邊界視為 float64
)

// Valid 回報 d 是否為已定義的數值域。
func (d Domain) Valid() bool {
	return d == DomainInt || d == DomainReal
}

var tagNameMap = map[string]interval.Tag{
	"[]": interval.ClosedClosed,
	"[)": interval.ClosedOpen,
	"(]": interval.OpenClosed,
	"()": interval.OpenOpen,
}

// ParseTag 把設定檔中的區間字串（"[]" / "[)" / "(]" / "()"）解析成標記。
// 核心套件本身不處理字串，字串形式只存在於設定與 API 邊界。
func ParseTag(s string) (interval.Tag, error) {
	if tag, ok := tagNameMap[s]; ok {
		return tag, nil
	}
	return 0, errs.Warnf("unknown interval notation: %q", s)
}

// JobSetting 描述一個取樣工作：在指定數值域上，依區間慣例 (a,b) 均勻取樣。
type JobSetting struct {
	Name     string  `yaml:"name"     json:"name"`
	Domain   Domain  `yaml:"domain"   json:"domain"`
	Interval string  `yaml:"interval" json:"interval"`
	A        float64 `yaml:"a"        json:"a"`
	B        float64 `yaml:"b"        json:"b"`

	tag interval.Tag
}

// init 解析區間字串並執行邊界檢查。核心取樣器不做任何前置條件檢查，
// 所有違規都必須在這裡擋下來。
func (js *JobSetting) init() error {
	if js.Name == "" {
		return errs.NewFatal("empty job name")
	}
	if !js.Domain.Valid() {
		return errs.Fatalf("job %s: unknown domain %q", js.Name, js.Domain)
	}

	tag, err := ParseTag(js.Interval)
	if err != nil {
		return errs.Wrap(err, fmt.Sprintf("job %s", js.Name))
	}
	js.tag = tag

	return js.validBounds()
}

// validBounds 檢查 a <= b、有限性，以及轉換後區間非空。
func (js *JobSetting) validBounds() error {
	if math.IsNaN(js.A) || math.IsNaN(js.B) ||
		math.IsInf(js.A, 0) || math.IsInf(js.B, 0) {
		return errs.Fatalf("job %s: bounds must be finite, got a=%v b=%v", js.Name, js.A, js.B)
	}
	if js.A > js.B {
		return errs.Fatalf("job %s: a > b (%v > %v)", js.Name, js.A, js.B)
	}

	switch js.Domain {
	case DomainInt:
		if js.A != math.Trunc(js.A) || js.B != math.Trunc(js.B) {
			return errs.Fatalf("job %s: int domain requires integral bounds, got a=%v b=%v", js.Name, js.A, js.B)
		}
		a, b := int64(js.A), int64(js.B)
		lo := interval.LowerInt(js.tag, a, b)
		hi := interval.UpperInt(js.tag, a, b)
		if lo > hi {
			return errs.Fatalf("job %s: interval %s%v,%v%s is empty after normalization",
				js.Name, string(js.Interval[0]), js.A, js.B, string(js.Interval[1]))
		}
	case DomainReal:
		// 任一開端點都要求 a < b，否則正規化後為空或退化為測度零集合。
		if js.tag != interval.ClosedClosed && js.A == js.B {
			return errs.Fatalf("job %s: interval %q requires a < b on real domain", js.Name, js.Interval)
		}
	}
	return nil
}

// Tag 回傳解析後的區間標記。僅在 init 成功後有效。
func (js *JobSetting) Tag() interval.Tag {
	return js.tag
}

// IntBounds 回傳離散域的原始邊界 (a,b)。
func (js *JobSetting) IntBounds() (a, b int64) {
	return int64(js.A), int64(js.B)
}

// RealBounds 回傳連續域的原始邊界 (a,b)。
func (js *JobSetting) RealBounds() (a, b float64) {
	return js.A, js.B
}
