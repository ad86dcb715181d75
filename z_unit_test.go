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

package unirange

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/zintix-labs/unirange/sdk/core"
)

// -----------------------------------------------------------------------------
// Helper Functions
// -----------------------------------------------------------------------------

const demoPlanYAML = `
plan_name: demo
draws: 1000
jobs:
  - {name: dice, domain: int, interval: "[]", a: 1, b: 6}
  - {name: index, domain: int, interval: "[)", a: 0, b: 4}
  - {name: weight, domain: real, interval: "()", a: 0, b: 1}
`

func demoFS() fstest.MapFS {
	return fstest.MapFS{
		"demo.yaml": &fstest.MapFile{Data: []byte(demoPlanYAML)},
	}
}

func newLab(t *testing.T) *Lab {
	t.Helper()
	lab, err := NewAuto(core.NewDefault(), Configs(demoFS()))
	if err != nil {
		t.Fatalf("lab setup failed: %v", err)
	}
	return lab
}

// -----------------------------------------------------------------------------
// Tests for Lab
// -----------------------------------------------------------------------------

// TestLabRegisterAll 驗證掃描註冊與名稱查找
func TestLabRegisterAll(t *testing.T) {
	lab := newLab(t)
	if got := lab.Plans(); len(got) != 1 || got[0] != "demo" {
		t.Fatalf("plans: %v", got)
	}
	if _, ok := lab.PlanByName("Demo"); !ok {
		t.Fatal("plan lookup should be case-insensitive")
	}
	if _, ok := lab.PlanByName("nope"); ok {
		t.Fatal("unknown plan should not resolve")
	}
}

// TestLabRejectsBadSources 驗證組裝階段的 fail-fast 行為
func TestLabRejectsBadSources(t *testing.T) {
	if _, err := New(nil, Configs(demoFS())); err == nil {
		t.Fatal("nil factory should fail")
	}
	if _, err := New(core.NewDefault(), nil); err == nil {
		t.Fatal("no sources should fail")
	}

	dup := fstest.MapFS{
		"a.yaml": &fstest.MapFile{Data: []byte(demoPlanYAML)},
		"b.yaml": &fstest.MapFile{Data: []byte(demoPlanYAML)},
	}
	if _, err := NewAuto(core.NewDefault(), Configs(dup)); err == nil {
		t.Fatal("duplicate plan name should fail")
	}

	nested := fstest.MapFS{
		"sub/a.yaml": &fstest.MapFile{Data: []byte(demoPlanYAML)},
	}
	if _, err := NewAuto(core.NewDefault(), Configs(nested)); err == nil {
		t.Fatal("nested config layout should fail")
	}

	empty := fstest.MapFS{
		"readme.txt": &fstest.MapFile{Data: []byte("x")},
	}
	if _, err := NewAuto(core.NewDefault(), Configs(empty)); err == nil {
		t.Fatal("no recognizable configs should fail")
	}
}

// TestLabFrozenGate 驗證未 Freeze 前不可進入執行階段
func TestLabFrozenGate(t *testing.T) {
	lab, err := New(core.NewDefault(), Configs(demoFS()))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := lab.RegisterAll(); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := lab.NewEngine("demo"); err == nil {
		t.Fatal("engine before freeze should fail")
	}
	lab.Freeze()
	if _, err := lab.NewEngine("demo"); err != nil {
		t.Fatalf("engine after freeze: %v", err)
	}
}

// -----------------------------------------------------------------------------
// Tests for Engine
// -----------------------------------------------------------------------------

// TestEngineDrawBounds 驗證各工作的取樣值落在請求區間內
func TestEngineDrawBounds(t *testing.T) {
	lab := newLab(t)
	e, err := lab.NewEngineWithSeed("demo", 42)
	if err != nil {
		t.Fatalf("engine: %v", err)
	}

	for i := 0; i < 2000; i++ {
		out, err := e.Draw("dice")
		if err != nil {
			t.Fatalf("draw: %v", err)
		}
		if out.Int < 1 || out.Int > 6 {
			t.Fatalf("dice out of [1,6]: %d", out.Int)
		}
		if out.PlanName != "demo" || out.Domain != "int" {
			t.Fatalf("draw meta: %+v", out)
		}
	}
	for i := 0; i < 2000; i++ {
		out, _ := e.Draw("index")
		if out.Int < 0 || out.Int > 3 {
			t.Fatalf("index out of [0,3]: %d", out.Int)
		}
	}
	for i := 0; i < 2000; i++ {
		out, _ := e.Draw("weight")
		if out.Real <= 0 || out.Real > 1 {
			t.Fatalf("weight out of (0,1]: %v", out.Real)
		}
	}

	if _, err := e.Draw("nope"); err == nil {
		t.Fatal("unknown job should fail")
	}
}

// TestEngineReproducible 驗證同計畫同 seed 產生相同序列
func TestEngineReproducible(t *testing.T) {
	lab := newLab(t)
	a, _ := lab.NewEngineWithSeed("demo", 7)
	b, _ := lab.NewEngineWithSeed("demo", 7)
	for i := 0; i < 200; i++ {
		x, _ := a.Draw("dice")
		y, _ := b.Draw("dice")
		if x.Int != y.Int {
			t.Fatalf("sequence diverged at %d: %d vs %d", i, x.Int, y.Int)
		}
	}
}

// TestEngineSnapshotRestore 驗證核心狀態可快照與還原
func TestEngineSnapshotRestore(t *testing.T) {
	lab := newLab(t)
	e, _ := lab.NewEngineWithSeed("demo", 9)

	snap, err := e.SnapshotCore()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	first := make([]int64, 50)
	for i := range first {
		out, _ := e.Draw("dice")
		first[i] = out.Int
	}
	if err := e.RestoreCore(snap); err != nil {
		t.Fatalf("restore: %v", err)
	}
	for i := range first {
		out, _ := e.Draw("dice")
		if out.Int != first[i] {
			t.Fatalf("replay diverged at %d", i)
		}
	}
}

// -----------------------------------------------------------------------------
// Tests for Simulator
// -----------------------------------------------------------------------------

// TestSimulatorSim 驗證單線模擬的報表內容
func TestSimulatorSim(t *testing.T) {
	lab := newLab(t)
	sim, err := lab.NewSimulatorWithSeed("demo", 11)
	if err != nil {
		t.Fatalf("simulator: %v", err)
	}

	report, used, err := sim.Sim(3000, false)
	if err != nil {
		t.Fatalf("sim: %v", err)
	}
	if used <= 0 {
		t.Fatalf("duration: %v", used)
	}
	if report.Summary.PlanName != "demo" || len(report.Jobs) != 3 {
		t.Fatalf("summary: %+v", report.Summary)
	}

	for _, j := range report.Jobs {
		if j.Rounds != 3000 {
			t.Fatalf("job %s rounds: %d", j.JobName, j.Rounds)
		}
		if j.OutOfRange != 0 {
			t.Fatalf("job %s out of range: %d", j.JobName, j.OutOfRange)
		}
		if !j.Uniform {
			t.Errorf("job %s flagged biased: p=%v", j.JobName, j.ChiPValue)
		}
	}

	// dice 為 [1,6]：兩端閉端點在 3000 次後都應被觸及
	dice := report.Jobs[0]
	if !dice.LowerTouched || !dice.UpperTouched {
		t.Fatalf("dice endpoints: lower=%v upper=%v", dice.LowerTouched, dice.UpperTouched)
	}
	// weight 為 (0,1)：下界 0 絕不可被觸及
	weight := report.Jobs[2]
	if weight.LowerTouched {
		t.Fatal("open lower endpoint touched")
	}
	if weight.ObservedMin <= 0 {
		t.Fatalf("observed min not strictly above open bound: %v", weight.ObservedMin)
	}
}

// TestSimulatorSimMP 驗證平行模擬的合併結果
func TestSimulatorSimMP(t *testing.T) {
	lab := newLab(t)
	sim, _ := lab.NewSimulatorWithSeed("demo", 13)

	report, _, err := sim.SimMP(500, 4, false)
	if err != nil {
		t.Fatalf("simmp: %v", err)
	}
	for _, j := range report.Jobs {
		if j.Rounds != 2000 {
			t.Fatalf("job %s merged rounds: %d", j.JobName, j.Rounds)
		}
	}
}

// TestSimulatorParamCheck 驗證非法參數直接擋下
func TestSimulatorParamCheck(t *testing.T) {
	lab := newLab(t)
	sim, _ := lab.NewSimulatorWithSeed("demo", 17)
	if _, _, err := sim.Sim(0, false); err == nil {
		t.Fatal("zero draws should fail")
	}
	if _, _, err := sim.SimMP(100, 0, false); err == nil {
		t.Fatal("zero workers should fail")
	}
}

// TestSeedMakerUnique 驗證種子生成器不重複且非負
func TestSeedMakerUnique(t *testing.T) {
	sm := newSeedMaker(123)
	seen := map[int64]bool{}
	for i := 0; i < 10000; i++ {
		s := sm.next()
		if s < 0 {
			t.Fatalf("negative seed: %d", s)
		}
		if seen[s] {
			t.Fatalf("seed repeated: %d", s)
		}
		seen[s] = true
	}
}

// -----------------------------------------------------------------------------
// Tests for DrawRuntime / EnginePool
// -----------------------------------------------------------------------------

// TestDrawRuntime 驗證 runtime 的路由、關閉與觀測
func TestDrawRuntime(t *testing.T) {
	lab := newLab(t)
	rt, err := lab.BuildRuntime(2)
	if err != nil {
		t.Fatalf("build runtime: %v", err)
	}

	ctx := context.Background()
	out, err := rt.Draw(ctx, &DrawRequest{PlanName: "demo", JobName: "dice"})
	if err != nil {
		t.Fatalf("draw: %v", err)
	}
	if out.Int < 1 || out.Int > 6 {
		t.Fatalf("dice out of range: %d", out.Int)
	}

	if _, err := rt.Draw(ctx, &DrawRequest{PlanName: "nope", JobName: "dice"}); err == nil {
		t.Fatal("unknown plan should fail")
	}
	if _, err := rt.Draw(ctx, &DrawRequest{PlanName: "demo", JobName: "nope"}); err == nil {
		t.Fatal("unknown job should fail")
	}

	ms := rt.Metrics()
	if len(ms) != 1 || ms[0].PlanName != "demo" || ms[0].PoolSize != 2 {
		t.Fatalf("metrics: %+v", ms)
	}

	rt.Close()
	if !rt.Closed() {
		t.Fatal("runtime should report closed")
	}
	if _, err := rt.Draw(ctx, &DrawRequest{PlanName: "demo", JobName: "dice"}); err == nil {
		t.Fatal("draw after close should fail")
	}
}

// TestDrawRuntimeCanceledContext 驗證取消的 context 直接回錯誤
func TestDrawRuntimeCanceledContext(t *testing.T) {
	lab := newLab(t)
	rt, _ := lab.BuildRuntime(1)
	defer rt.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := rt.Draw(ctx, &DrawRequest{PlanName: "demo", JobName: "dice"}); err == nil {
		t.Fatal("canceled context should fail")
	}
}

// TestEnginePoolConcurrent 驗證池在併發借還下不遺失引擎
func TestEnginePoolConcurrent(t *testing.T) {
	lab := newLab(t)
	rt, _ := lab.BuildRuntime(4)
	defer rt.Close()

	done := make(chan struct{})
	for w := 0; w < 8; w++ {
		go func() {
			defer func() { done <- struct{}{} }()
			ctx := context.Background()
			for i := 0; i < 200; i++ {
				if _, err := rt.Draw(ctx, &DrawRequest{PlanName: "demo", JobName: "weight"}); err != nil {
					t.Errorf("draw: %v", err)
					return
				}
			}
		}()
	}
	for w := 0; w < 8; w++ {
		<-done
	}

	m := rt.Metrics()[0]
	if m.Inflight != 0 {
		t.Fatalf("inflight should drain to 0: %+v", m)
	}
	if m.Available != 4 {
		t.Fatalf("all engines should be returned: %+v", m)
	}
}
