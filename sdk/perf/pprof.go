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

package perf

import (
	"os"
	"runtime"
	"runtime/pprof"
)

const pprofDir = "build/profiling" // pprof檔案寫入路徑

// RunPProf 依 mode 包裹 exe 執行並寫出對應 profile。
// mode 為空或未知時直接執行不採樣。
//
// Usage like:
//
//	go run ./cmd/run -p cpu
//	go run ./cmd/run -p heap
func RunPProf(exe func(), mode string) {
	switch mode {
	case "cpu":
		PProfCPU(exe)
	case "heap":
		PProfHeap(exe)
	case "allocs":
		PProfAllocs(exe)
	default:
		exe()
	}
}

// PProfCPU 在 exe 全程開啟 CPU profiling。
// 輸出檔可做性能分析，也可作為 pgo 構建的 blueprint。
// 輸出檔：build/profiling/cpu.pprof
func PProfCPU(exe func()) {
	f := createProfileFile("cpu.pprof")
	defer f.Close()

	if err := pprof.StartCPUProfile(f); err != nil {
		panic("failed to start pprof : " + err.Error())
	}
	defer pprof.StopCPUProfile()

	exe()
}

// PProfHeap 在 exe() 執行完後寫出一次 heap snapshot（in-use memory）。
// 寫出前先 runtime.GC()，讓 live objects 視圖貼近最新狀態。
// 輸出檔：build/profiling/heap.pprof
func PProfHeap(exe func()) {
	exe()

	runtime.GC()

	f := createProfileFile("heap.pprof")
	defer f.Close()
	if err := pprof.WriteHeapProfile(f); err != nil {
		panic("failed to write heap profile : " + err.Error())
	}
}

// PProfAllocs 在 exe() 後寫出累積配置 profile，
// 追蹤整體分配熱點（搭配 -alloc_space / -alloc_objects 查看）。
// 輸出檔：build/profiling/allocs.pprof
func PProfAllocs(exe func()) {
	exe()

	f := createProfileFile("allocs.pprof")
	defer f.Close()
	if prof := pprof.Lookup("allocs"); prof != nil {
		if err := prof.WriteTo(f, 0); err != nil {
			panic("failed to write allocs profile : " + err.Error())
		}
	}
}

func createProfileFile(name string) *os.File {
	if err := os.MkdirAll(pprofDir, 0o755); err != nil {
		panic("failed to create profiling dir : " + err.Error())
	}
	f, err := os.Create(pprofDir + "/" + name)
	if err != nil {
		panic("failed to create " + name + " : " + err.Error())
	}
	return f
}
