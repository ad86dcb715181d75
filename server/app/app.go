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

// Package app 提供應用程式生命週期管理（App），統一啟動與關閉多個 Component。
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// 每個 Component 的優雅關閉期限。
const shutdownGrace = 5 * time.Second

// App 啟動所有註冊的 Component，並在收到 OS 信號或任一 Component
// 出錯時協調優雅關閉。註冊順序即關閉順序。
type App struct {
	comps []Component
}

// New 建立空的 App。
func New() *App { return &App{} }

// NewWith 建立 App 並直接註冊多個 Component。
func NewWith(comps ...Component) *App {
	app := New()
	for _, c := range comps {
		app.Register(c)
	}
	return app
}

// Register 註冊一個 Component，Run 時納入管理。
func (a *App) Register(c Component) {
	a.comps = append(a.comps, c)
}

// Run 以 goroutine 並行啟動所有 Component 並阻塞，直到：
//   - 收到 SIGINT/SIGTERM：優雅關閉並回傳 nil（正常結束），或
//   - 任一 Component.Run 返回：優雅關閉並回傳該錯誤。
//
// 前提：每個 Component.Run 都是阻塞呼叫，代表該元件的生命週期。
func (a *App) Run() error {
	// 任一 Component 首次返回的結果；緩衝到元件數，其餘返回不會卡住 goroutine
	firstErr := make(chan error, len(a.comps))
	for _, c := range a.comps {
		go func(c Component) {
			firstErr <- c.Run()
		}(c)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-quit:
		a.shutdownAll(shutdownGrace)
		return nil
	case err := <-firstErr:
		a.shutdownAll(shutdownGrace)
		return err
	}
}

// shutdownAll 在期限內依註冊順序呼叫所有 Component.Shutdown。
// 關閉錯誤不中斷流程，僅印出；是否強制中止由各實作自行決定。
func (a *App) shutdownAll(grace time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	for _, c := range a.comps {
		if err := c.Shutdown(ctx); err != nil {
			fmt.Fprintf(os.Stdout, "shutdown err: %v\n", err)
		}
	}
}
