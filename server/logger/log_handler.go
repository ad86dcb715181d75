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

// Package logger 組裝本專案的 slog 輸出。
//
// 兩種注入方式：
//
//	(A) 直接拿 *slog.Logger：NewDefaultLogger / NewDefaultAsyncLogger（最常用）。
//	(B) 自行組裝 slog.Handler（JSON/Text/ReplaceAttr/LevelVar...）再交給 NewLogger，
//	    或用 NewAsyncHandler 把任何 Handler 變成非阻塞版本。
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
)

// enum LogMode
type LogMode uint8

const (
	ModeDev LogMode = iota
	ModeProd
	ModeSilence
)

const defaultAsyncBuf = 8192

// NewDefaultLogger 依 LogMode 組出同步 *slog.Logger。
func NewDefaultLogger(mode LogMode) *slog.Logger {
	return slog.New(buildHandler(mode))
}

// NewDefaultAsyncLogger 依 LogMode 組出非阻塞 *slog.Logger。
// 拿不到 *AsyncHandler 句柄，不在意 drop 數與手動 Close 時用這個。
func NewDefaultAsyncLogger(mode LogMode) *slog.Logger {
	return slog.New(NewAsyncHandler(buildHandler(mode), defaultAsyncBuf))
}

// NewLogger 把呼叫者自組的 Handler 包成 *slog.Logger。nil 退回 ModeDev 預設。
func NewLogger(h slog.Handler) *slog.Logger {
	if h == nil {
		h = buildHandler(ModeDev)
	}
	return slog.New(h)
}

// NewAsync 依 LogMode 組出非阻塞 logger，並回傳 AsyncHandler 句柄
// （供 Ready/Dropped/Close）。server 組裝層的標準入口。
func NewAsync(buf int, mode LogMode) (*slog.Logger, *AsyncHandler) {
	ah := NewAsyncHandler(buildHandler(mode), buf)
	return slog.New(ah), ah
}

// ============================================================
// ** AsyncHandler **
// ============================================================

// AsyncHandler 讓任何 slog.Handler 變成非阻塞：
// Handle 只做 enqueue，背景 goroutine 逐筆寫出；隊列滿採 drop 策略，
// 把 I/O 延遲擋在請求路徑之外。
//
// 仍是標準 slog.Handler，WithAttrs/WithGroup 照常組合（共享同一條 pump）。
// slog.Logger 會忽略 Handle 的回傳錯誤；要處理 I/O error 得在 next handler 內自行包裝。
type AsyncHandler struct {
	next slog.Handler
	pump *logPump
}

// logPump 是 AsyncHandler 家族共用的單一背景寫出通道。
type logPump struct {
	queue   chan pumpItem
	closed  chan struct{}
	once    sync.Once
	wg      sync.WaitGroup
	dropped atomic.Uint64 // 因隊列滿而丟棄的筆數，可用於觀測/告警
}

type pumpItem struct {
	ctx context.Context
	rec slog.Record
	h   slog.Handler
}

// NewAsyncHandler 把 next 包進背景 pump。buf 越大越不易 drop，
// 代價是記憶體與 shutdown drain 時間。
func NewAsyncHandler(next slog.Handler, buf int) *AsyncHandler {
	if next == nil {
		next = buildHandler(ModeDev)
	}
	if buf <= 0 {
		buf = 1024
	}

	p := &logPump{
		queue:  make(chan pumpItem, buf),
		closed: make(chan struct{}),
	}
	p.wg.Add(1)
	go p.run()

	return &AsyncHandler{next: next, pump: p}
}

func (h *AsyncHandler) Ready() bool {
	return h != nil && h.pump != nil
}

// Dropped 回傳因隊列滿而被丟棄的 log 筆數。
func (h *AsyncHandler) Dropped() uint64 {
	if !h.Ready() {
		return 0
	}
	return h.pump.dropped.Load()
}

// Close 停止 pump 並把隊列中剩餘的 log 寫完。冪等。
// 不屬於 slog.Handler 介面；只有持有 *AsyncHandler 的組裝層能呼叫。
func (h *AsyncHandler) Close() {
	if !h.Ready() {
		return
	}
	h.pump.once.Do(func() { close(h.pump.closed) })
	h.pump.wg.Wait()
}

func (p *logPump) run() {
	defer p.wg.Done()
	for {
		select {
		case it := <-p.queue:
			p.emit(it)
		case <-p.closed:
			p.drain()
			return
		}
	}
}

// drain 在關閉後把隊列清空。
func (p *logPump) drain() {
	for {
		select {
		case it := <-p.queue:
			p.emit(it)
		default:
			return
		}
	}
}

func (p *logPump) emit(it pumpItem) {
	if it.h != nil {
		_ = it.h.Handle(it.ctx, it.rec)
	}
}

// ------------------------------------------------------------
// slog.Handler
// ------------------------------------------------------------

func (h *AsyncHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *AsyncHandler) Handle(ctx context.Context, r slog.Record) error {
	if !h.Ready() {
		return nil
	}

	// Close() 之後不再接受新 log
	select {
	case <-h.pump.closed:
		h.pump.dropped.Add(1)
		return nil
	default:
	}

	// Clone 複製 attributes，避免 Record 的可變引用跨 goroutine 出問題
	it := pumpItem{ctx: ctx, rec: r.Clone(), h: h.next}
	select {
	case h.pump.queue <- it:
	default:
		h.pump.dropped.Add(1)
	}
	return nil
}

func (h *AsyncHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &AsyncHandler{next: h.next.WithAttrs(attrs), pump: h.pump}
}

func (h *AsyncHandler) WithGroup(name string) slog.Handler {
	return &AsyncHandler{next: h.next.WithGroup(name), pump: h.pump}
}

// ------------------------------------------------------------
// mode defaults
// ------------------------------------------------------------

func buildHandler(mode LogMode) slog.Handler {
	switch mode {
	case ModeProd:
		// 正式環境：JSON + stdout，交給 log 收集器
		return slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	case ModeSilence:
		return slog.NewTextHandler(io.Discard, nil)
	default: // ModeDev
		return slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	}
}
