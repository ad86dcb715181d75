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

package netsvr

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

const defaultAddr string = ":5810"

// server 預設 timeout；抽樣/模擬端點最長 5s 超時，留足 headroom。
const (
	readTimeout  = 10 * time.Second
	writeTimeout = 15 * time.Second
	idleTimeout  = 120 * time.Second
)

// ============================================================
// ** ChiAdapter **
// ============================================================

// ChiAdapter 以 chi（基於標準庫 net/http）實作 NetSvr。
// 換框架（Gin/Echo/自組 mux）時另寫一個 Adapter 即可，外層不需要動。
//
// 注意：Group 產生的子路由 adapter 沒有 server，只能當 NetRouter 用。
type ChiAdapter struct {
	mux  chi.Router
	svr  *http.Server
	addr string
}

// NewChiServer 建立監聽指定位址的 ChiAdapter。
func NewChiServer(addr string) *ChiAdapter {
	mux := chi.NewRouter()
	return &ChiAdapter{
		mux: mux,
		svr: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
			IdleTimeout:  idleTimeout,
		},
		addr: addr,
	}
}

// NewChiServerDefault 建立監聽預設位址（:5810）的 ChiAdapter。
func NewChiServerDefault() *ChiAdapter {
	return NewChiServer(defaultAddr)
}

// Ready 檢查 adapter 是否為「可啟動」的完整組裝：
// 有 router、有 server、位址含 port、且 handler 的確掛在這個 router 上。
// Group 產生的子 adapter 不會通過此檢查。
func (c *ChiAdapter) Ready() bool {
	if c == nil || c.mux == nil || c.svr == nil {
		return false
	}
	if c.addr == "" || !strings.Contains(c.addr, ":") {
		return false
	}
	return c.svr.Handler == c.mux
}

// ------------------------------------------------------------
// app.Component
// ------------------------------------------------------------

func (c *ChiAdapter) Run() error {
	return c.svr.ListenAndServe()
}

func (c *ChiAdapter) Shutdown(ctx context.Context) error {
	return c.svr.Shutdown(ctx)
}

// ------------------------------------------------------------
// NetRouter
// ------------------------------------------------------------

func (c *ChiAdapter) Use(mw func(http.Handler) http.Handler) {
	c.mux.Use(mw)
}

func (c *ChiAdapter) Get(path string, h http.HandlerFunc) {
	c.mux.Get(path, h)
}

func (c *ChiAdapter) Post(path string, h http.HandlerFunc) {
	c.mux.Post(path, h)
}

func (c *ChiAdapter) Put(path string, h http.HandlerFunc) {
	c.mux.Put(path, h)
}

func (c *ChiAdapter) Delete(path string, h http.HandlerFunc) {
	c.mux.Delete(path, h)
}

func (c *ChiAdapter) Group(path string, fn func(subRouter NetRouter)) {
	c.mux.Route(path, func(r chi.Router) {
		fn(&ChiAdapter{mux: r})
	})
}

func (c *ChiAdapter) Address() string {
	return c.addr
}
