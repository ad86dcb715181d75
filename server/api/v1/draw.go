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

package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/zintix-labs/unirange"
	"github.com/zintix-labs/unirange/errs"
	"github.com/zintix-labs/unirange/server/httperr"
	"github.com/zintix-labs/unirange/server/svrcfg"
)

// decodeDrawRequest 支援 GET query 與 POST JSON 兩種請求形式。
//
// GET:  /v1/draw?plan=<name>&job=<name>
// POST: {"plan_name": "...", "job_name": "..."}
func decodeDrawRequest(q *http.Request) (*unirange.DrawRequest, error) {
	req := new(unirange.DrawRequest)

	switch q.Method {
	case http.MethodGet:
		req.PlanName = strings.TrimSpace(q.URL.Query().Get("plan"))
		req.JobName = strings.TrimSpace(q.URL.Query().Get("job"))
	case http.MethodPost:
		q.Body = http.MaxBytesReader(nil, q.Body, 1<<20) // 1MB
		dec := json.NewDecoder(q.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(req); err != nil {
			return nil, errs.NewWarn("invalid json:" + err.Error())
		}
	}

	if req.PlanName == "" {
		return nil, errs.NewWarn("plan is required")
	}
	if req.JobName == "" {
		return nil, errs.NewWarn("job is required")
	}
	return req, nil
}

func (c *DrawHandler) Draw(w http.ResponseWriter, q *http.Request) {
	// 請求方法、結構體校驗
	if q.Method != http.MethodGet && q.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	req, err := decodeDrawRequest(q)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	// 請求解析完成，設置超時 context
	ctx := q.Context()
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// 開始 Draw
	result, err := c.rt.Draw(ctx, req)
	if err != nil {
		httperr.Errs(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		httperr.Errs(w, err)
		return
	}
}

// Metrics 回傳每個計畫池的觀測快照（拉取式）。
func (c *DrawHandler) Metrics(w http.ResponseWriter, q *http.Request) {
	if q.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(c.rt.Metrics())
}

// ============================================================
// ** DrawHandler **
// ============================================================

type DrawHandler struct {
	rt *unirange.DrawRuntime
}

func NewDrawHandler(sCfg *svrcfg.SvrCfg) (*DrawHandler, error) {
	rt, err := sCfg.Lab.BuildRuntime(sCfg.DrawBufSize)
	if err != nil {
		return nil, errs.Wrap(err, "build draw handler error")
	}
	return &DrawHandler{rt: rt}, nil
}
