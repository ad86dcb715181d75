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

// Package httperr 是 HTTP 邊界層的錯誤出口：把內部分級錯誤（errs.E）與
// context 生命週期錯誤，映射成最小且可預期的 status code。
// 放在 server/* 而不是 errs/，是為了不讓核心錯誤包依賴 net/http。
package httperr

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/zintix-labs/unirange/errs"
)

// StatusCode 將錯誤映射成 HTTP status code。
//
// 映射規則：
//   - ctx deadline → 504，ctx cancel → 408（請求生命週期問題，優先判定）
//   - errs.Warn    → 400（請求/參數問題）
//   - 其他（含 errs.Fatal 與未分級錯誤）→ 500
func StatusCode(err error) int {
	// context 取消/超時即使被 wrap 也要先命中
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	if errors.Is(err, context.Canceled) {
		return http.StatusRequestTimeout
	}

	var e *errs.E
	if errors.As(err, &e) && e.ErrLv == errs.Warn {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Errs 決定 status code 並寫回單行錯誤。nil 直接放行。
func Errs(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}
	http.Error(w, err.Error(), StatusCode(err))
}

// Log 依映射後的 status 決定 log 級別：5xx 走 Error，
// 請求壽命類（408/409/429）走 Warn，其餘不記錄（交給 access log）。
func Log(log *slog.Logger, msg string, err error) {
	if log == nil || err == nil {
		return
	}
	switch status := StatusCode(err); {
	case status >= 500 && status < 600:
		log.Error(msg, slog.Any("err", err))
	case status == http.StatusRequestTimeout,
		status == http.StatusConflict,
		status == http.StatusTooManyRequests:
		log.Warn(msg, slog.Any("err", err))
	}
}
