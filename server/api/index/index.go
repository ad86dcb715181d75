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

package index

import (
	"encoding/json"
	"net/http"
)

// IndexHandlerFn 主頁：回報服務名稱與可用端點，方便人工確認服務活著。
func IndexHandlerFn(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	info := map[string]any{
		"service": "unirange",
		"endpoints": []string{
			"GET  /v1/plans",
			"GET  /v1/draw?plan=<name>&job=<name>",
			"GET  /v1/sim?plan=<name>&draws=<n>",
			"POST /v1/simbyplan",
			"GET  /v1/metrics",
		},
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(info)
}
