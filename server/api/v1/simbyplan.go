package v1

import (
	"crypto/rand"
	"encoding/json"
	"math"
	"math/big"
	"net/http"

	"github.com/zintix-labs/unirange/errs"
	"github.com/zintix-labs/unirange/server/httperr"
)

// SimByPlan 傳入 JSON 計畫設定 以及希望模擬的抽樣次數
func (sh *SimHandler) SimByPlan(w http.ResponseWriter, r *http.Request) {
	type SimRequestByPlan struct {
		Draws       int             `json:"draws"`
		PlanSetting json.RawMessage `json:"cfg"`
		Seed        *int64          `json:"seed,omitempty"`
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// 1. decode request
	req := new(SimRequestByPlan)
	r.Body = http.MaxBytesReader(w, r.Body, 5<<20) // 5MB
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		httperr.Errs(w, errs.NewWarn("invalid json:"+err.Error()))
		return
	}

	// 2. vaild draws
	if req.Draws < 1 {
		httperr.Errs(w, errs.NewWarn("draws must be at least 1"))
		return
	}
	if req.Seed == nil {
		rnd, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
		if err != nil {
			httperr.Errs(w, errs.NewWarn("seed generate failed"))
			return
		}
		v := rnd.Int64()
		req.Seed = &v
	}

	// 4. NewSimulator
	// 計畫來自請求體：載入失敗屬於呼叫端問題，降為 Warn（400）
	sim, err := sh.Lab.NewSimulatorByJSON(req.PlanSetting, *req.Seed)
	if err != nil {
		httperr.Errs(w, errs.NewWarn("invalid plan cfg:"+err.Error()))
		return
	}
	result, _, err := sim.Sim(req.Draws, false)
	if err != nil {
		httperr.Errs(w, err)
		return
	}

	// 6. 回傳Json
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}
