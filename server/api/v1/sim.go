package v1

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"net/http"
	"strconv"

	"github.com/zintix-labs/unirange"
	"github.com/zintix-labs/unirange/errs"
	"github.com/zintix-labs/unirange/server/httperr"
	"github.com/zintix-labs/unirange/stats"
)

type SimHandler struct {
	Lab *unirange.Lab
}

func NewSimHandler(lab *unirange.Lab) (*SimHandler, error) {
	return &SimHandler{Lab: lab}, nil
}

func (sh *SimHandler) Sim(w http.ResponseWriter, q *http.Request) {
	// 內部結構 不影響外部 也不被外部使用
	type SimRequestBody struct {
		PlanName string `json:"plan_name"`
		Draws    int    `json:"draws"`
		Workers  int    `json:"workers,omitempty"`
		Seed     *int64 `json:"seed,omitempty"`
	}
	// 內部結構 不影響外部 也不被外部使用
	type SimResponse struct {
		Stats    *stats.StatReport `json:"stats"`
		Seed     int64             `json:"seed"`
		UsedTime int64             `json:"used_ms"`
	}
	// ---
	req := new(SimRequestBody)
	if q.Method != http.MethodGet && q.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if q.Method == http.MethodGet {
		// plan
		if s := q.URL.Query().Get("plan"); s != "" {
			req.PlanName = s
		} else {
			// 直接空值
			httperr.Errs(w, errs.NewWarn("plan is required"))
			return
		}

		// draws
		if d := q.URL.Query().Get("draws"); d != "" {
			u, err := strconv.ParseInt(d, 10, 64)
			if err != nil {
				httperr.Errs(w, errs.NewWarn("draws must be integer"))
				return
			}
			req.Draws = int(u)
		} else {
			httperr.Errs(w, errs.NewWarn("draws is required"))
			return
		}

		// workers
		if m := q.URL.Query().Get("workers"); m != "" {
			u, err := strconv.ParseInt(m, 10, 64)
			if err != nil {
				httperr.Errs(w, errs.NewWarn("workers must be integer"))
				return
			}
			req.Workers = int(u)
		}

		// seed
		if s := q.URL.Query().Get("seed"); s != "" {
			u, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				httperr.Errs(w, errs.NewWarn("seed must be int64"))
				return
			}
			v := u
			req.Seed = &v
		}
	}
	if q.Method == http.MethodPost {
		if err := json.NewDecoder(q.Body).Decode(req); err != nil {
			httperr.Errs(w, errs.NewWarn("invalid json:"+err.Error()))
			return
		}
	}
	// 業務檢驗
	if _, ok := sh.Lab.PlanByName(req.PlanName); !ok {
		httperr.Errs(w, errs.NewWarn("plan not found"))
		return
	}
	if req.Draws < 1 || req.Draws > 1000000 {
		httperr.Errs(w, errs.NewWarn("draws must be between 1 to 1,000,000"))
		return
	}
	if req.Workers < 0 || req.Workers > 64 {
		httperr.Errs(w, errs.NewWarn("workers must be between 0 to 64"))
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
	sim, err := sh.Lab.NewSimulatorWithSeed(req.PlanName, *req.Seed)
	if err != nil {
		// 這裡的錯誤是來自lab 尊重錯誤分級
		httperr.Errs(w, errs.Wrap(err, fmt.Sprintf("build simulator err: %s", req.PlanName)))
		return
	}
	var st *stats.StatReport
	var used int64
	if req.Workers > 1 {
		r, d, err := sim.SimMP(req.Draws, req.Workers, false)
		if err != nil {
			// 這裡的錯誤來自simulator 尊重錯誤分級
			httperr.Errs(w, errs.Wrap(err, "simulate err"))
			return
		}
		st, used = r, d.Milliseconds()
	} else {
		r, d, err := sim.Sim(req.Draws, false)
		if err != nil {
			httperr.Errs(w, errs.Wrap(err, "simulate err"))
			return
		}
		st, used = r, d.Milliseconds()
	}
	resp := SimResponse{
		Stats:    st,
		Seed:     *req.Seed,
		UsedTime: used,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// Plans 列出目前可用的計畫名稱。
func (sh *SimHandler) Plans(w http.ResponseWriter, q *http.Request) {
	if q.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"plans": sh.Lab.Plans()})
}
