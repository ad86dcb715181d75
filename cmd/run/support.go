package main

import (
	"crypto/rand"
	"flag"
	"log"
	"math"
	"math/big"
	"os"
	"time"

	"github.com/zintix-labs/unirange"
	"github.com/zintix-labs/unirange/demo/demo_plans"
	"github.com/zintix-labs/unirange/sdk/core"
	"github.com/zintix-labs/unirange/stats"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var cfg *config = new(config)

type config struct {
	plan      string
	worker    int
	draws     int
	seed      int64
	out       string
	pprofmode string
}

func bindVar() {
	// 綁定 Flag 到本地變數的指標 (&)
	flag.StringVar(&cfg.plan, "plan", "demo", "target plan name")
	flag.IntVar(&cfg.worker, "worker", 1, "number of workers")
	flag.IntVar(&cfg.draws, "draws", 10000000, "draws per job")
	flag.Int64Var(&cfg.seed, "seed", -1, "int64 seed for random number generator")
	flag.StringVar(&cfg.out, "o", "table", "output: table, json, yaml")
	flag.StringVar(&cfg.pprofmode, "p", "", "pprof: '', cpu, heap, allocs")

	flag.Parse()

	// given seed illeagel -> default seed
	if cfg.seed < 1 {
		seed, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
		if err != nil {
			log.Fatal(err)
		}
		cfg.seed = seed.Int64()
	}
}

// 這裡解析並分支要執行的模擬器
func executeSimulator() {
	cfg.valid() // 基本檢查

	lab, err := unirange.NewAuto(
		core.NewDefault(),
		unirange.Configs(demo_plans.FS),
	)
	if err != nil {
		log.Fatal(err)
	}
	s, err := lab.NewSimulatorWithSeed(cfg.plan, cfg.seed)
	if err != nil {
		log.Fatal(err)
	}
	// 至此確保可執行
	green := "\033[1;32m"
	reset := "\033[0m"
	p := message.NewPrinter(language.English)

	showpb := cfg.out == "table"
	if cfg.worker == 1 { // 單線程
		p.Printf("%s[PLAN:%s] [DRAWS:%d] [SEED:%d]%s\n", green, cfg.plan, cfg.draws, cfg.seed, reset)
		st, used, err := s.Sim(cfg.draws, showpb)
		if err != nil {
			log.Fatal(err)
		}
		emit(st, used)
	} else {
		p.Printf("%s[WORKERS:%d] [PLAN:%s] [DRAWS:%d] [SEED:%d]%s\n", green, cfg.worker, cfg.plan, cfg.worker*cfg.draws, cfg.seed, reset)
		st, used, err := s.SimMP(cfg.draws, cfg.worker, showpb) // 併發
		if err != nil {
			log.Fatal(err)
		}
		emit(st, used)
	}
}

// emit 依 -o 選擇輸出格式；table 走終端表格，其他走結構化 render。
func emit(st *stats.StatReport, used time.Duration) {
	switch cfg.out {
	case "json":
		if err := st.WriteWith(os.Stdout, &stats.JsonStatReportRender{}); err != nil {
			log.Fatal(err)
		}
	case "yaml":
		if err := st.WriteWith(os.Stdout, &stats.YAMLStatReportRender{}); err != nil {
			log.Fatal(err)
		}
	default:
		st.StdOut(used)
	}
}

func (cfg *config) valid() {
	p := message.NewPrinter(language.English)

	// 工作協程檢查(併發數)
	if cfg.worker < 1 {
		log.Fatal("value err : workers must > 0")
	}

	// 抽樣數檢查
	if cfg.draws < 1 {
		log.Fatal("value err : draws must > 0")
	}

	// 協程數太多 resize(超過機器合理範圍無意義)
	if cfg.worker > 64 {
		p.Printf("too much workers: %d resized to 64 workers\n", cfg.worker)
		cfg.worker = 64
	}

	switch cfg.out {
	case "table", "json", "yaml":
	default:
		log.Fatal("value err : output must be table, json or yaml")
	}
}
