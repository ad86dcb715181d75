package stats

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var lang language.Tag = language.English

// 信賴區間
type CI struct {
	Lo float64 `json:"Lo"`
	Hi float64 `json:"Hi"`
}

// StatReport 取樣計畫統計報告
type StatReport struct {
	Summary *SummaryReport `json:"Summary"`
	Jobs    []*JobReport   `json:"Jobs"`
	isDone  bool
}

type SummaryReport struct {
	PlanName string `json:"PlanName"`
	Draws    int    `json:"Draws"`
	Jobs     int    `json:"Jobs"`
	Rounds   int    `json:"Rounds"`
}

// JobReport 單一取樣工作的落點統計
//
// 紀錄時只累積整數計數，避免轉型成本。紀錄完成後Done()會將結果整理填入
type JobReport struct {
	JobName  string  `json:"JobName"`
	Domain   string  `json:"Domain"`
	Interval string  `json:"Interval"`
	A        float64 `json:"A"`
	B        float64 `json:"B"`
	NormLo   float64 `json:"NormLo"`
	NormHi   float64 `json:"NormHi"`
	Rounds   int     `json:"Rounds"`

	Bins   []string  `json:"Bins"`
	Counts []int     `json:"Counts"`
	Freq   []float64 `json:"Freq"`
	Exact  bool      `json:"Exact"`

	ObservedMin  float64 `json:"ObservedMin"`
	ObservedMax  float64 `json:"ObservedMax"`
	LowerTouched bool    `json:"LowerTouched"`
	UpperTouched bool    `json:"UpperTouched"`
	OutOfRange   int     `json:"OutOfRange"`

	ChiSquare  float64 `json:"ChiSquare"`
	ChiDF      int     `json:"ChiDF"`
	ChiPValue  float64 `json:"ChiPValue"`
	Uniform    bool    `json:"Uniform"`
	LowerHitCI CI      `json:"LowerHitCI"`
	UpperHitCI CI      `json:"UpperHitCI"`
}

// 卡方檢定的顯著水準：p 值低於此值視為偏離均勻
const uniformAlpha = 0.01

// ============================================================
// ** 公開方法 **
// ============================================================

// Done 將累積計數轉換為最終統計結果並鎖定 isDone 標記。
//
// 所有紀錄過程因為性能原因只處理int計數，統計完成後
//
// 請使用 Done 來一次性計算頻率、卡方檢定與端點信賴區間
func (s *StatReport) Done() {
	if s.isDone {
		return
	}

	rounds := 0
	for _, j := range s.Jobs {
		j.done()
		rounds += j.Rounds
	}
	s.Summary.Jobs = len(s.Jobs)
	s.Summary.Rounds = rounds

	s.isDone = true
}

func (j *JobReport) done() {
	// 頻率
	j.Freq = make([]float64, len(j.Counts))
	if j.Rounds > 0 {
		rf := float64(j.Rounds)
		for i, c := range j.Counts {
			j.Freq[i] = float64(c) / rf
		}
	}

	// 均勻性卡方檢定
	j.ChiSquare, j.ChiDF, j.ChiPValue = chiSquareUniform(j.Counts)
	j.Uniform = j.ChiPValue >= uniformAlpha

	// 離散精確計數時，對兩個端點做 Clopper–Pearson 區間，
	// 用來檢查開端點確實被排除、閉端點確實可達
	if j.Exact && len(j.Counts) > 0 {
		_, j.LowerHitCI = proportionCICP(j.Counts[0], j.Rounds, 0.95)
		_, j.UpperHitCI = proportionCICP(j.Counts[len(j.Counts)-1], j.Rounds, 0.95)
	}
}

func (s *StatReport) WriteWith(w io.Writer, rep StatReportRender) error {
	s.Done()
	return rep.Write(w, s)
}

func (s *StatReport) StdOut(ut time.Duration) {
	s.Done()
	formatDuration(ut, s.Summary.Rounds)
	for _, j := range s.Jobs {
		jk, jm := j.fmtBasic()
		str := fmtTable(fmt.Sprintf("%s / %s", s.Summary.PlanName, j.JobName), jk, jm)
		fmt.Println(str)
	}
}

// ============================================================
// ** 內部方法 **
// ============================================================

func formatDuration(d time.Duration, draws int) {
	p := message.NewPrinter(lang)
	if d < 0 {
		d = -d
	}
	sec := d.Seconds()
	if sec <= 0 {
		sec = 1e-9
	}
	dps := int(float64(draws) / sec)
	if sec < 60.0 {
		p.Printf("used: %.2f seconds\ndps : %d draws/sec\n", sec, dps)
		return
	}
	s := int(d.Seconds()) % 60
	m := int(d.Minutes()) % 60
	h := int(d.Hours())
	if h == 0 {
		s = s % 60
		p.Printf("used: %dm %ds\ndps : %d draws/sec\n", m, s, dps)
		return
	}
	p.Printf("used: %dh:%dm:%ds\ndps : %d draws/sec\n", h, m, s, dps)
}

// StdOut

func (j *JobReport) fmtBasic() ([]string, map[string]string) {
	p := message.NewPrinter(lang)
	verdict := "uniform"
	if !j.Uniform {
		verdict = "BIASED"
	}
	basic := map[string]string{
		"Job Name":     j.JobName,
		"Requested":    p.Sprintf("%s%v,%v%s %s", string(j.Interval[0]), j.A, j.B, string(j.Interval[1]), j.Domain),
		"Normalized":   p.Sprintf("[%v,%v]", j.NormLo, j.NormHi),
		"Rounds":       p.Sprintf("%d", j.Rounds),
		"Observed Min": p.Sprintf("%v", j.ObservedMin),
		"Observed Max": p.Sprintf("%v", j.ObservedMax),
		"Out of Range": p.Sprintf("%d", j.OutOfRange),
		"Chi-Square":   p.Sprintf("%.3f (df=%d)", j.ChiSquare, j.ChiDF),
		"Chi P-Value":  p.Sprintf("%.4f (%s)", j.ChiPValue, verdict),
	}
	keys := []string{"Job Name", "Requested", "Normalized", "Rounds", "Observed Min", "Observed Max", "Out of Range", "Chi-Square", "Chi P-Value"}
	return keys, basic
}

func fmtTable(title string, keys []string, msg map[string]string) string {
	p := message.NewPrinter(lang)
	maxKeyLen := 0
	maxValLen := 0
	for k, m := range msg {
		if w := runewidth.StringWidth(k); w > maxKeyLen {
			maxKeyLen = w
		}
		if w := runewidth.StringWidth(m); w > maxValLen {
			maxValLen = w
		}
	}
	if w := runewidth.StringWidth(title); w > maxKeyLen+maxValLen+1 {
		maxValLen = w - maxKeyLen - 1
	}
	maxKeyLen += 2
	maxValLen += 2

	divider := "+" + strings.Repeat("-", maxKeyLen) + "+" + strings.Repeat("-", maxValLen) + "+\n"
	top := "+" + strings.Repeat("-", maxKeyLen+1+maxValLen) + "+\n"

	totalInner := maxKeyLen + maxValLen + 1
	titleW := runewidth.StringWidth(title)

	left := (totalInner - titleW) / 2
	right := totalInner - titleW - left

	fmtStr := top
	fmtStr += p.Sprintf("|%s%s%s|\n", blank(left), title, blank(right))
	fmtStr += divider
	for _, k := range keys {
		fmtStr += p.Sprintf("| %s%s | %s%s |\n", k, blank(maxKeyLen-2-runewidth.StringWidth(k)), msg[k], blank(maxValLen-2-runewidth.StringWidth(msg[k])))
	}
	fmtStr += divider

	return fmtStr
}

func blank(w int) string {
	if w < 1 {
		return ""
	}
	return strings.Repeat(" ", w)
}
