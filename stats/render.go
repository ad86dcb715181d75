package stats

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"
)

// StatReportRender 定義輸出行為
type StatReportRender interface {
	Write(w io.Writer, r *StatReport) error
}

// Json渲染
type JsonStatReportRender struct{}

func (jr *JsonStatReportRender) Write(w io.Writer, r *StatReport) error {
	return json.NewEncoder(w).Encode(r)
}

// YAML渲染
type YAMLStatReportRender struct{}

// Write 輸出 YAML；外層結構照常展開，
// 但最內層一維陣列（bin counts、labels）用 flow style 輸出：[a, b, c]，
// 避免上千個 bucket 一行一個值把報表撐爆。
func (yr *YAMLStatReportRender) Write(w io.Writer, r *StatReport) error {
	var node yaml.Node
	if err := node.Encode(r); err != nil {
		return err
	}
	flowLeafSequences(&node)

	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(&node)
}

// flowLeafSequences 自頂向下掃描：sequence 底下若沒有子 sequence，
// 它就是最內層的一維（或本身就是一維），改成 flow style；
// 含子 sequence 的外層維度維持預設 block 展開。
func flowLeafSequences(n *yaml.Node) {
	if n == nil {
		return
	}

	switch n.Kind {
	case yaml.DocumentNode, yaml.MappingNode:
		for _, c := range n.Content {
			flowLeafSequences(c)
		}

	case yaml.SequenceNode:
		leaf := true
		for _, c := range n.Content {
			if c != nil && c.Kind == yaml.SequenceNode {
				leaf = false
			}
			flowLeafSequences(c)
		}
		if leaf {
			n.Style = yaml.FlowStyle
		}
	}
	// Scalar / Alias 不處理
}
