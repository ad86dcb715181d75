package demo_plans

import (
	"embed"
)

// FS provides embedded default plan YAMLs for external usage.
//
//go:embed *.yaml
var FS embed.FS
