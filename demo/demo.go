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

package demo

import (
	"github.com/zintix-labs/unirange"
	"github.com/zintix-labs/unirange/demo/demo_plans"
	"github.com/zintix-labs/unirange/errs"
	"github.com/zintix-labs/unirange/sdk/core"
	"github.com/zintix-labs/unirange/server/logger"
	"github.com/zintix-labs/unirange/server/svrcfg"
)

func NewServerConfig() (*svrcfg.SvrCfg, error) {
	lab, err := unirange.NewAuto(
		core.NewDefault(),
		unirange.Configs(demo_plans.FS),
	)
	if err != nil {
		return nil, errs.NewFatal("new lab failed:" + err.Error())
	}
	scfg := &svrcfg.SvrCfg{
		Log:         logger.NewDefaultAsyncLogger(logger.ModeDev),
		DrawBufSize: 1,
		Lab:         lab,
	}
	return scfg, nil
}

func NewLab() (*unirange.Lab, error) {
	return unirange.NewAuto(
		core.NewDefault(),
		unirange.Configs(demo_plans.FS),
	)
}
