// Package autoload initializes the global logger from LOG_* environment
// variables on import.
package autoload

import (
	configx "github.com/mdomarsaleem1/sample-banking-agentic-AI/pkg/config"
	logx "github.com/mdomarsaleem1/sample-banking-agentic-AI/pkg/logger"
)

func init() {
	conf, err := configx.New[logx.Config]("LOG")
	if err != nil {
		logx.Init()
		return
	}
	logx.Init(*conf)
}
