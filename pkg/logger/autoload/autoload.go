// Package autoload configures the global zerolog logger from the
// environment as a side effect of being imported.
package autoload

import (
	configx "github.com/leadpilot-ai/leadpilot/pkg/config"
	logx "github.com/leadpilot-ai/leadpilot/pkg/logger"
)

func init() {
	conf := configx.MustNew[logx.Config]("LOG")
	logx.Init(*conf)
}
