// Package modkit provides module wiring and core deps
package modkit

import (
	"reports/internal/platform/config"
	"reports/internal/platform/logger"
)

// Deps holds core dependencies passed to modules
// this is wiring only and does not introduce new abstractions
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
}

// Module is the common surface for modules: a name and a port set for cross wiring
type Module interface {
	Ports() any
	Name() string
}
