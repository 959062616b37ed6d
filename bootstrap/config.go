package bootstrap

import (
	"github.com/kbukum/linqkit/config"
)

// Config is the interface constraint for application configuration types.
// Any struct that embeds config.ServiceConfig satisfies it through promoted
// methods, overriding ApplyDefaults and Validate where it adds sections.
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}
