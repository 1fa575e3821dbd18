package app

import (
	"github.com/talkincode/salesdash/config"
	"gorm.io/gorm"
)

// DBProvider provides database access
type DBProvider interface {
	DB() *gorm.DB
}

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// AppContext combines the provider interfaces with the lifecycle methods
// used by the command line entrypoint
type AppContext interface {
	DBProvider
	ConfigProvider

	MigrateDB(track bool) error
	InitDb() error
	DropAll()
	Release()
}
