package handler

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/lantern-labs/beacon-backend/pkg/config"
	"github.com/lantern-labs/beacon-backend/pkg/cronjob"
)

// Manager registers the routes of one feature area. Public routes need no
// credentials; cron routes sit behind the scheduler secret.
type Manager interface {
	GetName() string
	RegisterPublic(group *gin.RouterGroup)
	RegisterCron(group *gin.RouterGroup)
}

// RegisterConfig carries the shared dependencies handed to every manager.
type RegisterConfig struct {
	Config  *config.Config
	DB      *gorm.DB
	CronMgr *cronjob.CronJobManager
}

type ManagerRegisterFunc func(conf *RegisterConfig) Manager

// Registers is populated by the init function of each handler file.
var Registers []ManagerRegisterFunc
