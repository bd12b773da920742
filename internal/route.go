package internal

import (
	"net/http"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/lantern-labs/beacon-backend/internal/handler"
	"github.com/lantern-labs/beacon-backend/internal/middleware"
	"github.com/lantern-labs/beacon-backend/pkg/constants"
)

type Backend struct {
	R *gin.Engine
}

func (b *Backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.R.ServeHTTP(w, r)
}

func Register(conf *handler.RegisterConfig) *Backend {
	s := new(Backend)
	s.R = gin.Default()

	// Homepage; also the first target of the scheduled health check.
	s.R.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "beacon",
		})
	})

	s.RegisterService(conf)

	return s
}

func (b *Backend) RegisterService(conf *handler.RegisterConfig) {
	// Enable CORS for http://localhost:XXXX in debug mode
	if gin.Mode() == gin.DebugMode {
		fe := os.Getenv("BEACON_FE_PORT")
		if fe != "" {
			url := "http://localhost:" + fe
			corsConf := cors.DefaultConfig()
			corsConf.AllowOrigins = []string{url}
			b.R.Use(cors.New(corsConf))
		}
	}

	managers := registerManagers(conf)

	publicRouter := b.R.Group(constants.APIPrefix)

	cronRouter := b.R.Group(constants.CronAPIPrefix)
	cronRouter.Use(middleware.CronAuthProtected(conf.Config.HealthCheck.Secret))

	for _, mgr := range managers {
		mgr.RegisterPublic(publicRouter)
		mgr.RegisterCron(cronRouter)
	}
}
