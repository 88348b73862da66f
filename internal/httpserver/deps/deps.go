package deps

import (
	"time"

	"github.com/cosmicverse/starfield/internal/logger"
	"github.com/cosmicverse/starfield/internal/service"
)

type Deps struct {
	Logger    logger.Logger
	StartTime time.Time
	Version   string
	Commit    string
	BuildDate string
	GoVersion string
	Stars     *service.Stars // star persistence service, the core of the app
	StaticDir string         // built client assets directory (empty = no static serving)
	// Add more shared deps later as routes need them.
}
