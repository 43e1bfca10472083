package jobs

import (
	"log/slog"

	"visitlens/internal/pkg/geoip"
)

// GeoReloadJob reopens the GeoLite database so an updated file on disk is
// picked up without restarting the server.
type GeoReloadJob struct {
	logger *slog.Logger
}

func NewGeoReloadJob(logger *slog.Logger) *GeoReloadJob {
	return &GeoReloadJob{logger: logger}
}

func (j *GeoReloadJob) Run() error {
	j.logger.Debug("Reloading GeoLite database")
	geoip.ReloadGeoDB()
	return nil
}
