package pipeline

import (
	"github.com/navid-fn/stockpipe/configs"
	"github.com/navid-fn/stockpipe/internal/archive"
	"github.com/navid-fn/stockpipe/internal/events"

	"github.com/sirupsen/logrus"
)

// NewFromAppConfig builds a runner with the optional archiver and publisher
// enabled by cfg. The returned func releases the publisher.
func NewFromAppConfig(cfg *configs.AppConfig, logger *logrus.Logger) (*Runner, func()) {
	var opts []Option
	closeFn := func() {}

	if cfg.ArchiveDir != "" {
		opts = append(opts, WithArchiver(archive.NewParquetArchiver(cfg.ArchiveDir)))
		logger.WithField("dir", cfg.ArchiveDir).Info("Parquet snapshots enabled")
	}

	if cfg.Kafka.Broker != "" {
		publisher := events.NewPublisher(events.NewKafkaWriter(cfg.Kafka.Broker, cfg.Kafka.Topic))
		opts = append(opts, WithPublisher(publisher))
		closeFn = func() {
			if err := publisher.Close(); err != nil {
				logger.WithError(err).Warn("Failed to close run event publisher")
			}
		}
		logger.WithFields(logrus.Fields{"broker": cfg.Kafka.Broker, "topic": cfg.Kafka.Topic}).Info("Run events enabled")
	}

	return NewRunner(logger, opts...), closeFn
}
