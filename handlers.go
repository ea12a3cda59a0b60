package bella

import (
	"log/slog"

	"github.com/salonsuite/bella/application/handler/generation"
	"github.com/salonsuite/bella/domain/job"
)

// registerHandlers registers all job handlers with the worker registry.
func (c *Client) registerHandlers() {
	c.registry.Register(job.OperationBatchCalendars, generation.NewBatchCalendars(
		c.Batches, c.logger,
	))

	c.logger.Info("registered job handlers", slog.Int("count", len(c.registry.Operations())))
}
