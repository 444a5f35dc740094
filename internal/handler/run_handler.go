package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/navid-fn/stockpipe/internal/pipeline"
)

// Runner executes one pipeline run.
type Runner interface {
	Run(ctx context.Context) pipeline.Result
}

type RunHandler struct {
	runner Runner
}

func NewRunHandler(runner Runner) *RunHandler {
	return &RunHandler{
		runner: runner,
	}
}

// Trigger runs the pipeline synchronously. Request body and headers are ignored;
// the response is the run message as plain text.
func (h *RunHandler) Trigger(c *gin.Context) {
	res := h.runner.Run(c.Request.Context())
	c.Header("X-Run-Id", res.RunID)
	c.String(res.Status, res.Message)
}
