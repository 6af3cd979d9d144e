package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/moyoez/dropvault-go/share"
	"github.com/moyoez/dropvault-go/tool"
)

type StatsController struct {
	stats *share.Stats
}

func NewStatsController(stats *share.Stats) *StatsController {
	return &StatsController{stats: stats}
}

// HandleStats returns totals and recent uploads.
// GET /api/dropvault/v1/stats
func (ctrl *StatsController) HandleStats(c *gin.Context) {
	c.JSON(http.StatusOK, ctrl.stats.Snapshot())
}

// HandleListBatches returns the ids of cached batch results.
// GET /api/dropvault/v1/batches
func (ctrl *StatsController) HandleListBatches(c *gin.Context) {
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(ctrl.stats.ListResults()))
}

// HandleBatchResult returns a completed batch while it is still cached.
// GET /api/dropvault/v1/batches/:id
func (ctrl *StatsController) HandleBatchResult(c *gin.Context) {
	result, ok := ctrl.stats.Result(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, tool.FastReturnError("Batch not found or expired"))
		return
	}
	c.JSON(http.StatusOK, result)
}
