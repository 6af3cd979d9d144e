package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/moyoez/dropvault-go/tool"
	"github.com/moyoez/dropvault-go/transfer"
	"github.com/moyoez/dropvault-go/types"
)

// Batch is the part of the batch controller exposed over HTTP.
type Batch interface {
	AddFiles(files ...types.FileHandle) ([]types.FileEntry, error)
	RemoveFile(id string) error
	ClearAll() error
	Start() (string, error)
	Cancel() error
	Snapshot() types.BatchSnapshot
}

type BatchController struct {
	batch Batch
}

func NewBatchController(batch Batch) *BatchController {
	return &BatchController{batch: batch}
}

// HandleStatus returns the selection with per-entry progress.
// GET /api/dropvault/v1/status
func (ctrl *BatchController) HandleStatus(c *gin.Context) {
	snap := ctrl.batch.Snapshot()
	resp := types.StatusResponse{
		Status:  snap.Status,
		BatchID: snap.BatchID,
		Entries: make([]types.EntryView, 0, len(snap.Entries)),
	}
	for _, e := range snap.Entries {
		resp.Entries = append(resp.Entries, types.EntryView{
			FileEntry: e,
			SizeStr:   tool.FormatBytes(e.Size, 2),
			Kind:      string(tool.FileKindFor(e.MimeType)),
			Progress:  snap.Progress[e.ID],
			Failed:    snap.Failed[e.ID],
		})
	}
	c.JSON(http.StatusOK, resp)
}

// HandleAddFiles adds local paths or client-described files to the selection.
// POST /api/dropvault/v1/files
func (ctrl *BatchController) HandleAddFiles(c *gin.Context) {
	var req types.AddFilesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("Invalid request body: "+err.Error()))
		return
	}
	if len(req.Paths) == 0 && len(req.Files) == 0 {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("Missing parameters: paths or files"))
		return
	}

	handles, err := tool.FileHandlesFromPaths(req.Paths)
	if err != nil {
		tool.DefaultLogger.Errorf("[Selection] Failed to read files: %v", err)
		c.JSON(http.StatusBadRequest, tool.FastReturnError(err.Error()))
		return
	}
	for _, h := range req.Files {
		if err := tool.ValidateFileHandle(h); err != nil {
			c.JSON(http.StatusBadRequest, tool.FastReturnError(err.Error()))
			return
		}
		handles = append(handles, h)
	}

	added, err := ctrl.batch.AddFiles(handles...)
	if err != nil {
		writeBatchError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.AddFilesResponse{Entries: added})
}

// HandleRemoveFile drops one entry.
// DELETE /api/dropvault/v1/files/:id
func (ctrl *BatchController) HandleRemoveFile(c *gin.Context) {
	if err := ctrl.batch.RemoveFile(c.Param("id")); err != nil {
		writeBatchError(c, err)
		return
	}
	c.JSON(http.StatusOK, tool.FastReturnSuccess())
}

// HandleClear empties the selection.
// DELETE /api/dropvault/v1/files
func (ctrl *BatchController) HandleClear(c *gin.Context) {
	if err := ctrl.batch.ClearAll(); err != nil {
		writeBatchError(c, err)
		return
	}
	c.JSON(http.StatusOK, tool.FastReturnSuccess())
}

// HandleStart begins a batch and returns immediately.
// POST /api/dropvault/v1/start
func (ctrl *BatchController) HandleStart(c *gin.Context) {
	batchID, err := ctrl.batch.Start()
	if err != nil {
		writeBatchError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.StartBatchResponse{BatchID: batchID})
}

// HandleCancel stops the running batch.
// POST /api/dropvault/v1/cancel
func (ctrl *BatchController) HandleCancel(c *gin.Context) {
	if err := ctrl.batch.Cancel(); err != nil {
		writeBatchError(c, err)
		return
	}
	c.JSON(http.StatusOK, tool.FastReturnSuccess())
}

func writeBatchError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, transfer.ErrEmptyBatch):
		c.JSON(http.StatusBadRequest, tool.FastReturnErrorWithData("Please add at least one file to upload", map[string]any{
			"code": "EmptyBatch",
		}))
	case errors.Is(err, transfer.ErrUnknownEntry):
		c.JSON(http.StatusNotFound, tool.FastReturnError(err.Error()))
	case errors.Is(err, transfer.ErrInvalidTransition):
		c.JSON(http.StatusConflict, tool.FastReturnErrorWithData(err.Error(), map[string]any{
			"code": "InvalidTransition",
		}))
	default:
		tool.DefaultLogger.Errorf("[Batch] Unexpected error: %v", err)
		c.JSON(http.StatusInternalServerError, tool.FastReturnError("Internal server error"))
	}
}
