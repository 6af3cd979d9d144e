package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/moyoez/dropvault-go/share"
	"github.com/moyoez/dropvault-go/tool"
)

// GetNetworkInfo lists local addresses and the URLs the web UI is reachable on.
// GET /api/dropvault/v1/get-network-info
func GetNetworkInfo(port int) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(gin.H{
			"interfaces": share.GetSelfNetworkInfos(),
			"urls":       share.ServerURLs(port),
		}))
	}
}
