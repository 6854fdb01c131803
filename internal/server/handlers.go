package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/topclip/tikfetch/internal/tiktok"
	"github.com/topclip/tikfetch/internal/version"
)

// InfoRequest is the body for POST /video/info.
type InfoRequest struct {
	URL string `json:"url" binding:"required"`
}

// DownloadRequest is the body for POST /video/download.
type DownloadRequest struct {
	URL      string `json:"url" binding:"required"`
	FormatID string `json:"format_id" binding:"required"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "tikfetch",
		"version": version.Version,
	})
}

func (s *Server) handleInfo(c *gin.Context) {
	var req InfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, tiktok.ErrInvalidURL)
		return
	}

	meta, err := s.videos.Info(c.Request.Context(), req.URL)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, meta)
}

func (s *Server) handleDownload(c *gin.Context) {
	var req DownloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, tiktok.ErrInvalidURL)
		return
	}

	snap, err := s.downloads.Download(c.Request.Context(), req.URL, req.FormatID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, snap)
}
