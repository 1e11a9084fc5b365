package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/yourusername/outreach-api/internal/middleware"
	"github.com/yourusername/outreach-api/internal/service"
)

type ExportHandler struct {
	exportDir string
}

func NewExportHandler(exportDir string) *ExportHandler {
	return &ExportHandler{exportDir: exportDir}
}

// Zip handles GET /sessions/:id/export
func (h *ExportHandler) Zip(c *gin.Context) {
	platform, variants, err := middleware.GetSession(c).Variants()
	if err != nil {
		respondError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := service.ZipVariants(&buf, platform, variants); err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="outreach_messages.zip"`)
	c.Data(http.StatusOK, "application/zip", buf.Bytes())
}

// Variant handles GET /sessions/:id/export/:n
func (h *ExportHandler) Variant(c *gin.Context) {
	platform, variants, err := middleware.GetSession(c).Variants()
	if err != nil {
		respondError(c, err)
		return
	}

	n, err := strconv.Atoi(c.Param("n"))
	if err != nil || n < 1 || n > len(variants) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": fmt.Sprintf("variant must be between 1 and %d", len(variants)),
			"kind":  "variant_not_found",
		})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, service.VariantFilename(platform, n)))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(variants[n-1]))
}

// Save handles POST /sessions/:id/export/save
// Writes one file per variant under the export directory
func (h *ExportHandler) Save(c *gin.Context) {
	sess := middleware.GetSession(c)
	platform, variants, err := sess.Variants()
	if err != nil {
		respondError(c, err)
		return
	}

	dir := filepath.Join(h.exportDir, sess.ID.String())
	paths, err := service.WriteVariants(dir, platform, variants)
	if err != nil {
		respondError(c, err)
		return
	}

	log.Info().Str("session", sess.ID.String()).Int("files", len(paths)).Msg("Variants exported")

	c.JSON(http.StatusOK, gin.H{"files": paths})
}
