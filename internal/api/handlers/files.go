package handlers

import (
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/denisAlshanov/vidgrab/internal/utils"
)

// OutputLocator reports where downloads are written.
type OutputLocator interface {
	OutputDir() (string, error)
}

type FileHandler struct {
	output      OutputLocator
	contentType string
}

func NewFileHandler(output OutputLocator, contentType string) *FileHandler {
	return &FileHandler{
		output:      output,
		contentType: contentType,
	}
}

// GetFile godoc
// @Summary Save a downloaded file
// @Description Serve a previously downloaded file from the output directory as an attachment. Supports range requests.
// @Tags files
// @Produce video/mp4
// @Param name path string true "File name returned by the download complete event"
// @Param Range header string false "Range header for partial content (e.g., bytes=0-1023)"
// @Success 200 {file} binary "Full file"
// @Success 206 {file} binary "Partial content"
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/files/{name} [get]
func (h *FileHandler) GetFile(c *gin.Context) {
	ctx := c.Request.Context()
	name := c.Param("name")

	base := filepath.Base(name)
	if base != name || base == "." || base == ".." || base == string(filepath.Separator) {
		errorResponse(c, utils.NewFileNotFoundError(name))
		return
	}

	dir, err := h.output.OutputDir()
	if err != nil {
		utils.LogError(ctx, "Failed to resolve output directory", err)
		errorResponse(c, utils.NewInternalError())
		return
	}

	path := filepath.Join(dir, base)
	file, err := os.Open(path)
	if err != nil {
		if !os.IsNotExist(err) {
			utils.LogError(ctx, "Failed to open downloaded file", err, utils.Fields{"file_path": path})
		}
		errorResponse(c, utils.NewFileNotFoundError(base))
		return
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil || info.IsDir() {
		errorResponse(c, utils.NewFileNotFoundError(base))
		return
	}

	c.Header("Content-Type", h.contentType)
	// Non-ASCII titles are sent as RFC 2231 filename*
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": base}))

	http.ServeContent(c.Writer, c.Request, base, info.ModTime(), file)

	utils.LogInfo(ctx, "Served downloaded file", utils.Fields{
		"file_name": base,
		"file_size": info.Size(),
		"status":    c.Writer.Status(),
	})
}
