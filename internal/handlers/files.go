package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/Terjeeld/lasviewer/internal/las"
	"github.com/Terjeeld/lasviewer/internal/models"
	"github.com/Terjeeld/lasviewer/internal/service"

	"github.com/gin-gonic/gin"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK       = "ok"
	statusUploaded = "uploaded"
	statusDeleted  = "deleted"

	errReadUpload  = "failed to read uploaded file"
	errSaveUpload  = "failed to store uploaded file"
	errGetFile     = "failed to load file"
	errListFiles   = "failed to list files"
	errDeleteFile  = "failed to delete file"
	errBuildPlot   = "failed to build plot"
	errMissingFile = "multipart field 'file' is required"
	errCurveQuery  = "query parameter 'curve' is required"
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// badInput reports whether err is a client-side problem (malformed file,
// unknown curve, empty set) rather than a server fault.
func badInput(err error) bool {
	var parseErr *las.ParseError
	var unknownCurve *service.UnknownCurveError
	return errors.As(err, &parseErr) ||
		errors.As(err, &unknownCurve) ||
		errors.Is(err, service.ErrEmptyCurveSet) ||
		errors.Is(err, service.ErrInconsistentSampleCount) ||
		errors.Is(err, service.ErrEmptyUpload) ||
		errors.Is(err, service.ErrFileTooLarge)
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Upload a LAS file
// @Description  Accepts one LAS file as multipart field 'file', parses it, detects the depth curve, and stores it under the caller.
// @Tags         files
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "LAS file"
// @Success      200   {object}  map[string]interface{}  "status, file"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/files [post]
// @Security     BearerAuth
func (h *Handler) uploadFile(c *gin.Context) {
	userID := c.GetInt(userIdKey)

	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errMissingFile})
		return
	}
	src, err := fh.Open()
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errReadUpload, "file_open_failed", err, "name", fh.Filename)
		return
	}
	defer func() { _ = src.Close() }()

	data, err := io.ReadAll(src)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errReadUpload, "file_read_failed", err, "name", fh.Filename)
		return
	}

	f, err := h.services.Files.Upload(c.Request.Context(), userID, fh.Filename, data)
	if err != nil {
		if badInput(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errSaveUpload, "file_upload_failed", err, "name", fh.Filename)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": statusUploaded,
		"file":   fileSummary(f),
	})
}

// @Summary      List uploaded files
// @Tags         files
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, files"
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/files [get]
// @Security     BearerAuth
func (h *Handler) listFiles(c *gin.Context) {
	userID := c.GetInt(userIdKey)

	files, err := h.services.Files.List(c.Request.Context(), userID)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errListFiles, "files_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count": len(files),
		"files": files,
	})
}

// @Summary      Get file details
// @Description  Returns header metadata, curve names, and sample count for one upload.
// @Tags         files
// @Produce      json
// @Param        id  path  string  true  "File ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/files/{id} [get]
// @Security     BearerAuth
func (h *Handler) getFile(c *gin.Context) {
	userID := c.GetInt(userIdKey)
	id := c.Param("id")

	f, err := h.services.Files.Get(c.Request.Context(), userID, id)
	if err != nil {
		if errors.Is(err, service.ErrFileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errGetFile, "file_get_failed", err, "id", id)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"file":   fileSummary(f),
		"header": f.Header,
	})
}

// @Summary      Plot a curve against depth
// @Description  Returns x/y arrays and labels ready for client-side rendering. 'depth' defaults to the curve detected at upload.
// @Tags         files
// @Produce      json
// @Param        id     path   string  true   "File ID"
// @Param        curve  query  string  true   "Curve to plot (y-axis)"
// @Param        depth  query  string  false  "Depth curve override (x-axis)"
// @Success      200  {object}  models.PlotRequest
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/files/{id}/plot [get]
// @Security     BearerAuth
func (h *Handler) plotCurve(c *gin.Context) {
	userID := c.GetInt(userIdKey)
	id := c.Param("id")

	curve := c.Query("curve")
	if curve == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": errCurveQuery})
		return
	}
	depth := c.Query("depth")

	req, err := h.services.Files.BuildPlot(c.Request.Context(), userID, id, depth, curve)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFileNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case badInput(err):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.logAndJSONError(c, http.StatusInternalServerError, errBuildPlot, "plot_failed", err, "id", id, "curve", curve)
		}
		return
	}
	c.JSON(http.StatusOK, req)
}

// @Summary      Delete a file
// @Tags         files
// @Produce      json
// @Param        id  path  string  true  "File ID"
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/files/{id} [delete]
// @Security     BearerAuth
func (h *Handler) deleteFile(c *gin.Context) {
	userID := c.GetInt(userIdKey)
	id := c.Param("id")

	if err := h.services.Files.Delete(c.Request.Context(), userID, id); err != nil {
		if errors.Is(err, service.ErrFileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errDeleteFile, "file_delete_failed", err, "id", id)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusDeleted})
}

// fileSummary strips bulky curve samples from API responses; clients get
// names and counts, and fetch samples through the plot endpoint.
func fileSummary(f models.LogFile) gin.H {
	out := gin.H{
		"id":            f.ID,
		"name":          f.Name,
		"size_bytes":    f.SizeBytes,
		"depth_curve":   f.DepthCurve,
		"depth_guessed": f.DepthGuessed,
		"uploaded_at":   f.UploadedAt,
	}
	if f.Curves != nil {
		out["curves"] = f.Curves.Names()
		out["samples"] = f.Curves.SampleCount()
	}
	return out
}
