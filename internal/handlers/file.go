package handlers

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

type FileHandler struct {
	UploadDir string
	BaseURL   string
}

// Upload stores a multipart file under UploadDir and answers with the public
// URL it will be served from. Filenames are replaced with a timestamp to
// avoid collisions and path tricks.
func (h *FileHandler) Upload(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "No file uploaded")
	}

	src, err := fh.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}
	defer src.Close()

	name := strconv.FormatInt(time.Now().UnixNano(), 10)
	if ext := strings.ToLower(filepath.Ext(fh.Filename)); ext != "" {
		name += ext
	}

	if err := os.MkdirAll(h.UploadDir, 0o755); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}

	dst, err := os.Create(filepath.Join(h.UploadDir, name))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}

	url := fmt.Sprintf("%s/%s", strings.TrimRight(h.BaseURL, "/"), path.Join("uploads", name))
	return c.JSON(http.StatusOK, echo.Map{"url": url})
}
