package folio

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/image/draw"

	"github.com/eringen/folio/content"
	"github.com/eringen/folio/views"
)

const (
	maxImageWidth = 1600
	thumbWidth    = 480
	thumbSuffix   = "-thumb"
	jpegQuality   = 82
	maxUploadSize = 20 << 20 // 20MB
	uploadsSubdir = "uploads"
)

// processedImage is an upload ready to write: the display size and the
// card thumbnail, both JPEG.
type processedImage struct {
	meta  content.Image
	full  []byte
	thumb []byte
}

// scaleToWidth returns img scaled down to width, keeping the aspect ratio.
// Narrower images are returned as is.
func scaleToWidth(img image.Image, width int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= width {
		return img
	}
	newH := max(1, h*width/w)
	dst := image.NewRGBA(image.Rect(0, 0, width, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

func encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// processImage decodes an upload, resizes it to the display width and
// builds the thumbnail. The asset name is a fresh UUID.
func processImage(src io.Reader, originalName string) (processedImage, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return processedImage{}, fmt.Errorf("decode image: %w", err)
	}

	full := scaleToWidth(img, maxImageWidth)
	fullData, err := encodeJPEG(full)
	if err != nil {
		return processedImage{}, err
	}
	thumbData, err := encodeJPEG(scaleToWidth(full, thumbWidth))
	if err != nil {
		return processedImage{}, err
	}

	b := full.Bounds()
	return processedImage{
		meta: content.Image{
			Asset:        uuid.NewString() + ".jpg",
			OriginalName: originalName,
			Width:        b.Dx(),
			Height:       b.Dy(),
			Size:         len(fullData),
			UploadedAt:   time.Now().UTC().Format(time.RFC3339),
		},
		full:  fullData,
		thumb: thumbData,
	}, nil
}

func thumbName(asset string) string {
	return strings.TrimSuffix(asset, ".jpg") + thumbSuffix + ".jpg"
}

func (a *App) uploadsDir() string {
	return filepath.Join(a.staticDir, uploadsSubdir)
}

func (a *App) handleImageUpload(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}

	file, err := c.FormFile("image")
	if err != nil {
		return c.String(http.StatusBadRequest, "No image file provided")
	}
	if file.Size > maxUploadSize {
		return c.String(http.StatusBadRequest, "File too large (max 20MB)")
	}

	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	img, err := processImage(src, file.Filename)
	if err != nil {
		return c.String(http.StatusBadRequest, "Invalid image: "+err.Error())
	}

	dir := a.uploadsDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create uploads dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, img.meta.Asset), img.full, 0o644); err != nil {
		return fmt.Errorf("write image: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, thumbName(img.meta.Asset)), img.thumb, 0o644); err != nil {
		return fmt.Errorf("write thumbnail: %w", err)
	}

	if err := a.Writer.SaveImage(c.Request().Context(), img.meta); err != nil {
		return err
	}
	a.Logger.Info("image uploaded", "asset", img.meta.Asset, "original", img.meta.OriginalName, "bytes", img.meta.Size)
	return a.renderImageList(c)
}

func (a *App) handleImageDelete(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}

	asset := c.Param("asset")
	if asset == "" || filepath.Base(asset) != asset || strings.HasPrefix(asset, ".") {
		return c.String(http.StatusBadRequest, "Invalid asset")
	}

	// Files may already be gone.
	_ = os.Remove(filepath.Join(a.uploadsDir(), asset))
	_ = os.Remove(filepath.Join(a.uploadsDir(), thumbName(asset)))

	if err := a.Writer.DeleteImage(c.Request().Context(), asset); err != nil {
		return err
	}
	return a.renderImageList(c)
}

func (a *App) handleImageList(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	return a.renderImageList(c)
}

func (a *App) renderImageList(c echo.Context) error {
	images, err := a.Writer.ListImages(c.Request().Context())
	if err != nil {
		return err
	}
	rows := make([]views.ImageRow, 0, len(images))
	for _, img := range images {
		u, _ := a.Resolver.ThumbURL(content.ImageRef{Asset: img.Asset})
		rows = append(rows, views.ImageRow{Image: img, URL: u})
	}
	return Render(c, a.Views.AdminImages(a.site(c), rows, CsrfToken(c)))
}
