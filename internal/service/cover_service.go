package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"bookden/internal/config"
	"bookden/internal/models"
	"bookden/internal/repository"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder
	"gorm.io/gorm"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

const (
	DefaultCoverUploadDir       = "/tmp/bookden/uploads/covers"
	DefaultCoverMaxUploadSizeMB = 5
	CoverMaxSize                = 1024
	CoverWebPQuality            = 75
)

// CoverService normalizes uploaded cover art: every accepted image is
// re-encoded to WebP, downscaled to fit CoverMaxSize, and stored under a
// content-derived filename.
type CoverService struct {
	bookRepo           repository.BookRepository
	uploadDir          string
	maxUploadSizeBytes int64
}

type UploadCoverInput struct {
	BookID      uint
	Filename    string
	ContentType string
	Content     []byte
}

func NewCoverService(bookRepo repository.BookRepository, cfg *config.Config) *CoverService {
	uploadDir := DefaultCoverUploadDir
	maxUploadSizeMB := DefaultCoverMaxUploadSizeMB

	if cfg != nil {
		if cfg.CoverUploadDir != "" {
			uploadDir = cfg.CoverUploadDir
		}
		if cfg.CoverMaxUploadSizeMB > 0 {
			maxUploadSizeMB = cfg.CoverMaxUploadSizeMB
		}
	}

	return &CoverService{
		bookRepo:           bookRepo,
		uploadDir:          uploadDir,
		maxUploadSizeBytes: int64(maxUploadSizeMB) * 1024 * 1024,
	}
}

// Upload stores a new cover for the book and returns the updated record.
func (s *CoverService) Upload(ctx context.Context, in UploadCoverInput) (*models.Book, error) {
	if len(in.Content) == 0 {
		return nil, models.NewValidationError("No file uploaded")
	}
	if int64(len(in.Content)) > s.maxUploadSizeBytes {
		return nil, models.NewValidationError(fmt.Sprintf("File too large (max %dMB)", s.maxUploadSizeBytes/(1024*1024)))
	}

	detectedType := http.DetectContentType(in.Content)
	if !isAllowedCoverMIME(detectedType) {
		return nil, models.NewValidationError("Invalid image type")
	}

	decoded, _, err := image.Decode(bytes.NewReader(in.Content))
	if err != nil {
		return nil, models.NewValidationError("Invalid image file")
	}

	book, err := s.bookRepo.GetByID(ctx, in.BookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError(models.CodeBookNotFound, "Book", in.BookID)
		}
		return nil, err
	}

	scaled := resizeToFit(decoded, CoverMaxSize, CoverMaxSize)
	encoded, err := encodeWebP(scaled, CoverWebPQuality)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	rel := coverFilename(in.BookID, encoded)
	abs := filepath.Join(s.uploadDir, rel)
	if err := writeBytesToFile(abs, encoded); err != nil {
		return nil, models.NewInternalError(err)
	}

	coverURL := "/media/covers/" + rel
	if err := s.bookRepo.UpdateCoverURL(ctx, in.BookID, coverURL); err != nil {
		_ = os.Remove(abs)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError(models.CodeBookNotFound, "Book", in.BookID)
		}
		return nil, err
	}

	book.CoverURL = coverURL
	return book, nil
}

// ResolveForServing maps a cover filename back to its on-disk path,
// rejecting anything that is not a name this service generated.
func (s *CoverService) ResolveForServing(name string) (string, error) {
	if !isValidCoverName(name) {
		return "", models.NewValidationError("Invalid cover name")
	}
	abs := filepath.Join(s.uploadDir, name)
	if _, err := os.Stat(abs); err != nil {
		return "", models.NewNotFoundError(models.CodeBookNotFound, "Cover", name)
	}
	return abs, nil
}

// coverFilename derives a stable name from the book and the encoded bytes,
// so re-uploading identical art is idempotent on disk.
func coverFilename(bookID uint, encoded []byte) string {
	h := sha256.New()
	_, _ = fmt.Fprintf(h, "%d:", bookID)
	h.Write(encoded)
	return fmt.Sprintf("%d-%s.webp", bookID, hex.EncodeToString(h.Sum(nil))[:16])
}

// isValidCoverName admits only "<digits>-<lowercase hex>.webp", which rules
// out path traversal via crafted names.
func isValidCoverName(name string) bool {
	rest, ok := strings.CutSuffix(name, ".webp")
	if !ok {
		return false
	}
	id, hash, ok := strings.Cut(rest, "-")
	if !ok || id == "" || hash == "" {
		return false
	}
	for _, c := range id {
		if c < '0' || c > '9' {
			return false
		}
	}
	for _, c := range hash {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

func resizeToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w <= 0 || h <= 0 {
		return src
	}
	if w <= maxWidth && h <= maxHeight {
		return src
	}

	scaleW := float64(maxWidth) / float64(w)
	scaleH := float64(maxHeight) / float64(h)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}
	newW := int(float64(w) * scale)
	newH := int(float64(h) * scale)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}

func encodeWebP(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := webp.Encode(buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func isAllowedCoverMIME(contentType string) bool {
	switch normalizeContentType(contentType) {
	case "image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}

func normalizeContentType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}

func writeBytesToFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
