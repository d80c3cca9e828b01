package upload

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const MaxFileSize = 20 * 1024 * 1024 // 20 MB

// Accepted kinds. Inspection images and the PDF report go through separate
// endpoints, so the allowed set is constrained per call.
var (
	imageMimeTypes = map[string]bool{
		"image/jpeg": true,
		"image/png":  true,
		"image/webp": true,
	}
	pdfMimeTypes = map[string]bool{
		"application/pdf": true,
	}
)

// Service stores files on local disk and records them in the database.
type Service struct {
	db         *gorm.DB
	baseDir    string
	staticBase string
}

func NewService(db *gorm.DB, baseDir, staticBase string) *Service {
	if baseDir == "" {
		baseDir = "./uploads"
	}
	if staticBase == "" {
		staticBase = "/static/uploads"
	}
	return &Service{db: db, baseDir: baseDir, staticBase: staticBase}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Upload{})
}

// SaveImage stores an inspection photo and returns its record.
func (s *Service) SaveImage(ctx context.Context, userID int64, fh *multipart.FileHeader) (*Upload, error) {
	return s.save(ctx, userID, fh, imageMimeTypes)
}

// SavePDF stores an inspection report.
func (s *Service) SavePDF(ctx context.Context, userID int64, fh *multipart.FileHeader) (*Upload, error) {
	return s.save(ctx, userID, fh, pdfMimeTypes)
}

func (s *Service) save(ctx context.Context, userID int64, fh *multipart.FileHeader, allowed map[string]bool) (*Upload, error) {
	if fh.Size == 0 {
		return nil, ErrEmptyFile
	}
	if fh.Size > MaxFileSize {
		return nil, ErrFileTooLarge
	}

	file, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	// Sniff the MIME type from the first 512 bytes, never trust the extension.
	buf := make([]byte, 512)
	n, _ := file.Read(buf)
	mimeType := strings.Split(http.DetectContentType(buf[:n]), ";")[0]

	if !allowed[mimeType] {
		return nil, ErrInvalidMimeType
	}

	if seeker, ok := file.(io.Seeker); ok {
		_, _ = seeker.Seek(0, io.SeekStart)
	}

	now := time.Now()
	relDir := fmt.Sprintf("%d/%02d/%02d", now.Year(), now.Month(), now.Day())
	absDir := filepath.Join(s.baseDir, relDir)
	if err := os.MkdirAll(absDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	id := uuid.New().String()
	ext := filepath.Ext(fh.Filename)
	if ext == "" {
		ext = mimeToExt(mimeType)
	}
	filename := id + ext

	absPath := filepath.Join(absDir, filename)
	dst, err := os.Create(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		_ = os.Remove(absPath)
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	relPath := filepath.Join(relDir, filename)
	fileURL := s.staticBase + "/" + strings.ReplaceAll(relPath, "\\", "/")

	up := &Upload{
		ID:           id,
		UserID:       userID,
		OriginalName: fh.Filename,
		FilePath:     relPath,
		FileURL:      fileURL,
		MimeType:     mimeType,
		Size:         fh.Size,
		CreatedAt:    now,
	}

	if err := s.db.WithContext(ctx).Create(up).Error; err != nil {
		_ = os.Remove(absPath) // roll the file back on DB error
		return nil, fmt.Errorf("failed to save upload record: %w", err)
	}

	return up, nil
}

func mimeToExt(mime string) string {
	switch mime {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "application/pdf":
		return ".pdf"
	default:
		return ".bin"
	}
}
