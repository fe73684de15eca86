package service

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/artmart-next/internal/config"
	"github.com/artmart-next/internal/logger"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/google/uuid"
)

const (
	defaultUploadDir   = "uploads"
	uploadURLPrefix    = "/uploads"
	UploadSceneArtwork = "artworks"
	uploadSceneCommon  = "common"
)

var allowedUploadScenes = map[string]struct{}{
	UploadSceneArtwork: {},
	uploadSceneCommon:  {},
}

// UploadService 本地磁盘文件存储
type UploadService struct {
	cfg *config.Config
	now func() time.Time
}

// NewUploadService 创建文件上传服务实例
func NewUploadService(cfg *config.Config) *UploadService {
	return &UploadService{cfg: cfg, now: time.Now}
}

// SaveFile 保存上传文件，返回对外访问 URL
func (s *UploadService) SaveFile(file *multipart.FileHeader, scene string) (string, error) {
	if file == nil {
		return "", fmt.Errorf("%w: empty file", ErrUploadFailed)
	}
	if s.cfg.Upload.MaxSize > 0 && file.Size > s.cfg.Upload.MaxSize {
		return "", fmt.Errorf("%w: file exceeds %d MB", ErrUploadFailed, s.cfg.Upload.MaxSize/1024/1024)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if len(s.cfg.Upload.AllowedExtensions) > 0 {
		if ext == "" || !isAllowedExtension(ext, s.cfg.Upload.AllowedExtensions) {
			return "", fmt.Errorf("%w: extension not allowed: %s", ErrUploadFailed, ext)
		}
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	defer src.Close()

	contentType, err := sniffContentType(src)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	if len(s.cfg.Upload.AllowedTypes) > 0 && !containsFold(s.cfg.Upload.AllowedTypes, contentType) {
		return "", fmt.Errorf("%w: content type not allowed: %s", ErrUploadFailed, contentType)
	}

	if strings.HasPrefix(contentType, "image/") {
		width, height, err := decodeImageDimensions(src, contentType)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
		}
		if s.cfg.Upload.MaxWidth > 0 && width > s.cfg.Upload.MaxWidth {
			return "", fmt.Errorf("%w: image width exceeds %d", ErrUploadFailed, s.cfg.Upload.MaxWidth)
		}
		if s.cfg.Upload.MaxHeight > 0 && height > s.cfg.Upload.MaxHeight {
			return "", fmt.Errorf("%w: image height exceeds %d", ErrUploadFailed, s.cfg.Upload.MaxHeight)
		}
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	normalizedScene := normalizeUploadScene(scene)
	now := s.now()
	year := now.Format("2006")
	month := now.Format("01")
	filename := uuid.NewString() + ext
	savePath := filepath.Join(s.rootDir(), normalizedScene, year, month, filename)

	if err := os.MkdirAll(filepath.Dir(savePath), 0o755); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	dst, err := os.Create(savePath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		_ = os.Remove(savePath)
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(savePath)
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	return fmt.Sprintf("%s/%s/%s/%s/%s", uploadURLPrefix, normalizedScene, year, month, filename), nil
}

// RemoveFile 删除由 SaveFile 写入的文件，文件不存在时忽略
func (s *UploadService) RemoveFile(url string) error {
	path, ok := s.pathFromURL(url)
	if !ok {
		return fmt.Errorf("%w: unknown upload url %q", ErrUploadFailed, url)
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	logger.Debugw("upload_removed", "url", url)
	return nil
}

// RootDir 返回存储根目录，供静态文件路由使用
func (s *UploadService) RootDir() string {
	return s.rootDir()
}

func (s *UploadService) rootDir() string {
	dir := strings.TrimSpace(s.cfg.Upload.Dir)
	if dir == "" {
		return defaultUploadDir
	}
	return dir
}

func (s *UploadService) pathFromURL(url string) (string, bool) {
	rel := strings.TrimPrefix(url, uploadURLPrefix+"/")
	if rel == url || rel == "" {
		return "", false
	}
	clean := filepath.Clean(filepath.FromSlash(rel))
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", false
	}
	return filepath.Join(s.rootDir(), clean), true
}

func sniffContentType(src io.ReadSeeker) (string, error) {
	buffer := make([]byte, 512)
	n, err := src.Read(buffer)
	if err != nil && err != io.EOF {
		return "", err
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return http.DetectContentType(buffer[:n]), nil
}

func normalizeUploadScene(raw string) string {
	value := strings.ToLower(strings.TrimSpace(raw))
	if _, ok := allowedUploadScenes[value]; ok {
		return value
	}
	return uploadSceneCommon
}

func containsFold(values []string, target string) bool {
	for _, v := range values {
		if strings.EqualFold(strings.TrimSpace(v), target) {
			return true
		}
	}
	return false
}

func isAllowedExtension(ext string, allowed []string) bool {
	for _, allowedExt := range allowed {
		normalized := strings.ToLower(strings.TrimSpace(allowedExt))
		if normalized == "" {
			continue
		}
		if !strings.HasPrefix(normalized, ".") {
			normalized = "." + normalized
		}
		if strings.EqualFold(ext, normalized) {
			return true
		}
	}
	return false
}

func decodeImageDimensions(src io.ReadSeeker, contentType string) (int, int, error) {
	if strings.EqualFold(contentType, "image/webp") {
		width, height, err := decodeWebPDimensions(src)
		if err != nil {
			return 0, 0, fmt.Errorf("decode webp header: %w", err)
		}
		return width, height, nil
	}

	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return 0, 0, err
	}
	cfg, _, err := image.DecodeConfig(src)
	if err != nil {
		return 0, 0, fmt.Errorf("decode image config: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}

// decodeWebPDimensions 只读取 RIFF chunk 头部获取尺寸
func decodeWebPDimensions(src io.ReadSeeker) (int, int, error) {
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return 0, 0, err
	}

	header := make([]byte, 12)
	if _, err := io.ReadFull(src, header); err != nil {
		return 0, 0, err
	}
	if string(header[0:4]) != "RIFF" || string(header[8:12]) != "WEBP" {
		return 0, 0, errors.New("invalid webp header")
	}

	for {
		chunkHeader := make([]byte, 8)
		if _, err := io.ReadFull(src, chunkHeader); err != nil {
			return 0, 0, err
		}
		chunkType := string(chunkHeader[0:4])
		chunkSize := int(binary.LittleEndian.Uint32(chunkHeader[4:8]))
		if chunkSize < 0 {
			return 0, 0, errors.New("invalid webp chunk")
		}

		data := make([]byte, chunkSize)
		if _, err := io.ReadFull(src, data); err != nil {
			return 0, 0, err
		}

		switch chunkType {
		case "VP8X":
			if len(data) < 10 {
				return 0, 0, errors.New("short VP8X chunk")
			}
			width := 1 + int(data[4]) + int(data[5])<<8 + int(data[6])<<16
			height := 1 + int(data[7]) + int(data[8])<<8 + int(data[9])<<16
			return width, height, nil
		case "VP8 ":
			if len(data) < 10 {
				return 0, 0, errors.New("short VP8 chunk")
			}
			width := int(binary.LittleEndian.Uint16(data[6:8]) & 0x3FFF)
			height := int(binary.LittleEndian.Uint16(data[8:10]) & 0x3FFF)
			return width, height, nil
		case "VP8L":
			if len(data) < 5 || data[0] != 0x2f {
				return 0, 0, errors.New("invalid VP8L chunk")
			}
			bits := binary.LittleEndian.Uint32(data[1:5])
			width := int(bits&0x3FFF) + 1
			height := int((bits>>14)&0x3FFF) + 1
			return width, height, nil
		}

		if chunkSize%2 == 1 {
			if _, err := src.Seek(1, io.SeekCurrent); err != nil {
				return 0, 0, err
			}
		}
	}
}
