package service

import (
	"context"
	"errors"
	"math"
	"mime/multipart"
	"regexp"
	"strings"

	"github.com/artmart-next/internal/constants"
	"github.com/artmart-next/internal/logger"
	"github.com/artmart-next/internal/metrics"
	"github.com/artmart-next/internal/models"
	"github.com/artmart-next/internal/repository"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const (
	minArtworkImages      = 2
	maxArtworkImages      = 4
	minTitleLength        = 3
	minDescriptionLength  = 10
	maxArtworkPageSize    = 100
	maxConcurrentPreviews = 4
)

var dimensionsPattern = regexp.MustCompile(`^\d+(\.\d+)?\s*x\s*\d+(\.\d+)?\s*x\s*\d+(\.\d+)?$`)

// ImageStore 作品图片存储
type ImageStore interface {
	SaveFile(file *multipart.FileHeader, scene string) (string, error)
	RemoveFile(url string) error
}

// PreviewHasher 图片预览哈希生成
type PreviewHasher interface {
	Hash(ctx context.Context, file *multipart.FileHeader) (string, error)
}

// CatalogService 作品目录服务
type CatalogService struct {
	artworkRepo repository.ArtworkRepository
	images      ImageStore
	hasher      PreviewHasher
}

// NewCatalogService 创建作品目录服务
func NewCatalogService(artworkRepo repository.ArtworkRepository, images ImageStore, hasher PreviewHasher) *CatalogService {
	return &CatalogService{artworkRepo: artworkRepo, images: images, hasher: hasher}
}

// ListArtworksInput 作品列表查询参数
type ListArtworksInput struct {
	Page   int
	Limit  int
	Search string
}

// PageInfo 分页信息
type PageInfo struct {
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
	TotalItems  int64 `json:"total_items"`
}

// ArtworkPage 作品分页结果
type ArtworkPage struct {
	Items      []models.Artwork `json:"items"`
	Pagination PageInfo         `json:"pagination"`
}

// StockInput 库存表单模型，切换为无限库存时保留已输入的数量
type StockInput struct {
	Unlimited bool
	Quantity  int
}

// WithUnlimited 切换无限库存开关，Quantity 保持不变
func (s StockInput) WithUnlimited(unlimited bool) StockInput {
	s.Unlimited = unlimited
	return s
}

// Value 转换为持久化的库存值，无限库存为 nil
func (s StockInput) Value() *int {
	if s.Unlimited {
		return nil
	}
	quantity := s.Quantity
	return &quantity
}

// CreateArtworkInput 创建作品参数，Price 单位为奈拉
type CreateArtworkInput struct {
	Title       string
	Description string
	Price       decimal.Decimal
	Dimensions  string
	Weight      decimal.Decimal
	Condition   string
	Category    string
	Stock       StockInput
	Images      []*multipart.FileHeader
}

// ListArtworks 分页查询艺术家作品
func (s *CatalogService) ListArtworks(artistID uint, input ListArtworksInput) (*ArtworkPage, error) {
	errs := fieldErrors{}
	if input.Page < 1 {
		errs.add("page", "Page must be at least 1")
	}
	if input.Limit < 1 || input.Limit > maxArtworkPageSize {
		errs.add("limit", "Limit must be between 1 and 100")
	}
	if err := errs.err(); err != nil {
		return nil, err
	}

	items, total, err := s.artworkRepo.List(repository.ArtworkListFilter{
		ArtistID: artistID,
		Page:     input.Page,
		PageSize: input.Limit,
		Search:   strings.TrimSpace(input.Search),
	})
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.Artwork{}
	}
	return &ArtworkPage{
		Items: items,
		Pagination: PageInfo{
			CurrentPage: input.Page,
			TotalPages:  int(math.Ceil(float64(total) / float64(input.Limit))),
			TotalItems:  total,
		},
	}, nil
}

// GetArtwork 获取艺术家自己的作品，其他艺术家的作品视为不存在
func (s *CatalogService) GetArtwork(artistID, artworkID uint) (*models.Artwork, error) {
	artwork, err := s.artworkRepo.GetByIDForArtist(artistID, artworkID)
	if err != nil {
		return nil, err
	}
	if artwork == nil {
		return nil, ErrNotFound
	}
	return artwork, nil
}

// CreateArtwork 校验并创建作品
// 图片先落盘再计算预览哈希，数据库写入失败时删除已上传文件
func (s *CatalogService) CreateArtwork(ctx context.Context, artistID uint, input CreateArtworkInput) (*models.Artwork, error) {
	title := sanitizeText(input.Title)
	description := sanitizeText(input.Description)
	if err := validateArtworkInput(title, description, input); err != nil {
		return nil, err
	}

	urls, err := s.uploadAll(input.Images)
	if err != nil {
		return nil, err
	}

	hashes, err := s.hashAll(ctx, input.Images)
	if err != nil {
		s.cleanupUploads(urls)
		return nil, err
	}

	artwork := &models.Artwork{
		ArtistID:    artistID,
		Title:       title,
		Description: description,
		Price:       models.KoboFromNaira(input.Price),
		Dimensions:  strings.TrimSpace(input.Dimensions),
		Weight:      input.Weight,
		Condition:   input.Condition,
		Category:    input.Category,
		Stock:       input.Stock.Value(),
	}
	images := make([]models.Image, len(urls))
	for i := range urls {
		images[i] = models.Image{URL: urls[i], Blurhash: hashes[i]}
	}

	err = s.artworkRepo.Transaction(func(tx *gorm.DB) error {
		return s.artworkRepo.WithTx(tx).CreateWithImages(artwork, images)
	})
	if err != nil {
		s.cleanupUploads(urls)
		return nil, err
	}
	artwork.Images = images

	metrics.ArtworksCreatedTotal.Inc()
	logger.Infow("artwork_created", "artist_id", artistID, "artwork_id", artwork.ID, "image_count", len(images))
	return artwork, nil
}

func validateArtworkInput(title, description string, input CreateArtworkInput) error {
	errs := fieldErrors{}
	if len([]rune(title)) < minTitleLength {
		errs.add("title", "Title must be at least 3 characters")
	}
	if len([]rune(description)) < minDescriptionLength {
		errs.add("description", "Description must be at least 10 characters")
	}
	switch {
	case !input.Price.IsPositive() || models.KoboFromNaira(input.Price) < 1:
		errs.add("price", "Price must be greater than 0")
	case !input.Price.Equal(input.Price.Round(2)):
		errs.add("price", "Price can have at most 2 decimal places")
	}
	if !input.Weight.IsPositive() {
		errs.add("weight", "Weight must be greater than 0")
	}
	if !dimensionsPattern.MatchString(strings.TrimSpace(input.Dimensions)) {
		errs.add("dimensions", "Dimensions must be in the format L x W x H")
	}
	if !containsString(constants.ArtworkConditions, input.Condition) {
		errs.add("condition", "Invalid condition")
	}
	if !containsString(constants.ArtworkCategories, input.Category) {
		errs.add("category", "Invalid category")
	}
	if !input.Stock.Unlimited && input.Stock.Quantity < 1 {
		errs.add("stock", "Stock must be a positive whole number")
	}
	if n := len(input.Images); n < minArtworkImages || n > maxArtworkImages {
		errs.add("images", "Upload between 2 and 4 images")
	}
	return errs.err()
}

func (s *CatalogService) uploadAll(files []*multipart.FileHeader) ([]string, error) {
	urls := make([]string, 0, len(files))
	for _, file := range files {
		url, err := s.images.SaveFile(file, UploadSceneArtwork)
		if err != nil {
			s.cleanupUploads(urls)
			if !errors.Is(err, ErrUploadFailed) {
				err = errors.Join(ErrUploadFailed, err)
			}
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func (s *CatalogService) hashAll(ctx context.Context, files []*multipart.FileHeader) ([]string, error) {
	hashes := make([]string, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentPreviews)
	for i, file := range files {
		g.Go(func() error {
			hash, err := s.hasher.Hash(gctx, file)
			if err != nil {
				return err
			}
			hashes[i] = hash
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if !errors.Is(err, ErrPreviewHashFailed) {
			err = errors.Join(ErrPreviewHashFailed, err)
		}
		return nil, err
	}
	return hashes, nil
}

func (s *CatalogService) cleanupUploads(urls []string) {
	for _, url := range urls {
		if err := s.images.RemoveFile(url); err != nil {
			logger.Warnw("artwork_upload_cleanup_failed", "url", url, "error", err)
		}
	}
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
