package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/artmart-next/internal/config"
	"github.com/artmart-next/internal/constants"
	"github.com/artmart-next/internal/models"
	"github.com/artmart-next/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeImageStore struct {
	mu      sync.Mutex
	saved   []string
	removed []string
	failAt  int
}

func (s *fakeImageStore) SaveFile(file *multipart.FileHeader, scene string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAt > 0 && len(s.saved)+1 == s.failAt {
		return "", fmt.Errorf("%w: disk full", ErrUploadFailed)
	}
	url := fmt.Sprintf("/uploads/%s/%d-%s", scene, len(s.saved), file.Filename)
	s.saved = append(s.saved, url)
	return url, nil
}

func (s *fakeImageStore) RemoveFile(url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removed = append(s.removed, url)
	return nil
}

type fakeHasher struct {
	fail bool
}

func (h fakeHasher) Hash(_ context.Context, file *multipart.FileHeader) (string, error) {
	if h.fail {
		return "", errors.New("corrupt image")
	}
	return "hash-" + file.Filename, nil
}

func validArtworkInput(t *testing.T) CreateArtworkInput {
	return CreateArtworkInput{
		Title:       "Lagos at Dusk",
		Description: "Oil on canvas, evening traffic on Third Mainland Bridge",
		Price:       decimal.RequireFromString("2500.50"),
		Dimensions:  "60 x 90 x 3.5",
		Weight:      decimal.RequireFromString("4.2"),
		Condition:   constants.ConditionNew,
		Category:    constants.CategoryPainting,
		Stock:       StockInput{Quantity: 3},
		Images:      pngFiles(t, 2),
	}
}

func TestCreateArtworkPersistsArtworkAndImages(t *testing.T) {
	db := setupServiceTestDB(t)
	artist := seedArtist(t, db, "artist@example.com")
	store := &fakeImageStore{}
	svc := NewCatalogService(repository.NewArtworkRepository(db), store, fakeHasher{})

	input := validArtworkInput(t)
	input.Title = "<b>Lagos</b> at Dusk"
	artwork, err := svc.CreateArtwork(context.Background(), artist.ID, input)
	require.NoError(t, err)

	assert.Equal(t, "Lagos at Dusk", artwork.Title)
	assert.Equal(t, int64(250050), artwork.Price)
	require.NotNil(t, artwork.Stock)
	assert.Equal(t, 3, *artwork.Stock)

	got, err := svc.GetArtwork(artist.ID, artwork.ID)
	require.NoError(t, err)
	require.Len(t, got.Images, 2)
	assert.Equal(t, "hash-art-0.png", got.Images[0].Blurhash)
	assert.Equal(t, store.saved[0], got.Images[0].URL)
	assert.Empty(t, store.removed)
}

func TestCreateArtworkSmallestPriceIsOneKobo(t *testing.T) {
	db := setupServiceTestDB(t)
	artist := seedArtist(t, db, "artist@example.com")
	svc := NewCatalogService(repository.NewArtworkRepository(db), &fakeImageStore{}, fakeHasher{})

	input := validArtworkInput(t)
	input.Price = decimal.RequireFromString("0.01")
	artwork, err := svc.CreateArtwork(context.Background(), artist.ID, input)
	require.NoError(t, err)
	assert.Equal(t, int64(1), artwork.Price)
}

func TestCreateArtworkUnlimitedStockStoresNull(t *testing.T) {
	db := setupServiceTestDB(t)
	artist := seedArtist(t, db, "artist@example.com")
	svc := NewCatalogService(repository.NewArtworkRepository(db), &fakeImageStore{}, fakeHasher{})

	input := validArtworkInput(t)
	input.Stock = StockInput{Quantity: 0}.WithUnlimited(true)
	artwork, err := svc.CreateArtwork(context.Background(), artist.ID, input)
	require.NoError(t, err)

	var stored models.Artwork
	require.NoError(t, db.First(&stored, artwork.ID).Error)
	assert.Nil(t, stored.Stock)
	assert.True(t, stored.UnlimitedStock())
}

func TestCreateArtworkValidation(t *testing.T) {
	db := setupServiceTestDB(t)
	artist := seedArtist(t, db, "artist@example.com")
	store := &fakeImageStore{}
	svc := NewCatalogService(repository.NewArtworkRepository(db), store, fakeHasher{})

	cases := []struct {
		name  string
		field string
		edit  func(in *CreateArtworkInput)
	}{
		{"short title", "title", func(in *CreateArtworkInput) { in.Title = "<i>ab</i>" }},
		{"short description", "description", func(in *CreateArtworkInput) { in.Description = "too short" }},
		{"zero price", "price", func(in *CreateArtworkInput) { in.Price = decimal.Zero }},
		{"sub-kobo price", "price", func(in *CreateArtworkInput) { in.Price = decimal.RequireFromString("0.004") }},
		{"three decimal price", "price", func(in *CreateArtworkInput) { in.Price = decimal.RequireFromString("1500.125") }},
		{"negative weight", "weight", func(in *CreateArtworkInput) { in.Weight = decimal.NewFromInt(-1) }},
		{"bad dimensions", "dimensions", func(in *CreateArtworkInput) { in.Dimensions = "60 by 90" }},
		{"unknown condition", "condition", func(in *CreateArtworkInput) { in.Condition = "MINT" }},
		{"unknown category", "category", func(in *CreateArtworkInput) { in.Category = "POTTERY" }},
		{"zero stock", "stock", func(in *CreateArtworkInput) { in.Stock = StockInput{} }},
		{"one image", "images", func(in *CreateArtworkInput) { in.Images = in.Images[:1] }},
		{"five images", "images", func(in *CreateArtworkInput) { in.Images = pngFiles(t, 5) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validArtworkInput(t)
			tc.edit(&input)
			_, err := svc.CreateArtwork(context.Background(), artist.ID, input)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tc.field)
			assert.True(t, errors.Is(err, ErrValidation))
		})
	}
	assert.Empty(t, store.saved, "validation failures must not upload")
}

func TestCreateArtworkRemovesUploadsWhenPreviewHashFails(t *testing.T) {
	db := setupServiceTestDB(t)
	artist := seedArtist(t, db, "artist@example.com")
	store := &fakeImageStore{}
	svc := NewCatalogService(repository.NewArtworkRepository(db), store, fakeHasher{fail: true})

	_, err := svc.CreateArtwork(context.Background(), artist.ID, validArtworkInput(t))
	require.ErrorIs(t, err, ErrPreviewHashFailed)
	assert.ElementsMatch(t, store.saved, store.removed)

	var count int64
	require.NoError(t, db.Model(&models.Artwork{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateArtworkRemovesEarlierUploadsWhenUploadFails(t *testing.T) {
	db := setupServiceTestDB(t)
	artist := seedArtist(t, db, "artist@example.com")
	store := &fakeImageStore{failAt: 2}
	svc := NewCatalogService(repository.NewArtworkRepository(db), store, fakeHasher{})

	_, err := svc.CreateArtwork(context.Background(), artist.ID, validArtworkInput(t))
	require.ErrorIs(t, err, ErrUploadFailed)
	assert.Equal(t, store.saved, store.removed)
}

func TestCreateArtworkRemovesUploadsWhenInsertFails(t *testing.T) {
	db := setupServiceTestDB(t)
	artist := seedArtist(t, db, "artist@example.com")
	store := &fakeImageStore{}
	svc := NewCatalogService(repository.NewArtworkRepository(db), store, fakeHasher{})
	require.NoError(t, db.Migrator().DropTable(&models.Image{}))

	_, err := svc.CreateArtwork(context.Background(), artist.ID, validArtworkInput(t))
	require.Error(t, err)
	assert.Len(t, store.removed, 2)

	var count int64
	require.NoError(t, db.Model(&models.Artwork{}).Count(&count).Error)
	assert.Zero(t, count, "artwork insert must roll back with images")
}

func TestListArtworksPagination(t *testing.T) {
	db := setupServiceTestDB(t)
	artist := seedArtist(t, db, "artist@example.com")
	other := seedArtist(t, db, "other@example.com")
	for i := 0; i < 5; i++ {
		seedArtwork(t, db, artist.ID, fmt.Sprintf("Study %d", i), nil)
	}
	seedArtwork(t, db, artist.ID, "Sunset over Lekki", nil)
	seedArtwork(t, db, other.ID, "Sunset elsewhere", nil)
	svc := NewCatalogService(repository.NewArtworkRepository(db), &fakeImageStore{}, fakeHasher{})

	page, err := svc.ListArtworks(artist.ID, ListArtworksInput{Page: 1, Limit: 4})
	require.NoError(t, err)
	assert.Len(t, page.Items, 4)
	assert.Equal(t, PageInfo{CurrentPage: 1, TotalPages: 2, TotalItems: 6}, page.Pagination)

	beyond, err := svc.ListArtworks(artist.ID, ListArtworksInput{Page: 5, Limit: 4})
	require.NoError(t, err)
	assert.Empty(t, beyond.Items)
	assert.NotNil(t, beyond.Items)
	assert.Equal(t, int64(6), beyond.Pagination.TotalItems)
	assert.Equal(t, 2, beyond.Pagination.TotalPages)

	search, err := svc.ListArtworks(artist.ID, ListArtworksInput{Page: 1, Limit: 10, Search: "SUNSET"})
	require.NoError(t, err)
	require.Len(t, search.Items, 1)
	assert.Equal(t, "Sunset over Lekki", search.Items[0].Title)
	assert.Equal(t, int64(1), search.Pagination.TotalItems)

	_, err = svc.ListArtworks(artist.ID, ListArtworksInput{Page: 0, Limit: 101})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "page")
	assert.Contains(t, verr.Fields, "limit")
}

func TestGetArtworkIsScopedToArtist(t *testing.T) {
	db := setupServiceTestDB(t)
	artist := seedArtist(t, db, "artist@example.com")
	other := seedArtist(t, db, "other@example.com")
	artwork := seedArtwork(t, db, artist.ID, "Private piece", nil)
	svc := NewCatalogService(repository.NewArtworkRepository(db), &fakeImageStore{}, fakeHasher{})

	_, err := svc.GetArtwork(other.ID, artwork.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.GetArtwork(artist.ID, artwork.ID+100)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStockInputKeepsQuantityAcrossToggle(t *testing.T) {
	stock := StockInput{Quantity: 7}
	unlimited := stock.WithUnlimited(true)
	assert.Nil(t, unlimited.Value())
	restored := unlimited.WithUnlimited(false)
	require.NotNil(t, restored.Value())
	assert.Equal(t, 7, *restored.Value())
}

func TestCreateArtworkWithDiskStorageAndBlurhash(t *testing.T) {
	db := setupServiceTestDB(t)
	artist := seedArtist(t, db, "artist@example.com")
	dir := t.TempDir()
	uploads := NewUploadService(&config.Config{Upload: config.UploadConfig{
		Dir:               dir,
		MaxSize:           5 << 20,
		AllowedTypes:      []string{"image/png", "image/jpeg", "image/webp"},
		AllowedExtensions: []string{".png", ".jpg", ".jpeg", ".webp"},
	}})
	uploads.now = func() time.Time { return time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC) }
	svc := NewCatalogService(repository.NewArtworkRepository(db), uploads, NewBlurhashService())

	artwork, err := svc.CreateArtwork(context.Background(), artist.ID, validArtworkInput(t))
	require.NoError(t, err)
	require.Len(t, artwork.Images, 2)
	for _, img := range artwork.Images {
		assert.Regexp(t, `^/uploads/artworks/2026/03/[0-9a-f-]+\.png$`, img.URL)
		assert.NotEmpty(t, img.Blurhash)
		rel, ok := uploads.pathFromURL(img.URL)
		require.True(t, ok)
		_, statErr := os.Stat(rel)
		assert.NoError(t, statErr)
		assert.Equal(t, dir, filepath.Dir(filepath.Dir(filepath.Dir(filepath.Dir(rel)))))
	}
}
