package service

import (
	"context"
	"fmt"
	"image"
	"mime/multipart"

	"github.com/buckket/go-blurhash"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	blurhashXComponents = 4
	blurhashYComponents = 3
	blurhashSampleEdge  = 64
)

// BlurhashService 为上传图片计算 blurhash 预览串
type BlurhashService struct{}

// NewBlurhashService 创建 blurhash 服务
func NewBlurhashService() *BlurhashService {
	return &BlurhashService{}
}

// Hash 解码图片并生成 4x3 分量的 blurhash
func (s *BlurhashService) Hash(ctx context.Context, file *multipart.FileHeader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPreviewHashFailed, err)
	}
	defer src.Close()

	img, _, err := image.Decode(src)
	if err != nil {
		return "", fmt.Errorf("%w: decode %s: %v", ErrPreviewHashFailed, file.Filename, err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	hash, err := blurhash.Encode(blurhashXComponents, blurhashYComponents, downscale(img, blurhashSampleEdge))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPreviewHashFailed, err)
	}
	return hash, nil
}

// downscale 等比缩小到最长边不超过 edge
func downscale(img image.Image, edge int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= edge && h <= edge {
		return img
	}
	tw, th := edge, edge
	if w > h {
		th = max(1, h*edge/w)
	} else {
		tw = max(1, w*edge/h)
	}
	dst := image.NewRGBA(image.Rect(0, 0, tw, th))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
	return dst
}
