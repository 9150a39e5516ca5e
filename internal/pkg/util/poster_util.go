package util

import (
	"bytes"
	"fmt"
	"io"

	"github.com/disintegration/imaging"
)

const (
	posterMaxWidth   = 1200
	posterThumbWidth = 320
	posterJPEGLevel  = 85
)

// NormalizePoster 解码任意格式的海报并压成统一 JPEG，过宽的图缩到上限宽度
func NormalizePoster(r io.Reader) (*bytes.Buffer, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("海报解码失败: %w", err)
	}

	if img.Bounds().Dx() > posterMaxWidth {
		img = imaging.Resize(img, posterMaxWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(posterJPEGLevel)); err != nil {
		return nil, fmt.Errorf("海报编码失败: %w", err)
	}
	return &buf, nil
}

// PosterThumbnail 生成列表页用的缩略图
func PosterThumbnail(r io.Reader) (*bytes.Buffer, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("海报解码失败: %w", err)
	}

	thumb := imaging.Resize(img, posterThumbWidth, 0, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(posterJPEGLevel)); err != nil {
		return nil, fmt.Errorf("缩略图编码失败: %w", err)
	}
	return &buf, nil
}
