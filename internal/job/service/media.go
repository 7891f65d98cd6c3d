package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/laktaabhutan/LAK-Goods-Transport-Application/ctxutil"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/ecode"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/internal/job/structs"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/nanoid"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/oss"
)

const mediaPrefix = "jobs/"

// checkImages validates count, extension and declared size before anything is stored.
func (s *JobService) checkImages(uploads []structs.ImageUpload) error {
	if len(uploads) > s.conf.MaxImages {
		return ecode.ValidationFields(ecode.FieldIsInvalid("images"), map[string]string{
			"images": fmt.Sprintf("At most %d images are allowed.", s.conf.MaxImages),
		})
	}
	for _, u := range uploads {
		if u.Reader == nil {
			return ecode.Validation(ecode.FieldIsEmpty("image " + u.Filename))
		}
		if !oss.IsImage(filepath.Ext(u.Filename)) {
			return ecode.ValidationFields(ecode.FieldIsInvalid("images"), map[string]string{
				"images": fmt.Sprintf("'%s' is not a supported image.", u.Filename),
			})
		}
		if u.Size > s.conf.MaxImageSize {
			return tooLarge(u.Filename, s.conf.MaxImageSize)
		}
	}
	return nil
}

// uploadImages stores the uploads under jobs/<key>.<ext>. On failure the
// objects stored so far are removed again.
func (s *JobService) uploadImages(ctx context.Context, uploads []structs.ImageUpload) ([]structs.Image, error) {
	if len(uploads) == 0 {
		return []structs.Image{}, nil
	}
	if err := s.checkImages(uploads); err != nil {
		return nil, err
	}
	if s.media == nil {
		return nil, ecode.Internal("media store is not configured")
	}

	images := make([]structs.Image, 0, len(uploads))
	for _, u := range uploads {
		key := mediaPrefix + nanoid.Lower(16) + strings.ToLower(filepath.Ext(u.Filename))

		obj, err := s.media.Put(ctx, key, io.LimitReader(u.Reader, s.conf.MaxImageSize+1), u.Size)
		if err != nil {
			s.removeImages(ctx, images)
			return nil, ecode.Unavailable("failed to store image", err)
		}
		if obj != nil && obj.Size > s.conf.MaxImageSize {
			s.removeImages(ctx, append(images, structs.Image{Key: key}))
			return nil, tooLarge(u.Filename, s.conf.MaxImageSize)
		}

		url, err := s.media.GetURL(ctx, key)
		if err != nil {
			s.removeImages(ctx, append(images, structs.Image{Key: key}))
			return nil, ecode.Unavailable("failed to resolve image url", err)
		}
		images = append(images, structs.Image{Key: key, URL: url})
	}
	return images, nil
}

// removeImages deletes the objects best effort; failures are only logged.
func (s *JobService) removeImages(ctx context.Context, images []structs.Image) {
	if s.media == nil || len(images) == 0 {
		return
	}
	ctx, cancel := ctxutil.WithAsyncContextDefault(ctx)
	defer cancel()
	for _, img := range images {
		if img.Key == "" {
			continue
		}
		if err := s.media.Delete(ctx, img.Key); err != nil {
			s.logger.Warn(ctx, "failed to remove image", "key", img.Key, "error", err)
		}
	}
}

func tooLarge(name string, limit int64) error {
	return ecode.ValidationFields(ecode.FieldIsInvalid("images"), map[string]string{
		"images": fmt.Sprintf("'%s' exceeds the maximum size of %d bytes.", name, limit),
	})
}
