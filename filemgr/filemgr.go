package filemgr

import (
	"errors"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"storefront/utils"

	"github.com/disintegration/imaging"
)

const (
	uploadRoot = "static/uploads"
	thumbWidth = 200
	maxLogoMB  = 5
)

var (
	ErrInvalidExtension = errors.New("invalid file extension")
	ErrFileTooLarge     = errors.New("file size exceeds limit")
)

var allowedLogoExts = []string{".jpg", ".jpeg", ".png", ".webp", ".gif"}

func extAllowed(ext string) bool {
	ext = strings.ToLower(ext)
	for _, a := range allowedLogoExts {
		if ext == a {
			return true
		}
	}
	return false
}

// SaveLogo stores an uploaded store logo under a key derived from the
// store id, generates a thumbnail, and returns the public URL path of
// the full-size image.
func SaveLogo(file multipart.File, header *multipart.FileHeader, storeID string) (string, error) {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !extAllowed(ext) {
		return "", ErrInvalidExtension
	}
	if header.Size > maxLogoMB*1024*1024 {
		return "", ErrFileTooLarge
	}

	dir := filepath.Join(uploadRoot, "storelogo")
	if err := utils.EnsureDir(dir); err != nil {
		return "", err
	}

	img, err := imaging.Decode(file)
	if err != nil {
		return "", fmt.Errorf("decode logo: %w", err)
	}

	fullPath := filepath.Join(dir, storeID+ext)
	if err := imaging.Save(img, fullPath); err != nil {
		return "", fmt.Errorf("save logo: %w", err)
	}

	thumb := imaging.Resize(img, thumbWidth, 0, imaging.Lanczos) // maintain aspect ratio
	thumbPath := filepath.Join(dir, storeID+"_thumb.jpg")
	if err := imaging.Save(thumb, thumbPath); err != nil {
		return "", fmt.Errorf("save logo thumbnail: %w", err)
	}

	return "/" + filepath.ToSlash(fullPath), nil
}

// SaveProductImage stores a product image and its thumbnail, returning
// the public URL path.
func SaveProductImage(file multipart.File, header *multipart.FileHeader, productID string) (string, error) {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !extAllowed(ext) {
		return "", ErrInvalidExtension
	}

	dir := filepath.Join(uploadRoot, "productpic")
	if err := utils.EnsureDir(dir); err != nil {
		return "", err
	}

	img, err := imaging.Decode(file)
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	fullPath := filepath.Join(dir, productID+ext)
	if err := imaging.Save(img, fullPath); err != nil {
		return "", fmt.Errorf("save image: %w", err)
	}

	thumb := imaging.Resize(img, thumbWidth, 0, imaging.Lanczos)
	if err := imaging.Save(thumb, filepath.Join(dir, productID+"_thumb.jpg")); err != nil {
		return "", fmt.Errorf("save thumbnail: %w", err)
	}

	return "/" + filepath.ToSlash(fullPath), nil
}

// Remove deletes a previously saved upload given its public URL path.
func Remove(publicPath string) error {
	clean := strings.TrimPrefix(publicPath, "/")
	if !strings.HasPrefix(clean, uploadRoot) {
		return fmt.Errorf("refusing to remove %q outside upload root", publicPath)
	}
	return os.Remove(clean)
}
