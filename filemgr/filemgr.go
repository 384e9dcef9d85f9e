package filemgr

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"bena/utils"

	"github.com/disintegration/imaging"
)

const userPicDir = "static/userpic"

const avatarSize = 256

// SaveAvatar decodes an uploaded image, crops it to a square thumbnail
// and writes it under static/userpic. Returns the public URL path.
func SaveAvatar(file multipart.File, header *multipart.FileHeader, userID string) (string, error) {
	img, err := imaging.Decode(file, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("decode avatar: %w", err)
	}

	thumb := imaging.Fill(img, avatarSize, avatarSize, imaging.Center, imaging.Lanczos)

	if err := utils.EnsureDir(userPicDir); err != nil {
		return "", fmt.Errorf("ensure dir: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".png" {
		ext = ".jpg"
	}
	name := utils.SanitizeFilename(userID) + ext
	dest := filepath.Join(userPicDir, name)

	if err := imaging.Save(thumb, dest); err != nil {
		return "", fmt.Errorf("save avatar: %w", err)
	}

	return "/" + userPicDir + "/" + name, nil
}
