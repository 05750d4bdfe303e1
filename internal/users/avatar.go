package users

import (
	"encoding/base64"
	"fmt"
	"strings"

	pkgerrors "github.com/akvaproffi/storefront/pkg/errors"
	"github.com/gabriel-vasile/mimetype"
)

var defaultAvatarTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// AvatarPolicy bounds what can be stored as an avatar.
type AvatarPolicy struct {
	MaxBytes     int64
	AllowedTypes []string
}

// EncodeAvatar sniffs the payload and renders it as a data URL. The declared
// content type of the upload is ignored.
func (p AvatarPolicy) EncodeAvatar(data []byte) (string, error) {
	if len(data) == 0 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "avatar file is required")
	}
	if p.MaxBytes > 0 && int64(len(data)) > p.MaxBytes {
		return "", pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("avatar exceeds %d bytes", p.MaxBytes))
	}

	detected := mimetype.Detect(data)
	contentType := detected.String()
	if idx := strings.Index(contentType, ";"); idx >= 0 {
		contentType = contentType[:idx]
	}
	if !p.allows(detected) {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "unsupported avatar type; allowed: JPEG, PNG, GIF, WebP").
			WithDetails(map[string]any{"detected": contentType})
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

func (p AvatarPolicy) allows(detected *mimetype.MIME) bool {
	allowed := p.AllowedTypes
	if len(allowed) == 0 {
		allowed = defaultAvatarTypes
	}
	for _, candidate := range allowed {
		if detected.Is(strings.TrimSpace(candidate)) {
			return true
		}
	}
	return false
}
