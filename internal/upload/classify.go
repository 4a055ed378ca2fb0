package upload

import (
	"path"
	"strings"

	"github.com/example/uploadgateway/internal/models"
)

// KindForName infers a content kind from a file name's extension. It is the
// fallback for archive-extracted entries, which carry no type metadata of
// their own; callers with a declared kind should prefer it over inference.
func KindForName(fileName string) models.ContentKind {
	switch strings.ToLower(path.Ext(fileName)) {
	case ".pdf":
		return models.KindPDF
	case ".jpg", ".jpeg":
		return models.KindImage
	case ".png":
		return models.KindPNG
	default:
		return models.KindBinary
	}
}
