package upload

import (
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"
)

const timestampLayout = "20060102_150405"

// HashUserID derives the path segment for a user identifier. SHA-256 makes
// the segment deterministic and one-way: it never round-trips to the
// identifier it was derived from.
func HashUserID(id string) string {
	sum := sha256.Sum256([]byte(id))
	return hex.EncodeToString(sum[:])
}

// Directory builds the storage directory for one logical group:
// {tenant}/{sha256(userID)}/{group}.
func Directory(tenant, userID, group string) string {
	return fmt.Sprintf("%s/%s/%s", tenant, HashUserID(userID), group)
}

// ObjectKey joins a directory and file name into a storage key, trimming
// stray path separators and spaces around the directory first.
func ObjectKey(directory, fileName string) string {
	directory = strings.Trim(directory, "/ ")
	return directory + "/" + fileName
}

// TimestampedName inserts a compact second-resolution timestamp between the
// base name and extension, so same-named files uploaded in distinct requests
// do not overwrite each other.
func TimestampedName(fileName string, ts time.Time) string {
	ext := path.Ext(fileName)
	base := strings.TrimSuffix(fileName, ext)
	return fmt.Sprintf("%s_%s%s", base, ts.Format(timestampLayout), ext)
}

// BatchName stamps an inline-upload file name with the product batch
// timestamp. The base is everything before the first dot and the extension
// everything after the last, matching how inline names have always been cut.
func BatchName(imageName string, ts time.Time) string {
	parts := strings.Split(imageName, ".")
	base := parts[0]
	ext := parts[len(parts)-1]
	return fmt.Sprintf("%s_%s.%s", base, ts.Format(timestampLayout), ext)
}

// FileNameFromURL extracts the base file name from a source URL's path,
// returning "" when the URL carries no usable name.
func FileNameFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	base := path.Base(u.Path)
	if base == "." || base == "/" {
		return ""
	}
	return base
}

// SynthesizedName builds a file name for a URL source with no usable base
// name: a short hash of the URL plus an extension derived from the declared
// content kind.
func SynthesizedName(rawURL, contentType string) string {
	sum := sha1.Sum([]byte(rawURL))
	suffix := hex.EncodeToString(sum[:])[:8]

	ext := contentType
	if i := strings.LastIndex(ext, "/"); i >= 0 {
		ext = ext[i+1:]
	}
	switch ext {
	case "octet-stream":
		ext = "bin"
	case "jpeg":
		ext = "jpg"
	}
	return fmt.Sprintf("image_%s.%s", suffix, ext)
}
