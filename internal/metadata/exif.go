package metadata

import (
	"os"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// exifExtensions lists the formats goexif can realistically parse a capture
// date out of.
var exifExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".tif":  {},
	".tiff": {},
}

func exifCandidate(ext string) bool {
	_, ok := exifExtensions[ext]
	return ok
}

// captureTime returns the capture timestamp stored in the image at path,
// preferring DateTimeOriginal over DateTime.
func captureTime(path string) (time.Time, error) {
	f, err := os.Open(path)
	if err != nil {
		return time.Time{}, err
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return time.Time{}, err
	}
	return x.DateTime()
}
