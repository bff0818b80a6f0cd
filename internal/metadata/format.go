package metadata

import "fmt"

var sizeUnits = [...]string{"B", "KB", "MB", "GB", "TB"}

// FormatSize renders a byte count for humans, dividing repeatedly by 1024
// through B, KB, MB, and GB. TB is the ceiling unit: values past 1024 TB stay
// expressed in TB rather than moving to further units.
func FormatSize(bytes int64) string {
	size := float64(bytes)
	for _, unit := range sizeUnits[:len(sizeUnits)-1] {
		if size < 1024 {
			return fmt.Sprintf("%.2f %s", size, unit)
		}
		size /= 1024
	}
	return fmt.Sprintf("%.2f %s", size, sizeUnits[len(sizeUnits)-1])
}
