package media

import "fmt"

const mb = 1024 * 1024

// HumanSize renders a byte count the way it is shown to users, always in
// megabytes to match the delivery ceilings.
func HumanSize(bytes int64) string {
	return fmt.Sprintf("%.2f MB", float64(bytes)/mb)
}
