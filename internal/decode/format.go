package decode

import (
	"strconv"
	"strings"
)

// Format renders one packet's decoded values as a comma-separated fragment
// with no trailing delimiter. Fragments from consecutive packets are
// concatenated by the sink with no separator in between; flush boundaries
// are the only segmentation consumers see. A packet that decoded to zero
// values renders as the empty fragment.
func Format(values []int64) string {
	if len(values) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, v := range values {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatInt(v, 10))
	}
	return sb.String()
}
