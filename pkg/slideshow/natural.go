package slideshow

import (
	"regexp"
	"strconv"
	"strings"
)

// natural sort (numbers in filenames): img2 < img10
var reNum = regexp.MustCompile(`\d+`)

func naturalLess(a, b string) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	aa := reNum.FindAllStringIndex(la, -1)
	bb := reNum.FindAllStringIndex(lb, -1)
	pa, pb := 0, 0
	for i := 0; i < len(aa) && i < len(bb); i++ {
		// compare non-number prefix
		if la[pa:aa[i][0]] != lb[pb:bb[i][0]] {
			return la[pa:aa[i][0]] < lb[pb:bb[i][0]]
		}
		na, errA := strconv.ParseUint(la[aa[i][0]:aa[i][1]], 10, 64)
		nb, errB := strconv.ParseUint(lb[bb[i][0]:bb[i][1]], 10, 64)
		if errA == nil && errB == nil && na != nb {
			return na < nb
		}
		pa, pb = aa[i][1], bb[i][1]
	}
	if la[pa:] != lb[pb:] {
		return la[pa:] < lb[pb:]
	}
	return a < b
}
