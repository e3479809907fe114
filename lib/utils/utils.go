package utils

// BytesEquals check whether the given bytes is equal, a nil slice only equals another nil slice
func BytesEquals(a []byte, b []byte) bool {
	if (a == nil && b != nil) || (a != nil && b == nil) {
		return false
	}
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// ToLines converts strings to [][]byte
func ToLines(lines ...string) [][]byte {
	result := make([][]byte, len(lines))
	for i, s := range lines {
		result[i] = []byte(s)
	}
	return result
}
