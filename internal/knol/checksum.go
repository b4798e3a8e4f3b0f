package knol

// Checksum folds the UTF-8 bytes of s into a 32-bit base-31 rolling hash.
//
// It is not the importer's own checksum (a truncated SHA1 of the stripped
// first field). Packages built here only need it to be consistent with
// themselves, so do not swap it for the importer's algorithm without
// checking what existing exports expect.
func Checksum(s string) uint32 {
	var sum uint32
	for i := 0; i < len(s); i++ {
		sum = sum*31 + uint32(s[i])
	}
	return sum
}
