package gif

// Test reports whether data starts with a GIF header and logical screen
// descriptor. Truncated streams are left to the decoder.
func Test(data []byte) bool {
	if len(data) < 13 {
		return false
	}

	// GIF Magic Numbers
	// https://www.garykessler.net/library/file_sigs.html
	return data[0] == 'G' &&
		data[1] == 'I' &&
		data[2] == 'F' &&
		data[3] == '8' &&
		(data[4] == '7' || data[4] == '9') &&
		data[5] == 'a'
}
