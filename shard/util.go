package shard

// extractHashPrefix returns the hash tag of key: the content between the
// first '{' and the first '}' after it. Key itself is returned when there is
// no such pair or the content is empty, so "{}{a}" has no tag.
func extractHashPrefix(key string) string {
	start := -1
	stop := -1
	for i, b := range key {
		if start == -1 && b == '{' {
			start = i
		} else if start >= 0 && stop == -1 && b == '}' {
			stop = i
		}
	}
	if start+1 < stop {
		return key[start+1 : stop]
	}
	return key
}
