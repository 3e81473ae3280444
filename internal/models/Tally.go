package models

// Tally is a frequency map: category value → occurrence count.
type Tally map[string]int

func (t Tally) Inc(key string) {
	t[key]++
}

// Total sums every bucket.
func (t Tally) Total() int {
	n := 0
	for _, c := range t {
		n += c
	}
	return n
}
