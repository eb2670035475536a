package matrix

// StoredEntries counts the float64 values a matrix keeps in memory. Dense
// matrices store every entry; structured matrices store only their distinct
// blocks, recursively.
func StoredEntries(m Matrix) int {
	switch t := m.(type) {
	case *BlockToeplitz:
		return storedSum(t.blocks)
	case *BlockCirculant:
		return storedSum(t.blocks)
	}
	return m.Rows() * m.Cols()
}

func storedSum(blocks []Matrix) int {
	n := 0
	for _, b := range blocks {
		n += StoredEntries(b)
	}
	return n
}

// Compression is the ratio of the dense entry count to StoredEntries.
func Compression(m Matrix) float64 {
	stored := StoredEntries(m)
	if stored == 0 {
		return 0
	}
	return float64(m.Rows()*m.Cols()) / float64(stored)
}
