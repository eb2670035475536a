package matrix

import "fmt"

// BlockCirculant is a square grid of size×size blocks where block (i, j) is
// c[(j-i) mod size]. The first block row c is completed by symmetry from its
// leading blocks: c[k] = blocks[k] for k < len(blocks), blocks[size-k]
// otherwise.
type BlockCirculant struct {
	blocks []Matrix
	size   int
	br, bc int
}

// NewBlockCirculant builds a symmetric block-circulant matrix of size×size
// blocks from the leading blocks of its first block row.
//
// Errors:
//   - ErrShapeMismatch if blocks is empty or the blocks differ in shape.
//   - ErrInvalidDimensions unless size/2+1 <= len(blocks) <= size.
func NewBlockCirculant(blocks []Matrix, size int) (*BlockCirculant, error) {
	br, bc, err := blockShape(blocks)
	if err != nil {
		return nil, fmt.Errorf("NewBlockCirculant: %w", err)
	}
	if size < 1 || len(blocks) < size/2+1 || len(blocks) > size {
		return nil, fmt.Errorf("NewBlockCirculant: %d blocks for size %d: %w", len(blocks), size, ErrInvalidDimensions)
	}
	return &BlockCirculant{blocks: append([]Matrix(nil), blocks...), size: size, br: br, bc: bc}, nil
}

// NbBlocks returns the number of block rows (and block columns).
func (c *BlockCirculant) NbBlocks() int { return c.size }

// LeadingBlocks returns the stored blocks. Callers must not modify the slice.
func (c *BlockCirculant) LeadingBlocks() []Matrix { return c.blocks }

// Block returns block (i, j).
func (c *BlockCirculant) Block(i, j int) (Matrix, error) {
	if i < 0 || i >= c.size || j < 0 || j >= c.size {
		return nil, fmt.Errorf("BlockCirculant.Block(%d,%d) of %d: %w", i, j, c.size, ErrOutOfRange)
	}
	return c.blocks[c.index(i, j)], nil
}

// index maps block (i, j) to its stored block.
func (c *BlockCirculant) index(i, j int) int {
	k := ((j-i)%c.size + c.size) % c.size
	if k < len(c.blocks) {
		return k
	}
	return c.size - k
}

func (c *BlockCirculant) Rows() int { return c.size * c.br }

func (c *BlockCirculant) Cols() int { return c.size * c.bc }

// At returns the element (i, j).
func (c *BlockCirculant) At(i, j int) (float64, error) {
	if i < 0 || i >= c.Rows() || j < 0 || j >= c.Cols() {
		return 0, fmt.Errorf("BlockCirculant(%d,%d) of %dx%d: %w", i, j, c.Rows(), c.Cols(), ErrOutOfRange)
	}
	return c.blocks[c.index(i/c.br, j/c.bc)].At(i%c.br, j%c.bc)
}

// MatVec returns c·x block by block, without expanding c.
func (c *BlockCirculant) MatVec(x []float64) ([]float64, error) {
	return blockMatVec(c.size, c.br, c.bc, func(i, j int) Matrix {
		return c.blocks[c.index(i, j)]
	}, x)
}

// ToDense expands c.
func (c *BlockCirculant) ToDense() *Dense {
	return expand(c.size, c.br, c.bc, c.blocks, c.index)
}
