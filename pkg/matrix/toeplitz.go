package matrix

import "fmt"

// BlockToeplitz is a square grid of n×n blocks where block (i, j) is
// blocks[|j-i|]. Only the first block row is stored.
type BlockToeplitz struct {
	blocks []Matrix
	br, bc int
}

// NewBlockToeplitz builds the symmetric block-Toeplitz matrix whose first
// block row is blocks.
//
// Errors:
//   - ErrShapeMismatch if blocks is empty or the blocks differ in shape.
func NewBlockToeplitz(blocks []Matrix) (*BlockToeplitz, error) {
	br, bc, err := blockShape(blocks)
	if err != nil {
		return nil, fmt.Errorf("NewBlockToeplitz: %w", err)
	}
	return &BlockToeplitz{blocks: append([]Matrix(nil), blocks...), br: br, bc: bc}, nil
}

// NbBlocks returns the number of block rows (and block columns).
func (t *BlockToeplitz) NbBlocks() int { return len(t.blocks) }

// FirstBlockRow returns the stored blocks. Callers must not modify the slice.
func (t *BlockToeplitz) FirstBlockRow() []Matrix { return t.blocks }

// Block returns block (i, j).
func (t *BlockToeplitz) Block(i, j int) (Matrix, error) {
	n := len(t.blocks)
	if i < 0 || i >= n || j < 0 || j >= n {
		return nil, fmt.Errorf("BlockToeplitz.Block(%d,%d) of %d: %w", i, j, n, ErrOutOfRange)
	}
	return t.blocks[t.index(i, j)], nil
}

func (t *BlockToeplitz) index(i, j int) int {
	if j >= i {
		return j - i
	}
	return i - j
}

func (t *BlockToeplitz) Rows() int { return len(t.blocks) * t.br }

func (t *BlockToeplitz) Cols() int { return len(t.blocks) * t.bc }

// At returns the element (i, j).
func (t *BlockToeplitz) At(i, j int) (float64, error) {
	if i < 0 || i >= t.Rows() || j < 0 || j >= t.Cols() {
		return 0, fmt.Errorf("BlockToeplitz(%d,%d) of %dx%d: %w", i, j, t.Rows(), t.Cols(), ErrOutOfRange)
	}
	return t.blocks[t.index(i/t.br, j/t.bc)].At(i%t.br, j%t.bc)
}

// MatVec returns t·x block by block, without expanding t.
func (t *BlockToeplitz) MatVec(x []float64) ([]float64, error) {
	return blockMatVec(len(t.blocks), t.br, t.bc, func(i, j int) Matrix {
		return t.blocks[t.index(i, j)]
	}, x)
}

// ToDense expands t.
func (t *BlockToeplitz) ToDense() *Dense {
	return expand(len(t.blocks), t.br, t.bc, t.blocks, t.index)
}
