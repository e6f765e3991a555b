package reserve

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Cell identifies one selectable square of the grid.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Key encodes the cell as "row-col".
func (c Cell) Key() string {
	return strconv.Itoa(c.Row) + "-" + strconv.Itoa(c.Col)
}

// ParseKey decodes a "row-col" key.
func ParseKey(key string) (Cell, error) {
	r, c, ok := strings.Cut(key, "-")
	if !ok {
		return Cell{}, fmt.Errorf("cell key %q: missing separator", key)
	}
	row, err := strconv.Atoi(r)
	if err != nil {
		return Cell{}, fmt.Errorf("cell key %q: row: %w", key, err)
	}
	col, err := strconv.Atoi(c)
	if err != nil {
		return Cell{}, fmt.Errorf("cell key %q: col: %w", key, err)
	}
	return Cell{Row: row, Col: col}, nil
}

// Grid is the fixed R×C layout with its pricing constants.
type Grid struct {
	Rows      int   `json:"rows"`
	Cols      int   `json:"cols"`
	CellArea  int   `json:"cell_area"`  // square meters per cell
	UnitPrice int64 `json:"unit_price"` // price per square meter
}

// Contains reports whether c lies inside the grid.
func (g Grid) Contains(c Cell) bool {
	return c.Row >= 0 && c.Row < g.Rows && c.Col >= 0 && c.Col < g.Cols
}

// Size returns the number of cells.
func (g Grid) Size() int {
	return g.Rows * g.Cols
}

// Selection is a set of selected cells keyed by Cell.Key.
type Selection map[string]Cell

// Toggle flips membership of c.
func (s Selection) Toggle(c Cell) {
	k := c.Key()
	if _, ok := s[k]; ok {
		delete(s, k)
		return
	}
	s[k] = c
}

// Has reports whether c is selected.
func (s Selection) Has(c Cell) bool {
	_, ok := s[c.Key()]
	return ok
}

// Cells returns the selected cells in row-major order.
func (s Selection) Cells() []Cell {
	out := make([]Cell, 0, len(s))
	for _, c := range s {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Col < out[j].Col
	})
	return out
}

// Clone returns an independent copy.
func (s Selection) Clone() Selection {
	out := make(Selection, len(s))
	for k, c := range s {
		out[k] = c
	}
	return out
}
