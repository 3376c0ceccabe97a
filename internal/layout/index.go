package layout

import (
	"fmt"
	"sort"

	"github.com/dhconnelly/rtreego"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	dimensions  = 2
	minChildren = 4
	maxChildren = 16
	pointSize   = 1e-9
)

// indexedItem wraps an id to implement the rtreego.Spatial interface.
type indexedItem struct {
	id   int
	rect *rtreego.Rect
}

func (it *indexedItem) Bounds() *rtreego.Rect {
	return it.rect
}

// boxIndex is an R-tree over boxes and points identified by integer ids.
type boxIndex struct {
	tree *rtreego.Rtree
}

func newBoxIndex() *boxIndex {
	return &boxIndex{tree: rtreego.NewTree(dimensions, minChildren, maxChildren)}
}

func (x *boxIndex) insertBox(id int, center, half r2.Vec) error {
	rect, err := boxRect(center, half)
	if err != nil {
		return err
	}
	x.tree.Insert(&indexedItem{id: id, rect: rect})
	return nil
}

func (x *boxIndex) insertPoint(id int, p r2.Vec) {
	x.tree.Insert(&indexedItem{id: id, rect: rtreego.Point{p.X, p.Y}.ToRect(pointSize)})
}

// search returns the ids of items intersecting the box, sorted so callers iterate
// in a stable order.
func (x *boxIndex) search(center, half r2.Vec) ([]int, error) {
	rect, err := boxRect(center, half)
	if err != nil {
		return nil, err
	}
	results := x.tree.SearchIntersect(rect)
	ids := make([]int, 0, len(results))
	for _, result := range results {
		if item, ok := result.(*indexedItem); ok {
			ids = append(ids, item.id)
		}
	}
	sort.Ints(ids)
	return ids, nil
}

func boxRect(center, half r2.Vec) (*rtreego.Rect, error) {
	rect, err := rtreego.NewRect(
		rtreego.Point{center.X - half.X, center.Y - half.Y},
		[]float64{2 * half.X, 2 * half.Y},
	)
	if err != nil {
		return nil, fmt.Errorf("invalid box: %w", err)
	}
	return rect, nil
}
