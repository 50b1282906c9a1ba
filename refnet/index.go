package refnet

import (
	"math"

	"github.com/paulmach/orb"
)

// BBoxIndex 均匀网格包围盒索引
// 参考网络只在进程启动时构建一次，之后只读，不加锁
type BBoxIndex struct {
	cell   float64
	grid   map[[2]int][]int
	bounds []orb.Bound
}

func NewBBoxIndex(cellSize float64) *BBoxIndex {
	if cellSize <= 0 {
		cellSize = 500
	}
	return &BBoxIndex{
		cell: cellSize,
		grid: make(map[[2]int][]int),
	}
}

func (idx *BBoxIndex) cellOf(x, y float64) (int, int) {
	return int(math.Floor(x / idx.cell)), int(math.Floor(y / idx.cell))
}

// Insert 按包围盒覆盖的网格单元登记要素编号
func (idx *BBoxIndex) Insert(b orb.Bound) int {
	id := len(idx.bounds)
	idx.bounds = append(idx.bounds, b)
	minX, minY := idx.cellOf(b.Min[0], b.Min[1])
	maxX, maxY := idx.cellOf(b.Max[0], b.Max[1])
	for cx := minX; cx <= maxX; cx++ {
		for cy := minY; cy <= maxY; cy++ {
			key := [2]int{cx, cy}
			idx.grid[key] = append(idx.grid[key], id)
		}
	}
	return id
}

// Search 返回包围盒与查询区域相交的候选要素编号
func (idx *BBoxIndex) Search(query orb.Bound) []int {
	minX, minY := idx.cellOf(query.Min[0], query.Min[1])
	maxX, maxY := idx.cellOf(query.Max[0], query.Max[1])
	seen := make(map[int]bool)
	var out []int
	for cx := minX; cx <= maxX; cx++ {
		for cy := minY; cy <= maxY; cy++ {
			for _, id := range idx.grid[[2]int{cx, cy}] {
				if seen[id] {
					continue
				}
				seen[id] = true
				if idx.bounds[id].Intersects(query) {
					out = append(out, id)
				}
			}
		}
	}
	return out
}

func (idx *BBoxIndex) Len() int {
	return len(idx.bounds)
}
