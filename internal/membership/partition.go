package membership

import (
	"iter"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
)

// bitmapPool reuses cluster bitmaps across partitions.
var bitmapPool = sync.Pool{
	New: func() any {
		return roaring.New()
	},
}

func getBitmap() *roaring.Bitmap {
	b := bitmapPool.Get().(*roaring.Bitmap)
	b.Clear()
	return b
}

func putBitmap(b *roaring.Bitmap) {
	if b == nil {
		return
	}
	b.Clear()
	bitmapPool.Put(b)
}

// Partition is the cluster membership of one label assignment.
// It is not safe for concurrent mutation.
type Partition struct {
	clusters []*roaring.Bitmap
	n        int
}

// FromLabels builds a partition over k clusters. Labels outside [0,k) are ignored.
func FromLabels(labels []int, k int) *Partition {
	p := &Partition{
		clusters: make([]*roaring.Bitmap, k),
		n:        len(labels),
	}
	for i := range p.clusters {
		p.clusters[i] = getBitmap()
	}
	for i, l := range labels {
		if l < 0 || l >= k {
			continue
		}
		p.clusters[l].Add(uint32(i))
	}
	return p
}

// K returns the number of clusters.
func (p *Partition) K() int { return len(p.clusters) }

// Sizes returns the number of members of each cluster.
func (p *Partition) Sizes() []int {
	sizes := make([]int, len(p.clusters))
	for i, b := range p.clusters {
		sizes[i] = int(b.GetCardinality())
	}
	return sizes
}

// Empty returns the indices of clusters without members.
func (p *Partition) Empty() []int {
	var out []int
	for i, b := range p.clusters {
		if b.IsEmpty() {
			out = append(out, i)
		}
	}
	return out
}

// Members iterates over the point indices of cluster in ascending order.
func (p *Partition) Members(cluster int) iter.Seq[int] {
	return func(yield func(int) bool) {
		if cluster < 0 || cluster >= len(p.clusters) {
			return
		}
		it := p.clusters[cluster].Iterator()
		for it.HasNext() {
			if !yield(int(it.Next())) {
				return
			}
		}
	}
}

// Moved returns how many points changed cluster relative to prev.
// Both partitions must cover the same points and cluster count.
func (p *Partition) Moved(prev *Partition) int {
	stayed := 0
	for i, b := range p.clusters {
		if i >= len(prev.clusters) {
			break
		}
		stayed += int(b.AndCardinality(prev.clusters[i]))
	}
	return p.n - stayed
}

// Release returns the bitmaps to the pool. The partition must not be used afterwards.
func (p *Partition) Release() {
	for i, b := range p.clusters {
		putBitmap(b)
		p.clusters[i] = nil
	}
	p.clusters = nil
}
