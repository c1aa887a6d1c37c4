// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package recommend

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
)

// Neighbor is one result of a nearest-neighbor query.
type Neighbor struct {
	// Index is the training row position.
	Index int
	// Distance is the euclidean distance to the query.
	Distance float64
}

// Index is an exact euclidean nearest-neighbor index over the training
// matrix. Fields are exported for gob persistence; the index is immutable
// after FitIndex.
type Index struct {
	Vectors [][]float64
	Dim     int
}

// FitIndex copies vectors into a new index. All rows must share one
// dimensionality and there must be at least one row.
func FitIndex(vectors [][]float64) (*Index, error) {
	if len(vectors) == 0 {
		return nil, &TransformError{Stage: "index fit", Err: fmt.Errorf("no training samples")}
	}

	dim := len(vectors[0])
	rows := make([][]float64, len(vectors))
	for i, v := range vectors {
		if len(v) != dim {
			return nil, &TransformError{
				Stage: "index fit",
				Err:   fmt.Errorf("row %d has %d columns, expected %d", i, len(v), dim),
			}
		}
		rows[i] = append([]float64(nil), v...)
	}

	return &Index{Vectors: rows, Dim: dim}, nil
}

// Dimensionality is the input width every query must match.
func (ix *Index) Dimensionality() int {
	return ix.Dim
}

// SampleCount is the number of training rows.
func (ix *Index) SampleCount() int {
	return len(ix.Vectors)
}

// Row returns training row i. The slice must not be modified.
func (ix *Index) Row(i int) []float64 {
	return ix.Vectors[i]
}

// KNeighbors returns the k rows closest to query, nearest first. Ties are
// broken by row position so results are deterministic. When the index has
// at least parallelThreshold rows the distance pass is split across
// GOMAXPROCS goroutines.
func (ix *Index) KNeighbors(ctx context.Context, query []float64, k, parallelThreshold int) ([]Neighbor, error) {
	if len(query) != ix.Dim {
		return nil, &FeatureMismatchError{Expected: ix.Dim, Actual: len(query)}
	}
	n := len(ix.Vectors)
	if k > n {
		k = n
	}
	if k <= 0 {
		return []Neighbor{}, nil
	}

	dist := make([]float64, n)
	if parallelThreshold > 0 && n >= parallelThreshold {
		if err := ix.distancesParallel(ctx, query, dist); err != nil {
			return nil, err
		}
	} else {
		ix.distances(query, dist, 0, n)
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		da, db := dist[order[a]], dist[order[b]]
		if da != db {
			return da < db
		}
		return order[a] < order[b]
	})

	out := make([]Neighbor, k)
	for i := 0; i < k; i++ {
		out[i] = Neighbor{Index: order[i], Distance: math.Sqrt(dist[order[i]])}
	}
	return out, nil
}

// distances writes squared distances for rows [from, to).
func (ix *Index) distances(query, dst []float64, from, to int) {
	for i := from; i < to; i++ {
		row := ix.Vectors[i]
		var sum float64
		for j, q := range query {
			d := row[j] - q
			sum += d * d
		}
		dst[i] = sum
	}
}

func (ix *Index) distancesParallel(ctx context.Context, query, dst []float64) error {
	n := len(ix.Vectors)
	workers := runtime.GOMAXPROCS(0)
	chunk := (n + workers - 1) / workers

	g, gctx := errgroup.WithContext(ctx)
	for from := 0; from < n; from += chunk {
		from, to := from, min(from+chunk, n)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			ix.distances(query, dst, from, to)
			return nil
		})
	}
	return g.Wait()
}
