package loto

import (
	"fmt"
	"math/rand"
	"sort"
)

// Grid is a 9x9 ticket layout. A zero cell is empty; a non-zero cell holds a
// number in the column's decade range (column 0 = 1-9, column 8 = 80-90).
type Grid [9][9]int

var Colors = []string{"blue", "green", "pink", "brown", "yellow", "orange"}

// decadeSizes[j] is how many numbers fall in column j's range.
var decadeSizes = [9]int{9, 10, 10, 10, 10, 10, 10, 10, 11}

// The two tickets of a color split each decade between them. Both tables sum
// to 45 and their column-wise sum equals decadeSizes, so a color's pair of
// tickets covers its 90 numbers exactly once.
var (
	colCountsA = [9]int{4, 5, 5, 5, 5, 5, 5, 5, 6}
	colCountsB = [9]int{5, 5, 5, 5, 5, 5, 5, 5, 5}
)

const maxGridAttempts = 40

type Ticket struct {
	Color string `json:"color"`
	Grid  Grid   `json:"grid"`
}

// buildGrid marks colCounts[j] cells in column j such that every row ends up
// with exactly 5 cells, then writes numbersByCol[j] into the column's cells
// top to bottom. numbersByCol[j] must hold exactly colCounts[j] ascending
// numbers. With randomRows the eligible rows are permuted before taking a
// prefix; otherwise the least-filled rows are taken first.
func buildGrid(colCounts [9]int, numbersByCol [9][]int, randomRows bool, rng *rand.Rand) (Grid, error) {
	var filled [9][9]bool
	var rowCount [9]int
	for j := 0; j < 9; j++ {
		need := colCounts[j]
		avail := make([]int, 0, 9)
		for r := 0; r < 9; r++ {
			if rowCount[r] < 5 {
				avail = append(avail, r)
			}
		}
		if len(avail) < need {
			return Grid{}, fmt.Errorf("column %d needs %d rows, only %d open", j, need, len(avail))
		}
		if randomRows {
			rng.Shuffle(len(avail), func(a, b int) { avail[a], avail[b] = avail[b], avail[a] })
		} else {
			sort.SliceStable(avail, func(a, b int) bool { return rowCount[avail[a]] < rowCount[avail[b]] })
		}
		for _, r := range avail[:need] {
			filled[r][j] = true
			rowCount[r]++
		}
	}

	var g Grid
	for j := 0; j < 9; j++ {
		k := 0
		for r := 0; r < 9; r++ {
			if filled[r][j] {
				g[r][j] = numbersByCol[j][k]
				k++
			}
		}
	}
	return g, nil
}

// tryBuildGrid retries the randomized placement, which can paint itself into
// a corner late in the column sequence, before falling back to the
// deterministic strategy. The fallback cannot fail for the fixed count tables.
func tryBuildGrid(colCounts [9]int, numbersByCol [9][]int, rng *rand.Rand) Grid {
	for attempt := 0; attempt < maxGridAttempts; attempt++ {
		if g, err := buildGrid(colCounts, numbersByCol, true, rng); err == nil {
			return g
		}
	}
	g, err := buildGrid(colCounts, numbersByCol, false, rng)
	if err != nil {
		panic(err)
	}
	return g
}

// NewPool builds the fixed 12-ticket pool: for each color, the 1-90 range is
// partitioned into decade buckets, each bucket shuffled and split between the
// color's two tickets.
func NewPool(rng *rand.Rand) []Ticket {
	pool := make([]Ticket, 0, len(Colors)*2)
	for _, color := range Colors {
		var numsA, numsB [9][]int
		for j := 0; j < 9; j++ {
			start, end := j*10, j*10+9
			if j == 0 {
				start = 1
			}
			if j == 8 {
				end = 90
			}
			bucket := make([]int, 0, decadeSizes[j])
			for n := start; n <= end; n++ {
				bucket = append(bucket, n)
			}
			rng.Shuffle(len(bucket), func(a, b int) { bucket[a], bucket[b] = bucket[b], bucket[a] })

			a := append([]int(nil), bucket[:colCountsA[j]]...)
			b := append([]int(nil), bucket[colCountsA[j]:]...)
			sort.Ints(a)
			sort.Ints(b)
			numsA[j], numsB[j] = a, b
		}
		pool = append(pool,
			Ticket{Color: color, Grid: tryBuildGrid(colCountsA, numsA, rng)},
			Ticket{Color: color, Grid: tryBuildGrid(colCountsB, numsB, rng)},
		)
	}
	return pool
}
