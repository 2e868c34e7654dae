/*
 * cluster.go, part of goBind.
 *
 * Copyright 2024 Raul Mera <rauldotmeraatusachdotcl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package bind

import (
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

//A Partitioner splits the rows of points into k groups, returning one
//group index in [0,k) per row. ok is false when no valid k-way partition
//came out (say, a group went empty), in which case the assignment must be
//discarded. A Partitioner must be deterministic: the same points and k
//always produce the same assignment.
type Partitioner interface {
	Partition(points *mat.Dense, k int) (assign []int, ok bool)
}

//KMeans is the default Partitioner: Lloyd's algorithm with a deterministic
//initialization. With init "farthest" the first center is the point closest
//to the overall data mean and each further center is the point farthest
//from all centers picked so far, ties going to the lower row index. With
//init "rand" the centers are drawn with a fixed-seed generator, which is
//still reproducible but lets the user re-roll by changing the seed.
type KMeans struct {
	init    string
	seed    int64
	maxIter int
}

//NewKMeans returns a KMeans partitioner. init must be "farthest" or "rand";
//seed only matters for "rand".
func NewKMeans(init string, seed int64) *KMeans {
	return &KMeans{init: init, seed: seed, maxIter: 100}
}

func (K *KMeans) Partition(points *mat.Dense, k int) ([]int, bool) {
	n, dim := points.Dims()
	if k < 1 || k > n {
		return nil, false
	}
	centers := K.initial(points, k)
	assign := make([]int, n)
	row := make([]float64, dim)
	for iter := 0; iter < K.maxIter; iter++ {
		changed := false
		for i := 0; i < n; i++ {
			mat.Row(row, i, points)
			best := 0
			bestd := math.Inf(1)
			for c := 0; c < k; c++ {
				if d := floats.Distance(row, centers[c], 2); d < bestd {
					bestd = d
					best = c
				}
			}
			if assign[i] != best {
				assign[i] = best
				changed = true
			}
		}
		counts := make([]int, k)
		for c := range centers {
			for j := range centers[c] {
				centers[c][j] = 0
			}
		}
		for i := 0; i < n; i++ {
			counts[assign[i]]++
			for j := 0; j < dim; j++ {
				centers[assign[i]][j] += points.At(i, j)
			}
		}
		for c := 0; c < k; c++ {
			if counts[c] == 0 {
				return nil, false //a cluster went empty, k is too large here
			}
			for j := range centers[c] {
				centers[c][j] /= float64(counts[c])
			}
		}
		if !changed {
			break
		}
	}
	return assign, true
}

//initial picks the k starting centers, copied out of points.
func (K *KMeans) initial(points *mat.Dense, k int) [][]float64 {
	n, dim := points.Dims()
	centers := make([][]float64, 0, k)
	pick := func(i int) {
		c := make([]float64, dim)
		mat.Row(c, i, points)
		centers = append(centers, c)
	}
	if K.init == "rand" {
		r := rand.New(rand.NewSource(K.seed))
		for _, i := range r.Perm(n)[:k] {
			pick(i)
		}
		return centers
	}
	//"farthest": start at the point closest to the data mean, then maximin.
	mean := make([]float64, dim)
	row := make([]float64, dim)
	for i := 0; i < n; i++ {
		mat.Row(row, i, points)
		floats.Add(mean, row)
	}
	floats.Scale(1/float64(n), mean)
	first := 0
	bestd := math.Inf(1)
	for i := 0; i < n; i++ {
		mat.Row(row, i, points)
		if d := floats.Distance(row, mean, 2); d < bestd {
			bestd = d
			first = i
		}
	}
	pick(first)
	for len(centers) < k {
		far := -1
		fard := -1.0
		for i := 0; i < n; i++ {
			mat.Row(row, i, points)
			near := math.Inf(1)
			for _, c := range centers {
				if d := floats.Distance(row, c, 2); d < near {
					near = d
				}
			}
			if near > fard {
				fard = near
				far = i
			}
		}
		pick(far)
	}
	return centers
}

//A ValidityFunc scores how good a k-way partition of the rows of points
//is. Higher is better. Returning NaN marks the partition as invalid.
type ValidityFunc func(points *mat.Dense, assign []int, k int) float64

//meanSilhouette is the default ValidityFunc: the silhouette coefficient of
//each point, averaged over all points. A point's silhouette compares its
//mean distance to its own cluster against its mean distance to the closest
//other cluster, so values near 1 mean tight, well-separated clusters.
func meanSilhouette(points *mat.Dense, assign []int, k int) float64 {
	n, dim := points.Dims()
	if k < 2 {
		return math.NaN()
	}
	counts := make([]int, k)
	for _, a := range assign {
		counts[a]++
	}
	ri := make([]float64, dim)
	rj := make([]float64, dim)
	var sum float64
	for i := 0; i < n; i++ {
		//mean distance from i to each cluster
		mat.Row(ri, i, points)
		dists := make([]float64, k)
		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			mat.Row(rj, j, points)
			dists[assign[j]] += floats.Distance(ri, rj, 2)
		}
		own := assign[i]
		var a float64
		if counts[own] > 1 {
			a = dists[own] / float64(counts[own]-1)
		}
		b := math.Inf(1)
		for c := 0; c < k; c++ {
			if c == own || counts[c] == 0 {
				continue
			}
			if d := dists[c] / float64(counts[c]); d < b {
				b = d
			}
		}
		if counts[own] > 1 {
			sum += (b - a) / math.Max(a, b)
		} else {
			//a singleton contributes 0 by convention
			sum += 0
		}
	}
	return sum / float64(n)
}

type kresult struct {
	k      int
	assign []int
	score  float64
	ok     bool
}

//sweepK partitions the points for every candidate k, scores each valid
//partition with the validity function, and returns the best assignment.
//Candidate partitions run concurrently, o.cpus at a time. Ties on the
//validity score go to the smaller k, and if no candidate yields a valid
//partition everything is lumped into a single cluster.
func sweepK(points *mat.Dense, o *Options) []int {
	n, _ := points.Dims()
	kmax := o.kMax
	if kmax > n-1 {
		kmax = n - 1
	}
	if kmax < o.kMin {
		return make([]int, n) //too few points to split, single cluster
	}
	part := o.partitioner()
	validity := o.validity
	results := make(chan *kresult, kmax-o.kMin+1)
	limit := make(chan struct{}, o.cpus)
	for k := o.kMin; k <= kmax; k++ {
		limit <- struct{}{}
		go func(k int) {
			defer func() { <-limit }()
			assign, ok := part.Partition(points, k)
			if !ok {
				results <- &kresult{k: k, ok: false}
				return
			}
			score := validity(points, assign, k)
			if math.IsNaN(score) {
				results <- &kresult{k: k, ok: false}
				return
			}
			results <- &kresult{k: k, assign: assign, score: score, ok: true}
		}(k)
	}
	collected := make([]*kresult, 0, kmax-o.kMin+1)
	for i := o.kMin; i <= kmax; i++ {
		collected = append(collected, <-results)
	}
	sort.Slice(collected, func(i, j int) bool { return collected[i].k < collected[j].k })
	var best *kresult
	for _, r := range collected {
		if !r.ok {
			continue
		}
		//strict >, so equal scores keep the smaller, simpler k.
		if best == nil || r.score > best.score {
			best = r
		}
	}
	if best == nil {
		return make([]int, n)
	}
	return best.assign
}
