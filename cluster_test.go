package bind

import (
	"fmt"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/mat"
)

//blobs2D returns points in two well-separated groups of the given sizes.
func blobs2D(seed int64, sizes ...int) *mat.Dense {
	r := rand.New(rand.NewSource(seed))
	var n int
	for _, s := range sizes {
		n += s
	}
	points := mat.NewDense(n, 2, nil)
	i := 0
	for g, s := range sizes {
		cx := float64(g) * 20.0
		for j := 0; j < s; j++ {
			points.Set(i, 0, cx+r.NormFloat64()*0.5)
			points.Set(i, 1, r.NormFloat64()*0.5)
			i++
		}
	}
	return points
}

func TestKMeans(Te *testing.T) {
	points := blobs2D(1, 15, 25)
	km := NewKMeans("farthest", 1)
	assign, ok := km.Partition(points, 2)
	if !ok {
		Te.Fatal("partition of two clean blobs into 2 failed")
	}
	counts := map[int]int{}
	for _, a := range assign {
		counts[a]++
	}
	fmt.Println("cluster sizes:", counts)
	if len(counts) != 2 || (counts[0] != 15 && counts[0] != 25) {
		Te.Errorf("wrong partition: %v", counts)
	}
	//every point of a blob lands in the same cluster.
	for i := 1; i < 15; i++ {
		if assign[i] != assign[0] {
			Te.Errorf("blob A split at point %d", i)
		}
	}
	for i := 16; i < 40; i++ {
		if assign[i] != assign[15] {
			Te.Errorf("blob B split at point %d", i)
		}
	}
}

func TestKMeansDeterminism(Te *testing.T) {
	points := blobs2D(5, 20, 20, 20)
	for _, init := range []string{"farthest", "rand"} {
		km := NewKMeans(init, 99)
		first, ok1 := km.Partition(points, 3)
		second, ok2 := km.Partition(points, 3)
		if ok1 != ok2 {
			Te.Fatalf("init %q: validity changed between runs", init)
		}
		for i := range first {
			if first[i] != second[i] {
				Te.Errorf("init %q: assignment of point %d changed between runs", init, i)
			}
		}
	}
}

func TestMeanSilhouette(Te *testing.T) {
	points := blobs2D(2, 20, 20)
	good := make([]int, 40)
	for i := 20; i < 40; i++ {
		good[i] = 1
	}
	bad := make([]int, 40)
	for i := 0; i < 40; i += 2 {
		bad[i] = 1
	}
	gs := meanSilhouette(points, good, 2)
	bs := meanSilhouette(points, bad, 2)
	fmt.Println("silhouette good:", gs, "bad:", bs)
	if gs <= bs {
		Te.Errorf("the true partition must score higher: %v vs %v", gs, bs)
	}
	if gs < 0.8 {
		Te.Errorf("clean blobs should score near 1, got %v", gs)
	}
}

func TestSweepK(Te *testing.T) {
	points := blobs2D(3, 30, 20, 10)
	o := DefaultOptions()
	o.Cpus(2)
	assign := sweepK(points, o)
	counts := map[int]int{}
	for _, a := range assign {
		counts[a]++
	}
	fmt.Println("sweep settled on", len(counts), "clusters:", counts)
	if len(counts) != 3 {
		Te.Fatalf("want 3 clusters, got %d", len(counts))
	}
	sizes := map[int]bool{}
	for _, c := range counts {
		sizes[c] = true
	}
	for _, want := range []int{30, 20, 10} {
		if !sizes[want] {
			Te.Errorf("missing a cluster of size %d: %v", want, counts)
		}
	}
}

func TestSweepKDegenerate(Te *testing.T) {
	//identical points: no k gives a valid silhouette, everything must be
	//lumped into one cluster.
	points := mat.NewDense(5, 2, nil)
	assign := sweepK(points, DefaultOptions())
	for i, a := range assign {
		if a != 0 {
			Te.Errorf("point %d not in the single fallback cluster: %d", i, a)
		}
	}
	//two points can't be split either (k would reach n).
	two := blobs2D(4, 1, 1)
	assign = sweepK(two, DefaultOptions())
	if assign[0] != 0 || assign[1] != 0 {
		Te.Errorf("two points must fall back to one cluster: %v", assign)
	}
}
