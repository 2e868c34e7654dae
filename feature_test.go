package bind

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestDistFeaturesInvariance(Te *testing.T) {
	a := testGeometry()
	b := rigid(a, 2.1, -3.0, 1.0, 0.5)
	E, err := NewEnsemble([]*mat.Dense{a, b})
	if err != nil {
		Te.Fatal(err)
	}
	feats, err := NewDistFeatures(nil).Features(E)
	if err != nil {
		Te.Fatal(err)
	}
	r, c := feats.Dims()
	if r != 2 || c != 5*4/2 {
		Te.Fatalf("wrong feature shape %dx%d", r, c)
	}
	for j := 0; j < c; j++ {
		if math.Abs(feats.At(0, j)-feats.At(1, j)) > 1e-9 {
			Te.Errorf("distance feature %d not pose-invariant: %v vs %v", j, feats.At(0, j), feats.At(1, j))
		}
	}
}

func TestDistFeaturesSubset(Te *testing.T) {
	E, err := NewEnsemble([]*mat.Dense{testGeometry()})
	if err != nil {
		Te.Fatal(err)
	}
	feats, err := NewDistFeatures([]int{0, 1}).Features(E)
	if err != nil {
		Te.Fatal(err)
	}
	if got := feats.At(0, 0); math.Abs(got-1.5) > 1e-9 {
		Te.Errorf("distance between atoms 0 and 1: got %v want 1.5", got)
	}
	if _, err := NewDistFeatures([]int{0}).Features(E); err == nil {
		Te.Error("a 1-atom subset must fail")
	}
	if _, err := NewDistFeatures([]int{0, 99}).Features(E); err == nil {
		Te.Error("an out-of-range subset must fail")
	}
}

func TestCoordFeatures(Te *testing.T) {
	a := testGeometry()
	b := rigid(a, 1.3, 2.0, 2.0, -1.0)
	E, err := NewEnsemble([]*mat.Dense{a, b})
	if err != nil {
		Te.Fatal(err)
	}
	feats, err := NewCoordFeatures([]int{0, 1, 2, 3, 4}).Features(E)
	if err != nil {
		Te.Fatal(err)
	}
	r, c := feats.Dims()
	if r != 2 || c != 15 {
		Te.Fatalf("wrong feature shape %dx%d", r, c)
	}
	//b is just a rigidly moved a, so after superposition onto the first
	//conformer both rows must coincide.
	for j := 0; j < c; j++ {
		if math.Abs(feats.At(0, j)-feats.At(1, j)) > 1e-8 {
			Te.Errorf("coordinate feature %d differs: %v vs %v", j, feats.At(0, j), feats.At(1, j))
		}
	}
}

func TestTorsionFeatures(Te *testing.T) {
	//a 90 degree dihedral around the 1-2 bond.
	c := mat.NewDense(4, 3, []float64{
		1, 0, 0,
		0, 0, 0,
		0, 0, 1,
		0, 1, 1,
	})
	E, err := NewEnsemble([]*mat.Dense{c})
	if err != nil {
		Te.Fatal(err)
	}
	feats, err := NewTorsionFeatures([][4]int{{0, 1, 2, 3}}).Features(E)
	if err != nil {
		Te.Fatal(err)
	}
	sin, cos := feats.At(0, 0), feats.At(0, 1)
	if math.Abs(math.Abs(sin)-1) > 1e-9 || math.Abs(cos) > 1e-9 {
		Te.Errorf("want a +-90 degree dihedral, got sin %v cos %v", sin, cos)
	}
	if _, err := NewTorsionFeatures(nil).Features(E); err == nil {
		Te.Error("empty quadruplet list must fail")
	}
}
