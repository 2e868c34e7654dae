package bind

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

//A Featurizer turns an ensemble into a numeric feature matrix with one row
//per conformer, in conformer-identity order. All rows must have the same
//length, and downstream stages treat the rows as points in an Euclidean
//space, so a Featurizer should only emit features for which Euclidean
//distance is meaningful.
type Featurizer interface {
	Features(E *Ensemble) (*mat.Dense, error)
}

//CoordFeatures describes each conformer by its flattened cartesian
//coordinates, after rigidly superimposing every conformer onto the first
//one using the anchor atoms (see Superpose). The superposition removes
//the arbitrary global pose, so what remains in the features is genuine
//conformational difference.
type CoordFeatures struct {
	anchors []int
}

//NewCoordFeatures returns a coordinate-based featurizer using the given
//anchor atoms for superposition.
func NewCoordFeatures(anchors []int) *CoordFeatures {
	return &CoordFeatures{anchors: anchors}
}

func (F *CoordFeatures) Features(E *Ensemble) (*mat.Dense, error) {
	n := E.Len()
	nat := E.NAtoms()
	ref := E.Conformer(0).Coords()
	feats := mat.NewDense(n, 3*nat, nil)
	for i := 0; i < n; i++ {
		C := E.Conformer(i)
		super, err := Superpose(C.Coords(), ref, F.anchors)
		if err != nil {
			if err2, ok := err.(*IngestError); ok && err2.Conformer() < 0 {
				err2.setConformer(C.ID())
			}
			return nil, errDecorate(err, "CoordFeatures")
		}
		for a := 0; a < nat; a++ {
			for j := 0; j < 3; j++ {
				feats.Set(i, 3*a+j, super.At(a, j))
			}
		}
	}
	return feats, nil
}

//DistFeatures describes each conformer by its internal pairwise atom
//distances, either over all atoms or over a subset of them. Distances are
//invariant to the global pose, so no superposition is needed, at the price
//of a feature vector quadratic in the number of atoms considered.
type DistFeatures struct {
	subset []int
}

//NewDistFeatures returns a distance-based featurizer. If subset is empty,
//all atoms are used.
func NewDistFeatures(subset []int) *DistFeatures {
	return &DistFeatures{subset: subset}
}

func (F *DistFeatures) Features(E *Ensemble) (*mat.Dense, error) {
	nat := E.NAtoms()
	atoms := F.subset
	if len(atoms) == 0 {
		atoms = make([]int, nat)
		for i := range atoms {
			atoms[i] = i
		}
	}
	if len(atoms) < 2 {
		return nil, ingestError(-1, "distance features need at least 2 atoms, got %d", len(atoms))
	}
	for _, a := range atoms {
		if a < 0 || a >= nat {
			return nil, ingestError(-1, "distance-feature atom %d out of range (%d atoms)", a, nat)
		}
	}
	m := len(atoms)
	n := E.Len()
	feats := mat.NewDense(n, m*(m-1)/2, nil)
	for i := 0; i < n; i++ {
		c := E.Conformer(i).Coords()
		col := 0
		for p := 0; p < m; p++ {
			for q := p + 1; q < m; q++ {
				dx := c.At(atoms[p], 0) - c.At(atoms[q], 0)
				dy := c.At(atoms[p], 1) - c.At(atoms[q], 1)
				dz := c.At(atoms[p], 2) - c.At(atoms[q], 2)
				feats.Set(i, col, math.Sqrt(dx*dx+dy*dy+dz*dz))
				col++
			}
		}
	}
	return feats, nil
}

//TorsionFeatures describes each conformer by the sine and cosine of the
//dihedral angle defined by each quadruplet of atoms given. Using the
//(sin, cos) pair instead of the bare angle keeps the features continuous
//across the -pi/pi wrap, so Euclidean distance on them behaves.
type TorsionFeatures struct {
	quads [][4]int
}

//NewTorsionFeatures returns a torsion-based featurizer over the given
//atom quadruplets.
func NewTorsionFeatures(quads [][4]int) *TorsionFeatures {
	return &TorsionFeatures{quads: quads}
}

func (F *TorsionFeatures) Features(E *Ensemble) (*mat.Dense, error) {
	if len(F.quads) == 0 {
		return nil, ingestError(-1, "torsion features need at least one atom quadruplet")
	}
	nat := E.NAtoms()
	for _, q := range F.quads {
		for _, a := range q {
			if a < 0 || a >= nat {
				return nil, ingestError(-1, "torsion atom %d out of range (%d atoms)", a, nat)
			}
		}
	}
	n := E.Len()
	feats := mat.NewDense(n, 2*len(F.quads), nil)
	for i := 0; i < n; i++ {
		c := E.Conformer(i).Coords()
		for t, q := range F.quads {
			d, err := dihedral(c, q[0], q[1], q[2], q[3])
			if err != nil {
				if err2, ok := err.(*IngestError); ok {
					err2.setConformer(E.Conformer(i).ID())
				}
				return nil, errDecorate(err, "TorsionFeatures")
			}
			feats.Set(i, 2*t, math.Sin(d))
			feats.Set(i, 2*t+1, math.Cos(d))
		}
	}
	return feats, nil
}

//dihedral returns the dihedral angle, in radians, defined by atoms
//a, b, c and d of the coordinate set.
func dihedral(coords *mat.Dense, a, b, c, d int) (float64, error) {
	row := func(i int) [3]float64 {
		return [3]float64{coords.At(i, 0), coords.At(i, 1), coords.At(i, 2)}
	}
	sub := func(x, y [3]float64) [3]float64 {
		return [3]float64{x[0] - y[0], x[1] - y[1], x[2] - y[2]}
	}
	cross := func(x, y [3]float64) [3]float64 {
		return [3]float64{
			x[1]*y[2] - x[2]*y[1],
			x[2]*y[0] - x[0]*y[2],
			x[0]*y[1] - x[1]*y[0],
		}
	}
	dot := func(x, y [3]float64) float64 {
		return x[0]*y[0] + x[1]*y[1] + x[2]*y[2]
	}
	b1 := sub(row(b), row(a))
	b2 := sub(row(c), row(b))
	b3 := sub(row(d), row(c))
	norm2 := math.Sqrt(dot(b2, b2))
	if norm2 <= appzero {
		return 0, ingestError(-1, "dihedral %d-%d-%d-%d has a zero-length central bond", a, b, c, d)
	}
	c12 := cross(b1, b2)
	c23 := cross(b2, b3)
	y := norm2 * dot(b1, c23)
	x := dot(c12, c23)
	if math.Abs(x) <= appzero && math.Abs(y) <= appzero {
		return 0, ingestError(-1, "dihedral %d-%d-%d-%d is undefined (collinear atoms)", a, b, c, d)
	}
	return math.Atan2(y, x), nil
}
