package bind

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestReadEnsemble(Te *testing.T) {
	E, err := ReadEnsemble("test/ensemble.xyz")
	if err != nil {
		Te.Fatal(err)
	}
	if E.Len() != 3 || E.NAtoms() != 3 {
		Te.Fatalf("want 3 conformers of 3 atoms, got %d of %d", E.Len(), E.NAtoms())
	}
	//the first atom of the first conformer, from the fixture.
	if got := E.Conformer(0).Coords().At(0, 0); math.Abs(got-0.0) > 1e-9 {
		Te.Errorf("wrong first coordinate: %v", got)
	}
	if got := E.Conformer(2).Coords().At(2, 2); math.Abs(got-1.2) > 1e-9 {
		Te.Errorf("wrong last coordinate: %v", got)
	}
}

func TestWriteReadRoundTrip(Te *testing.T) {
	E := twoModeEnsemble(3, 2, 81)
	dir := Te.TempDir()
	for _, name := range []string{"ens.xyz", "ens.xyz.gz", "ens.xyz.zst"} {
		path := filepath.Join(dir, name)
		if err := WriteEnsemble(path, E); err != nil {
			Te.Fatal(err)
		}
		back, err := ReadEnsemble(path)
		if err != nil {
			Te.Fatal(err)
		}
		if back.Len() != E.Len() || back.NAtoms() != E.NAtoms() {
			Te.Fatalf("%s: shape changed on round trip", name)
		}
		for i := 0; i < E.Len(); i++ {
			a := E.Conformer(i).Coords()
			b := back.Conformer(i).Coords()
			for at := 0; at < E.NAtoms(); at++ {
				for j := 0; j < 3; j++ {
					if math.Abs(a.At(at, j)-b.At(at, j)) > 1e-5 {
						Te.Fatalf("%s: conformer %d atom %d differs: %v vs %v", name, i, at, a.At(at, j), b.At(at, j))
					}
				}
			}
		}
	}
}

func TestReadEnsembleMalformed(Te *testing.T) {
	cases := []string{
		"3\ncomment\n0 0 0\n1 1 1\n",            //truncated
		"two\ncomment\n0 0 0\n",                 //bad atom count
		"1\ncomment\n0 zero 0\n",                //bad coordinate
		"1\ncomment\n0 0 0\n2\nc\n0 0 0\n1 1 1\n", //atom count changes
	}
	for i, c := range cases {
		_, err := ReadEnsembleFrom(strings.NewReader(c))
		if err == nil {
			Te.Errorf("case %d: malformed input accepted", i)
			continue
		}
		fmt.Println("expected failure:", err)
		if _, ok := err.(*IngestError); !ok {
			Te.Errorf("case %d: want *IngestError, got %T", i, err)
		}
	}
	//the offending conformer is identified.
	_, err := ReadEnsembleFrom(strings.NewReader("1\nc\n0 0 0\n1\nc\n0 x 0\n"))
	ierr, ok := err.(*IngestError)
	if !ok {
		Te.Fatalf("want *IngestError, got %T", err)
	}
	if ierr.Conformer() != 1 {
		Te.Errorf("want conformer 1 blamed, got %d", ierr.Conformer())
	}
}

//failingReader serves its data and then fails, like a cut-off compressed
//stream whose underlying file ends mid-way.
type failingReader struct {
	data []byte
	pos  int
}

func (r *failingReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, errors.New("unexpected EOF")
	}
	n := copy(p, r.data[r.pos:])
	r.pos += n
	return n, nil
}

func TestReadEnsembleSourceFailure(Te *testing.T) {
	//the failure hits exactly at a conformer boundary, after one complete
	//entry: the partial ensemble must not come back as a valid short one.
	entry := "3\nconformer 0\n0 0 0\n1 0 0\n0 1 0\n"
	_, err := ReadEnsembleFrom(&failingReader{data: []byte(entry)})
	if err == nil {
		Te.Fatal("a failing ensemble source was read as a complete short ensemble")
	}
	fmt.Println("expected failure:", err)
	if _, ok := err.(*IngestError); !ok {
		Te.Errorf("want *IngestError, got %T", err)
	}
	//and also mid-entry.
	_, err = ReadEnsembleFrom(&failingReader{data: []byte("3\nconformer 0\n0 0 0\n")})
	if err == nil {
		Te.Error("a source failing mid-entry was accepted")
	}
}

func TestReadScores(Te *testing.T) {
	scores, err := ReadScores("test/scores.csv")
	if err != nil {
		Te.Fatal(err)
	}
	if len(scores) != 3 {
		Te.Fatalf("want 3 scores, got %d", len(scores))
	}
	if math.Abs(scores[0]-(-7.25)) > 1e-9 {
		Te.Errorf("wrong score for conformer 0: %v", scores[0])
	}
}

func TestLoad(Te *testing.T) {
	E, err := Load("test/ensemble.xyz", "test/scores.csv")
	if err != nil {
		Te.Fatal(err)
	}
	s, ok := E.Conformer(1).Score()
	if !ok {
		Te.Fatal("conformer 1 lost its score")
	}
	if math.Abs(s-(-6.80)) > 1e-9 {
		Te.Errorf("wrong score for conformer 1: %v", s)
	}
	//scoreless loading also works.
	if _, err := Load("test/ensemble.xyz", ""); err != nil {
		Te.Error(err)
	}
}

func TestSetScoresValidation(Te *testing.T) {
	E, err := NewEnsemble([]*mat.Dense{testGeometry(), testGeometry()})
	if err != nil {
		Te.Fatal(err)
	}
	err = E.SetScores(map[int]float64{0: -1.0, 5: -2.0})
	if err == nil {
		Te.Fatal("a score for a conformer outside the ensemble was accepted")
	}
	ierr, ok := err.(*IngestError)
	if !ok {
		Te.Fatalf("want *IngestError, got %T", err)
	}
	if ierr.Conformer() != 5 {
		Te.Errorf("want conformer 5 blamed, got %d", ierr.Conformer())
	}
	//nothing was attached: validation happens before any mutation.
	if _, ok := E.Conformer(0).Score(); ok {
		Te.Error("a failed SetScores still attached a score")
	}
	if err := E.SetScores(map[int]float64{1: math.NaN()}); err == nil {
		Te.Error("a NaN score was accepted")
	}
}

func TestNewEnsembleValidation(Te *testing.T) {
	if _, err := NewEnsemble(nil); err == nil {
		Te.Error("an empty ensemble was accepted")
	}
	a := mat.NewDense(3, 3, nil)
	b := mat.NewDense(4, 3, nil)
	_, err := NewEnsemble([]*mat.Dense{a, b})
	if err == nil {
		Te.Fatal("mismatched atom counts were accepted")
	}
	if ierr, ok := err.(*IngestError); !ok || ierr.Conformer() != 1 {
		Te.Errorf("want conformer 1 blamed, got %v", err)
	}
	c := mat.NewDense(3, 3, nil)
	c.Set(1, 1, math.Inf(1))
	if _, err := NewEnsemble([]*mat.Dense{c}); err == nil {
		Te.Error("a non-finite coordinate was accepted")
	}
}

func TestWriteModes(Te *testing.T) {
	E := twoModeEnsemble(4, 3, 91)
	res, err := Reduce(E, nil)
	if err != nil {
		Te.Fatal(err)
	}
	path := filepath.Join(Te.TempDir(), "modes.xyz")
	if err := WriteModes(path, E, res.Modes); err != nil {
		Te.Fatal(err)
	}
	back, err := ReadEnsemble(path)
	if err != nil {
		Te.Fatal(err)
	}
	if back.Len() != len(res.Modes) {
		Te.Errorf("want %d structures, got %d", len(res.Modes), back.Len())
	}
}
