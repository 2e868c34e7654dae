package bind

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"gonum.org/v1/gonum/mat"
)

type nopWCloser struct {
	io.Writer
}

func (nopWCloser) Close() error { return nil }

func compressor(a io.Writer, name string) (io.WriteCloser, error) {
	switch {
	case strings.HasSuffix(name, ".gz"):
		return gzip.NewWriter(a), nil
	case strings.HasSuffix(name, ".zst") || strings.HasSuffix(name, ".zstd"):
		return zstd.NewWriter(a, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	}
	return nopWCloser{a}, nil
}

//WriteEnsemble writes the whole ensemble as a multi-XYZ file, compressed
//according to the file extension like ReadEnsemble. The comment line of
//each entry carries the conformer identity and, when present, its score.
func WriteEnsemble(name string, E *Ensemble) error {
	comment := func(C *Conformer) string {
		if s, ok := C.Score(); ok {
			return fmt.Sprintf("conformer %d score %.6f", C.ID(), s)
		}
		return fmt.Sprintf("conformer %d", C.ID())
	}
	confs := make([]*Conformer, E.Len())
	for i := range confs {
		confs[i] = E.Conformer(i)
	}
	return writeXYZ(name, confs, comment)
}

//WriteModes writes the representative conformer of each binding mode, in
//mode order, as a multi-XYZ file. The comment line of each entry carries
//the mode number, the representative identity, the cluster size and, when
//present, the representative score. This is the ligand-structure half of
//what a writer layer needs; summary tables are left to that layer.
func WriteModes(name string, E *Ensemble, modes []*BindingMode) error {
	confs := make([]*Conformer, 0, len(modes))
	comments := make(map[int]string, len(modes))
	for i, m := range modes {
		if m.Rep < 0 || m.Rep >= E.Len() {
			return ingestError(m.Rep, "binding mode %d points outside the ensemble", i)
		}
		C := E.Conformer(m.Rep)
		confs = append(confs, C)
		if m.Scored {
			comments[m.Rep] = fmt.Sprintf("mode %d conformer %d size %d score %.6f", i+1, m.Rep, m.Size, m.Score)
		} else {
			comments[m.Rep] = fmt.Sprintf("mode %d conformer %d size %d", i+1, m.Rep, m.Size)
		}
	}
	return writeXYZ(name, confs, func(C *Conformer) string { return comments[C.ID()] })
}

func writeXYZ(name string, confs []*Conformer, comment func(*Conformer) string) error {
	f, err := os.Create(name)
	if err != nil {
		return ingestError(-1, "can't create %s: %s", name, err.Error())
	}
	defer f.Close()
	b := bufio.NewWriter(f)
	w, err := compressor(b, name)
	if err != nil {
		return ingestError(-1, "can't set up compression for %s: %s", name, err.Error())
	}
	for _, C := range confs {
		if err := writeXYZEntry(w, C.Coords(), comment(C)); err != nil {
			return ingestError(C.ID(), "can't write to %s: %s", name, err.Error())
		}
	}
	if err := w.Close(); err != nil {
		return ingestError(-1, "can't finish writing %s: %s", name, err.Error())
	}
	return b.Flush()
}

func writeXYZEntry(w io.Writer, coords *mat.Dense, comment string) error {
	nat, _ := coords.Dims()
	if _, err := fmt.Fprintf(w, "%d\n%s\n", nat, comment); err != nil {
		return err
	}
	for i := 0; i < nat; i++ {
		_, err := fmt.Fprintf(w, "%12.6f %12.6f %12.6f\n", coords.At(i, 0), coords.At(i, 1), coords.At(i, 2))
		if err != nil {
			return err
		}
	}
	return nil
}
