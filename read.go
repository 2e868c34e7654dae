package bind

import (
	"bufio"
	"compress/gzip"
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	"gonum.org/v1/gonum/mat"
)

//The ensemble format is a bare multi-XYZ: for each conformer, one line with
//the atom count, one free comment line, then one line per atom with the
//cartesian coordinates in Angstroms. A leading atom-symbol field, as found
//in regular XYZ files, is tolerated and ignored: goBind only cares about
//coordinates, not topology.

//zstd.Decoder.Close returns nothing, so it doesn't implement io.ReadCloser
//by itself. Same small indirection as in goChem's stf package.
type zstdql struct {
	closeql func()
	*zstd.Decoder
}

func (z zstdql) Close() error {
	z.closeql()
	return nil
}

type nopCloser struct {
	io.Reader
}

func (nopCloser) Close() error { return nil }

//decompressor picks a decompression layer from the file extension:
//.gz and .zst/.zstd are understood, anything else is read as plain text.
func decompressor(a io.Reader, name string) (io.ReadCloser, error) {
	switch {
	case strings.HasSuffix(name, ".gz"):
		return gzip.NewReader(a)
	case strings.HasSuffix(name, ".zst") || strings.HasSuffix(name, ".zstd"):
		r, err := zstd.NewReader(a)
		if err != nil {
			return nil, err
		}
		return zstdql{r.Close, r}, nil
	}
	return nopCloser{a}, nil
}

//ReadEnsemble reads a multi-XYZ conformer ensemble from the named file,
//transparently decompressing it if the name ends in .gz, .zst or .zstd.
//Conformer identities are assigned from file order.
func ReadEnsemble(name string) (*Ensemble, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, ingestError(-1, "can't open ensemble %s: %s", name, err.Error())
	}
	defer f.Close()
	r, err := decompressor(bufio.NewReader(f), name)
	if err != nil {
		return nil, ingestError(-1, "can't decompress ensemble %s: %s", name, err.Error())
	}
	defer r.Close()
	E, err := ReadEnsembleFrom(r)
	if err != nil {
		return nil, errDecorate(err, "ReadEnsemble "+name)
	}
	return E, nil
}

//ReadEnsembleFrom reads a multi-XYZ conformer ensemble from r.
func ReadEnsembleFrom(r io.Reader) (*Ensemble, error) {
	scan := bufio.NewScanner(r)
	var coords []*mat.Dense
	id := 0
	for {
		nat, done, err := readXYZHeader(scan, id)
		if err != nil {
			return nil, err
		}
		if done {
			break
		}
		c := mat.NewDense(nat, 3, nil)
		for i := 0; i < nat; i++ {
			if !scan.Scan() {
				if serr := scan.Err(); serr != nil {
					return nil, ingestError(id, "ensemble source failed: %s", serr.Error())
				}
				return nil, ingestError(id, "truncated entry: expected %d atoms, got %d", nat, i)
			}
			fields := strings.Fields(scan.Text())
			if len(fields) == 4 {
				fields = fields[1:] //drop the atom symbol
			}
			if len(fields) != 3 {
				return nil, ingestError(id, "malformed coordinate line for atom %d: %q", i, scan.Text())
			}
			for j, v := range fields {
				f, err := strconv.ParseFloat(v, 64)
				if err != nil {
					return nil, ingestError(id, "can't parse coordinate for atom %d: %q", i, v)
				}
				c.Set(i, j, f)
			}
		}
		coords = append(coords, c)
		id++
	}
	E, err := NewEnsemble(coords)
	if err != nil {
		return nil, errDecorate(err, "ReadEnsembleFrom")
	}
	return E, nil
}

//readXYZHeader consumes the atom-count and comment lines of the next entry.
//done is true when the input ran out cleanly before a new entry started.
func readXYZHeader(scan *bufio.Scanner, id int) (nat int, done bool, err error) {
	var line string
	for scan.Scan() {
		line = strings.TrimSpace(scan.Text())
		if line != "" {
			break
		}
	}
	if line == "" {
		//distinguish a clean end of input from a failing source: a
		//truncated compressed stream must not pass for a short ensemble.
		if err := scan.Err(); err != nil {
			return 0, true, ingestError(id, "ensemble source failed: %s", err.Error())
		}
		return 0, true, nil
	}
	nat, err2 := strconv.Atoi(line)
	if err2 != nil || nat <= 0 {
		return 0, false, ingestError(id, "malformed atom-count line: %q", line)
	}
	if !scan.Scan() {
		return 0, false, ingestError(id, "missing comment line")
	}
	return nat, false, nil
}

//ReadScores reads a conformer-identity -> score table from the named CSV
//file, in the two-column (id, score) shape the generator layer writes
//(Scores.csv). A single header line is tolerated. Lower scores mean better
//binding estimates.
func ReadScores(name string) (map[int]float64, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, ingestError(-1, "can't open scores %s: %s", name, err.Error())
	}
	defer f.Close()
	c := csv.NewReader(f)
	c.FieldsPerRecord = 2
	c.TrimLeadingSpace = true
	records, err := c.ReadAll()
	if err != nil {
		return nil, ingestError(-1, "can't parse scores %s: %s", name, err.Error())
	}
	scores := make(map[int]float64, len(records))
	for i, rec := range records {
		id, err := strconv.Atoi(strings.TrimSpace(rec[0]))
		if err != nil {
			if i == 0 {
				continue //header line
			}
			return nil, ingestError(-1, "can't parse conformer identity %q in %s", rec[0], name)
		}
		s, err := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64)
		if err != nil {
			return nil, ingestError(id, "can't parse score %q", rec[1])
		}
		scores[id] = s
	}
	return scores, nil
}

//Load reads an ensemble and, if scoresname is not empty, attaches the
//scores in that file to it. This is the one-call entry point matching what
//the generator layer leaves on disk: a conformer file and a Scores.csv.
func Load(ensname, scoresname string) (*Ensemble, error) {
	E, err := ReadEnsemble(ensname)
	if err != nil {
		return nil, errDecorate(err, "Load")
	}
	if scoresname == "" {
		return E, nil
	}
	scores, err := ReadScores(scoresname)
	if err != nil {
		return nil, errDecorate(err, "Load")
	}
	if err := E.SetScores(scores); err != nil {
		return nil, errDecorate(err, "Load")
	}
	return E, nil
}
