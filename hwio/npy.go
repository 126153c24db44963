package hwio

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sbinet/npyio"
	"github.com/unixpickle/essentials"
	"github.com/unixpickle/handwriting"
)

// LoadNPZ loads stroke sequences from an archive written
// by numpy.savez(path, *strokes).
//
// Entry "arr_i.npy" holds sample i as an (L_i, 3) array
// of float32 or float64.
func LoadNPZ(path string) ([][]handwriting.Stroke, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, essentials.AddCtx("load npz", err)
	}
	defer r.Close()
	res, err := readNPZ(&r.Reader)
	if err != nil {
		return nil, essentials.AddCtx("load npz", err)
	}
	return res, nil
}

// ReadNPZ is like LoadNPZ, but reads from an in-memory or
// otherwise random-access source.
func ReadNPZ(r io.ReaderAt, size int64) ([][]handwriting.Stroke, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, essentials.AddCtx("read npz", err)
	}
	res, err := readNPZ(zr)
	if err != nil {
		return nil, essentials.AddCtx("read npz", err)
	}
	return res, nil
}

func readNPZ(zr *zip.Reader) ([][]handwriting.Stroke, error) {
	res := make([][]handwriting.Stroke, len(zr.File))
	seen := make([]bool, len(zr.File))
	for _, f := range zr.File {
		idx, err := entryIndex(f.Name)
		if err != nil {
			return nil, err
		}
		if idx >= len(res) || seen[idx] {
			return nil, fmt.Errorf("unexpected entry %q", f.Name)
		}
		seen[idx] = true

		rc, err := f.Open()
		if err != nil {
			return nil, essentials.AddCtx(f.Name, err)
		}
		data, shape, err := readFloats(rc)
		rc.Close()
		if err != nil {
			return nil, essentials.AddCtx(f.Name, err)
		}
		if len(data) != 0 && (len(shape) != 2 || shape[1] != handwriting.StrokeDim) {
			return nil, fmt.Errorf("%s: bad stroke shape %v", f.Name, shape)
		}
		res[idx] = toStrokes(data)
	}
	return res, nil
}

// LoadNPY loads stroke sequences stored as one (M, 3)
// array of concatenated strokes plus a 1-D integer array
// of per-sample lengths summing to M.
func LoadNPY(strokesPath, lengthsPath string) ([][]handwriting.Stroke, error) {
	data, shape, err := loadFloats(strokesPath)
	if err != nil {
		return nil, essentials.AddCtx("load npy", err)
	}
	if len(shape) != 2 || shape[1] != handwriting.StrokeDim {
		return nil, fmt.Errorf("load npy: bad stroke shape %v", shape)
	}
	lengths, err := loadInts(lengthsPath)
	if err != nil {
		return nil, essentials.AddCtx("load npy", err)
	}

	all := toStrokes(data)
	res := make([][]handwriting.Stroke, len(lengths))
	var offset int
	for i, l := range lengths {
		if l < 0 || offset+l > len(all) {
			return nil, fmt.Errorf("load npy: length %d of sample %d exceeds data", l, i)
		}
		res[i] = all[offset : offset+l : offset+l]
		offset += l
	}
	if offset != len(all) {
		return nil, fmt.Errorf("load npy: lengths cover %d of %d strokes", offset, len(all))
	}
	return res, nil
}

func entryIndex(name string) (int, error) {
	base := strings.TrimSuffix(name, ".npy")
	num, ok := strings.CutPrefix(base, "arr_")
	if !ok || base == name {
		return 0, fmt.Errorf("unexpected entry %q", name)
	}
	idx, err := strconv.Atoi(num)
	if err != nil || idx < 0 {
		return 0, fmt.Errorf("unexpected entry %q", name)
	}
	return idx, nil
}

func loadFloats(path string) ([]float64, []int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	return readFloats(f)
}

func readFloats(r io.Reader) ([]float64, []int, error) {
	npr, err := npyio.NewReader(r)
	if err != nil {
		return nil, nil, err
	}
	descr := npr.Header.Descr
	if descr.Fortran {
		return nil, nil, fmt.Errorf("fortran-ordered arrays are not supported")
	}
	n := numElements(descr.Shape)
	switch strings.TrimLeft(descr.Type, "<|") {
	case "f4":
		raw := make([]float32, n)
		if err := npr.Read(&raw); err != nil {
			return nil, nil, err
		}
		res := make([]float64, len(raw))
		for i, x := range raw {
			res[i] = float64(x)
		}
		return res, descr.Shape, nil
	case "f8":
		raw := make([]float64, n)
		if err := npr.Read(&raw); err != nil {
			return nil, nil, err
		}
		return raw, descr.Shape, nil
	default:
		return nil, nil, fmt.Errorf("unsupported dtype %q", descr.Type)
	}
}

func loadInts(path string) ([]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	npr, err := npyio.NewReader(f)
	if err != nil {
		return nil, err
	}
	descr := npr.Header.Descr
	if len(descr.Shape) != 1 {
		return nil, fmt.Errorf("bad lengths shape %v", descr.Shape)
	}
	n := descr.Shape[0]
	res := make([]int, n)
	switch strings.TrimLeft(descr.Type, "<|") {
	case "i8":
		raw := make([]int64, n)
		if err := npr.Read(&raw); err != nil {
			return nil, err
		}
		for i, x := range raw {
			res[i] = int(x)
		}
	case "i4":
		raw := make([]int32, n)
		if err := npr.Read(&raw); err != nil {
			return nil, err
		}
		for i, x := range raw {
			res[i] = int(x)
		}
	default:
		return nil, fmt.Errorf("unsupported dtype %q", descr.Type)
	}
	return res, nil
}

func numElements(shape []int) int {
	n := 1
	for _, s := range shape {
		n *= s
	}
	return n
}

func toStrokes(data []float64) []handwriting.Stroke {
	res := make([]handwriting.Stroke, len(data)/handwriting.StrokeDim)
	for i := range res {
		for j := 0; j < handwriting.StrokeDim; j++ {
			res[i][j] = float32(data[i*handwriting.StrokeDim+j])
		}
	}
	return res
}
