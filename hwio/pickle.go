package hwio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nlpodyssey/gopickle/pickle"
	"github.com/nlpodyssey/gopickle/types"
	"github.com/sbinet/npyio"
	"github.com/sbinet/npyio/npy"
	"github.com/unixpickle/essentials"
	"github.com/unixpickle/handwriting"
)

// LoadObjectNPY loads stroke sequences from a .npy file
// holding an object array of (L_i, 3) arrays, as written
// by numpy.save(path, numpy.array(strokes, dtype=object)).
//
// If every sequence has the same length, numpy stores an
// (N, L, 3) object array of scalars instead; that layout
// is accepted too.
func LoadObjectNPY(path string) ([][]handwriting.Stroke, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, essentials.AddCtx("load object npy", err)
	}
	defer f.Close()
	res, err := ReadObjectNPY(bufio.NewReader(f))
	if err != nil {
		return nil, essentials.AddCtx("load object npy", err)
	}
	return res, nil
}

// ReadObjectNPY is like LoadObjectNPY, but reads from r.
func ReadObjectNPY(r io.Reader) ([][]handwriting.Stroke, error) {
	npr, err := npyio.NewReader(r)
	if err != nil {
		return nil, err
	}
	descr := npr.Header.Descr
	if strings.TrimLeft(descr.Type, "<>|=") != "O" {
		return nil, fmt.Errorf("expected object array but got dtype %q", descr.Type)
	}

	// The header reader stops at the end of the header, so
	// the pickled array follows directly.
	u := pickle.NewUnpickler(r)
	u.FindClass = findNumpyClass
	obj, err := u.Load()
	if err != nil {
		return nil, essentials.AddCtx("unpickle", err)
	}
	outer, ok := obj.(*ndarray)
	if !ok {
		return nil, fmt.Errorf("unpickled %T instead of an array", obj)
	}
	list, ok := outer.Data().(*types.List)
	if !ok {
		return nil, fmt.Errorf("unexpected object array data %T", outer.Data())
	}

	switch shape := descr.Shape; {
	case len(shape) == 1:
		return objectSequences(list, shape[0])
	case len(shape) == 3 && shape[2] == handwriting.StrokeDim:
		return scalarSequences(list, shape[0], shape[1])
	default:
		return nil, fmt.Errorf("bad object array shape %v", shape)
	}
}

func objectSequences(list *types.List, n int) ([][]handwriting.Stroke, error) {
	if list.Len() != n {
		return nil, fmt.Errorf("object array has %d of %d elements", list.Len(), n)
	}
	res := make([][]handwriting.Stroke, n)
	for i := range res {
		arr, ok := list.Get(i).(*ndarray)
		if !ok {
			return nil, fmt.Errorf("sequence %d: not an array: %T", i, list.Get(i))
		}
		data, err := numericData(arr.Data())
		if err != nil {
			return nil, fmt.Errorf("sequence %d: %w", i, err)
		}
		shape := arr.Shape()
		if len(data) != 0 && (len(shape) != 2 || shape[1] != handwriting.StrokeDim) {
			return nil, fmt.Errorf("sequence %d: bad stroke shape %v", i, shape)
		}
		res[i] = toStrokes(data)
	}
	return res, nil
}

func scalarSequences(list *types.List, n, length int) ([][]handwriting.Stroke, error) {
	if list.Len() != n*length*handwriting.StrokeDim {
		return nil, fmt.Errorf("object array has %d scalars for shape (%d, %d, %d)",
			list.Len(), n, length, handwriting.StrokeDim)
	}
	data, err := numericData([]interface{}(*list))
	if err != nil {
		return nil, err
	}
	res := make([][]handwriting.Stroke, n)
	seqSize := length * handwriting.StrokeDim
	for i := range res {
		res[i] = toStrokes(data[i*seqSize : (i+1)*seqSize])
	}
	return res, nil
}

func numericData(data interface{}) ([]float64, error) {
	var res []float64
	switch data := data.(type) {
	case []float32:
		for _, x := range data {
			res = append(res, float64(x))
		}
	case []float64:
		res = data
	case []int8:
		for _, x := range data {
			res = append(res, float64(x))
		}
	case []int16:
		for _, x := range data {
			res = append(res, float64(x))
		}
	case []int32:
		for _, x := range data {
			res = append(res, float64(x))
		}
	case []int64:
		for _, x := range data {
			res = append(res, float64(x))
		}
	case []interface{}:
		for i, x := range data {
			switch x := x.(type) {
			case float64:
				res = append(res, x)
			case int:
				res = append(res, float64(x))
			default:
				return nil, fmt.Errorf("element %d: unsupported scalar %T", i, x)
			}
		}
	default:
		return nil, fmt.Errorf("unsupported array data %T", data)
	}
	return res, nil
}

func findNumpyClass(module, name string) (interface{}, error) {
	switch module + "." + name {
	case "numpy.core.multiarray._reconstruct", "numpy._core.multiarray._reconstruct":
		return reconstruct{}, nil
	case "numpy.ndarray":
		return &ndarray{}, nil
	}
	return npy.ClassLoader(module, name)
}

// reconstruct stands in for numpy's array constructor;
// the array is filled in by ndarray.PySetState.
type reconstruct struct{}

func (reconstruct) Call(args ...interface{}) (interface{}, error) {
	return &ndarray{}, nil
}

// ndarray is an npy.Array which also accepts raw data
// pickled as a str, as Python 2 writes it.
type ndarray struct {
	npy.Array
}

func (a *ndarray) PySetState(state interface{}) error {
	if t, ok := state.(*types.Tuple); ok && t.Len() > 0 {
		if raw, ok := t.Get(t.Len() - 1).(string); ok {
			fixed := append(types.Tuple{}, *t...)
			fixed[len(fixed)-1] = []byte(raw)
			state = &fixed
		}
	}
	return a.Array.PySetState(state)
}
