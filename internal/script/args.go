package script

import (
	"fmt"

	rt "github.com/arnodel/golua/runtime"
)

// callArgs returns the arguments of a call on self, dropping the receiver
// when the function was invoked with method syntax (ctx:fill()).
func callArgs(c *rt.GoCont, self *rt.Table) []rt.Value {
	args := append(c.Args(), c.Etc()...)
	if len(args) > 0 {
		if tbl, ok := args[0].TryTable(); ok && tbl == self {
			return args[1:]
		}
	}
	return args
}

func floatArg(args []rt.Value, idx int) (float64, error) {
	if idx >= len(args) {
		return 0, fmt.Errorf("argument %d missing (have %d)", idx+1, len(args))
	}
	if f, ok := args[idx].TryFloat(); ok {
		return f, nil
	}
	if i, ok := args[idx].TryInt(); ok {
		return float64(i), nil
	}
	return 0, fmt.Errorf("argument %d is not a number", idx+1)
}

func floatArgs(args []rt.Value, n int) ([]float64, error) {
	out := make([]float64, n)
	for i := range out {
		v, err := floatArg(args, i)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func stringArg(args []rt.Value, idx int) (string, error) {
	if idx >= len(args) {
		return "", fmt.Errorf("argument %d missing (have %d)", idx+1, len(args))
	}
	if s, ok := args[idx].TryString(); ok {
		return s, nil
	}
	return "", fmt.Errorf("argument %d is not a string", idx+1)
}

// optString returns the string at idx or "" when it is absent or nil.
func optString(args []rt.Value, idx int) string {
	if idx >= len(args) {
		return ""
	}
	s, _ := args[idx].TryString()
	return s
}

// optBool returns the truthiness of the argument at idx.
func optBool(args []rt.Value, idx int) bool {
	if idx >= len(args) {
		return false
	}
	if b, ok := args[idx].TryBool(); ok {
		return b
	}
	return !args[idx].IsNil()
}

// sizeString accepts a size given as a number of pixels or a "12pt" string.
func sizeString(v rt.Value) string {
	if s, ok := v.TryString(); ok {
		return s
	}
	if f, ok := v.TryFloat(); ok {
		return fmt.Sprintf("%gpx", f)
	}
	if i, ok := v.TryInt(); ok {
		return fmt.Sprintf("%dpx", i)
	}
	return ""
}

func tableString(tbl *rt.Table, key string) string {
	s, _ := tbl.Get(rt.StringValue(key)).TryString()
	return s
}

func numberList(v rt.Value) []float64 {
	tbl, ok := v.TryTable()
	if !ok {
		return nil
	}
	var out []float64
	for i := int64(1); ; i++ {
		item := tbl.Get(rt.IntValue(i))
		if item == rt.NilValue {
			break
		}
		if f, ok := item.TryFloat(); ok {
			out = append(out, f)
		} else if n, ok := item.TryInt(); ok {
			out = append(out, float64(n))
		}
	}
	return out
}
