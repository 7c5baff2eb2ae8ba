package script

import (
	"fmt"

	rt "github.com/arnodel/golua/runtime"

	"github.com/opd-ai/notation-canvas/internal/canvas"
)

// newMeasureTable builds the measure table passed to layout(). Its
// getContext("2d") returns the table itself so scripts written against the
// browser API keep working.
func newMeasureTable(m *canvas.MeasureSurface) (*rt.Table, error) {
	if m == nil {
		return nil, ErrNilContext
	}
	tbl := rt.NewTable()
	set := func(name string, nArgs int, fn rt.GoFunctionFunc) {
		tbl.Set(rt.StringValue(name), newGoFunction(name, fn, nArgs, true))
	}

	set("setFont", 1, func(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
		css, err := stringArg(callArgs(c, tbl), 0)
		if err != nil {
			return nil, fmt.Errorf("setFont: %w", err)
		}
		m.SetFont(css)
		return c.PushingNext1(t.Runtime, rt.TableValue(tbl)), nil
	})
	set("font", 0, func(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
		return c.PushingNext1(t.Runtime, rt.StringValue(m.Font())), nil
	})
	set("measureText", 1, func(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
		s, err := stringArg(callArgs(c, tbl), 0)
		if err != nil {
			return nil, fmt.Errorf("measureText: %w", err)
		}
		return c.PushingNext1(t.Runtime, rt.TableValue(metricsTable(m.MeasureText(s)))), nil
	})
	set("getContext", 1, func(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
		kind := optString(callArgs(c, tbl), 0)
		if m.GetContext(kind) == nil {
			return c.PushingNext1(t.Runtime, rt.NilValue), nil
		}
		return c.PushingNext1(t.Runtime, rt.TableValue(tbl)), nil
	})
	return tbl, nil
}
