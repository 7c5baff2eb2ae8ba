package script

import (
	"fmt"

	rt "github.com/arnodel/golua/runtime"

	"github.com/opd-ai/notation-canvas/internal/canvas"
)

// ContextBindings exposes a RenderContext to Lua as a table of functions
// named like the browser canvas API. Functions that return the context in
// Go return the table in Lua, so calls chain with method syntax.
type ContextBindings struct {
	rc    canvas.RenderContext
	table *rt.Table
	err   error
}

// NewContextBindings builds the ctx table for rc.
func NewContextBindings(rc canvas.RenderContext) (*ContextBindings, error) {
	if rc == nil {
		return nil, ErrNilContext
	}
	b := &ContextBindings{rc: rc, table: rt.NewTable()}
	b.register()
	return b, nil
}

// Table returns the Lua table.
func (b *ContextBindings) Table() *rt.Table { return b.table }

// Err returns the first fatal error raised by a binding, such as an
// unresolvable font.
func (b *ContextBindings) Err() error { return b.err }

func (b *ContextBindings) set(name string, nArgs int, fn rt.GoFunctionFunc) {
	b.table.Set(rt.StringValue(name), newGoFunction(name, fn, nArgs, true))
}

func (b *ContextBindings) self(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
	return c.PushingNext1(t.Runtime, rt.TableValue(b.table)), nil
}

// chain registers a method taking no arguments.
func (b *ContextBindings) chain(name string, call func()) {
	b.set(name, 0, func(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
		call()
		return b.self(t, c)
	})
}

// numeric registers a method taking n numbers.
func (b *ContextBindings) numeric(name string, n int, call func(a []float64)) {
	b.set(name, n, func(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
		a, err := floatArgs(callArgs(c, b.table), n)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		call(a)
		return b.self(t, c)
	})
}

// str registers a method taking one string.
func (b *ContextBindings) str(name string, call func(s string)) {
	b.set(name, 1, func(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
		s, err := stringArg(callArgs(c, b.table), 0)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		call(s)
		return b.self(t, c)
	})
}

// getter registers a method returning one value.
func (b *ContextBindings) getter(name string, get func() rt.Value) {
	b.set(name, 0, func(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
		return c.PushingNext1(t.Runtime, get()), nil
	})
}

// fatal records err and returns it as a Lua error.
func (b *ContextBindings) fatal(name string, err error) error {
	if b.err == nil {
		b.err = err
	}
	return fmt.Errorf("%s: %w", name, err)
}

func (b *ContextBindings) register() {
	rc := b.rc

	b.chain("save", func() { rc.Save() })
	b.chain("restore", func() { rc.Restore() })

	b.str("setFillStyle", func(s string) { rc.SetFillStyle(s) })
	b.str("setStrokeStyle", func(s string) { rc.SetStrokeStyle(s) })
	b.numeric("setLineWidth", 1, func(a []float64) { rc.SetLineWidth(a[0]) })
	b.str("setLineCap", func(s string) { rc.SetLineCap(s) })
	b.str("setLineJoin", func(s string) { rc.SetLineJoin(s) })
	b.getter("fillStyle", func() rt.Value { return rt.StringValue(rc.FillStyle()) })
	b.getter("strokeStyle", func() rt.Value { return rt.StringValue(rc.StrokeStyle()) })
	b.getter("lineWidth", func() rt.Value { return rt.FloatValue(rc.LineWidth()) })
	b.getter("lineCap", func() rt.Value { return rt.StringValue(rc.LineCap()) })
	b.getter("lineJoin", func() rt.Value { return rt.StringValue(rc.LineJoin()) })

	b.set("setFont", 4, b.setFont)
	b.set("setRawFont", 1, func(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
		css, err := stringArg(callArgs(c, b.table), 0)
		if err != nil {
			return nil, fmt.Errorf("setRawFont: %w", err)
		}
		if err := rc.SetRawFont(css); err != nil {
			return nil, b.fatal("setRawFont", err)
		}
		return b.self(t, c)
	})
	b.getter("font", func() rt.Value { return rt.StringValue(rc.Font()) })

	b.chain("beginPath", func() { rc.BeginPath() })
	b.numeric("moveTo", 2, func(a []float64) { rc.MoveTo(a[0], a[1]) })
	b.numeric("lineTo", 2, func(a []float64) { rc.LineTo(a[0], a[1]) })
	b.numeric("quadraticCurveTo", 4, func(a []float64) { rc.QuadraticCurveTo(a[0], a[1], a[2], a[3]) })
	b.numeric("bezierCurveTo", 6, func(a []float64) { rc.BezierCurveTo(a[0], a[1], a[2], a[3], a[4], a[5]) })
	b.numeric("rect", 4, func(a []float64) { rc.Rect(a[0], a[1], a[2], a[3]) })
	b.set("arc", 6, b.arc)
	b.chain("closePath", func() { rc.ClosePath() })
	b.chain("fill", func() { rc.Fill() })
	b.chain("stroke", func() { rc.Stroke() })

	b.numeric("fillRect", 4, func(a []float64) { rc.FillRect(a[0], a[1], a[2], a[3]) })
	b.numeric("strokeRect", 4, func(a []float64) { rc.StrokeRect(a[0], a[1], a[2], a[3]) })
	b.numeric("clearRect", 4, func(a []float64) { rc.ClearRect(a[0], a[1], a[2], a[3]) })
	b.set("fillText", 3, b.text("fillText", rc.FillText))
	b.set("strokeText", 3, b.text("strokeText", rc.StrokeText))
	b.set("measureText", 1, func(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
		s, err := stringArg(callArgs(c, b.table), 0)
		if err != nil {
			return nil, fmt.Errorf("measureText: %w", err)
		}
		return c.PushingNext1(t.Runtime, rt.TableValue(metricsTable(rc.MeasureText(s)))), nil
	})

	b.numeric("scale", 2, func(a []float64) { rc.Scale(a[0], a[1]) })
	b.numeric("translate", 2, func(a []float64) { rc.Translate(a[0], a[1]) })
	b.numeric("rotate", 1, func(a []float64) { rc.Rotate(a[0]) })

	b.set("openGroup", 2, func(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
		args := callArgs(c, b.table)
		rc.OpenGroup(optString(args, 0), optString(args, 1))
		return b.self(t, c)
	})
	b.chain("closeGroup", func() { rc.CloseGroup() })
	b.numeric("openRotation", 3, func(a []float64) { rc.OpenRotation(a[0], a[1], a[2]) })
	b.chain("closeRotation", func() { rc.CloseRotation() })
	b.set("add", 1, func(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
		args := callArgs(c, b.table)
		var child any
		if len(args) > 0 {
			child = args[0].Interface()
		}
		rc.Add(child)
		return b.self(t, c)
	})
	b.numeric("pointerRect", 4, func(a []float64) { rc.PointerRect(a[0], a[1], a[2], a[3]) })
	b.set("setLineDash", 1, func(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
		args := callArgs(c, b.table)
		var dash []float64
		if len(args) > 0 {
			dash = numberList(args[0])
		}
		rc.SetLineDash(dash)
		return b.self(t, c)
	})
	b.str("setShadowColor", func(s string) { rc.SetShadowColor(s) })
	b.numeric("setShadowBlur", 1, func(a []float64) { rc.SetShadowBlur(a[0]) })
	b.str("setBackgroundFillStyle", func(s string) { rc.SetBackgroundFillStyle(s) })
	b.numeric("resize", 2, func(a []float64) { rc.Resize(a[0], a[1]) })
	b.chain("clear", func() { rc.Clear() })
}

// setFont accepts either a descriptor table {family=, size=, weight=,
// style=} or positional family, size, weight, style where size is a pixel
// number or a "12pt" string.
func (b *ContextBindings) setFont(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
	args := callArgs(c, b.table)
	var info canvas.FontInfo
	if len(args) > 0 {
		if tbl, ok := args[0].TryTable(); ok {
			info = canvas.FontInfo{
				Family: tableString(tbl, "family"),
				Size:   sizeString(tbl.Get(rt.StringValue("size"))),
				Weight: tableString(tbl, "weight"),
				Style:  tableString(tbl, "style"),
			}
		} else {
			info.Family = optString(args, 0)
			if len(args) > 1 {
				info.Size = sizeString(args[1])
			}
			info.Weight = optString(args, 2)
			info.Style = optString(args, 3)
		}
	}
	if err := b.rc.SetFontInfo(info); err != nil {
		return nil, b.fatal("setFont", err)
	}
	return b.self(t, c)
}

func (b *ContextBindings) arc(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
	args := callArgs(c, b.table)
	a, err := floatArgs(args, 5)
	if err != nil {
		return nil, fmt.Errorf("arc: %w", err)
	}
	b.rc.Arc(a[0], a[1], a[2], a[3], a[4], optBool(args, 5))
	return b.self(t, c)
}

func (b *ContextBindings) text(name string, draw func(string, float64, float64) canvas.RenderContext) rt.GoFunctionFunc {
	return func(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
		args := callArgs(c, b.table)
		s, err := stringArg(args, 0)
		if err != nil {
			return nil, fmt.Errorf("%s: text: %w", name, err)
		}
		x, err := floatArg(args, 1)
		if err != nil {
			return nil, fmt.Errorf("%s: x: %w", name, err)
		}
		y, err := floatArg(args, 2)
		if err != nil {
			return nil, fmt.Errorf("%s: y: %w", name, err)
		}
		draw(s, x, y)
		return b.self(t, c)
	}
}

// metricsTable converts metrics to a Lua table with browser field names.
func metricsTable(m canvas.TextMetrics) *rt.Table {
	tbl := rt.NewTable()
	for _, f := range []struct {
		key string
		val float64
	}{
		{"width", m.Width},
		{"actualBoundingBoxLeft", m.ActualBoundingBoxLeft},
		{"actualBoundingBoxRight", m.ActualBoundingBoxRight},
		{"actualBoundingBoxAscent", m.ActualBoundingBoxAscent},
		{"actualBoundingBoxDescent", m.ActualBoundingBoxDescent},
		{"fontBoundingBoxAscent", m.FontBoundingBoxAscent},
		{"fontBoundingBoxDescent", m.FontBoundingBoxDescent},
		{"emHeightAscent", m.EmHeightAscent},
		{"emHeightDescent", m.EmHeightDescent},
		{"alphabeticBaseline", m.AlphabeticBaseline},
		{"hangingBaseline", m.HangingBaseline},
		{"ideographicBaseline", m.IdeographicBaseline},
	} {
		tbl.Set(rt.StringValue(f.key), rt.FloatValue(f.val))
	}
	return tbl
}
