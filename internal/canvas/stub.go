package canvas

import "log/slog"

// StubContext satisfies RenderContext without drawing anything. Each method
// logs one warning the first time it is called and otherwise does nothing;
// getters return zero values.
type StubContext struct {
	logger *slog.Logger
	warned map[string]bool
}

// NewStubContext creates a stub. Only WithLogger is honoured.
func NewStubContext(opts ...Option) *StubContext {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	return &StubContext{logger: o.logger, warned: make(map[string]bool)}
}

func (s *StubContext) stub(method string) RenderContext {
	if !s.warned[method] {
		s.warned[method] = true
		s.logger.Warn("canvas method not implemented", "method", method)
	}
	return s
}

// Warned reports whether method has been called.
func (s *StubContext) Warned(method string) bool { return s.warned[method] }

func (s *StubContext) Save() RenderContext    { return s.stub("save") }
func (s *StubContext) Restore() RenderContext { return s.stub("restore") }

func (s *StubContext) SetFillStyle(string) RenderContext   { return s.stub("setFillStyle") }
func (s *StubContext) SetStrokeStyle(string) RenderContext { return s.stub("setStrokeStyle") }
func (s *StubContext) SetLineWidth(float64) RenderContext  { return s.stub("setLineWidth") }
func (s *StubContext) SetLineCap(string) RenderContext     { return s.stub("setLineCap") }
func (s *StubContext) SetLineJoin(string) RenderContext    { return s.stub("setLineJoin") }

func (s *StubContext) FillStyle() string {
	s.stub("fillStyle")
	return ""
}

func (s *StubContext) StrokeStyle() string {
	s.stub("strokeStyle")
	return ""
}

func (s *StubContext) LineWidth() float64 {
	s.stub("lineWidth")
	return 0
}

func (s *StubContext) LineCap() string {
	s.stub("lineCap")
	return ""
}

func (s *StubContext) LineJoin() string {
	s.stub("lineJoin")
	return ""
}

func (s *StubContext) SetFont(string, float64, string, string) error {
	s.stub("setFont")
	return nil
}

func (s *StubContext) SetFontInfo(FontInfo) error {
	s.stub("setFontInfo")
	return nil
}

func (s *StubContext) SetRawFont(string) error {
	s.stub("setRawFont")
	return nil
}

func (s *StubContext) Font() string {
	s.stub("font")
	return ""
}

func (s *StubContext) BeginPath() RenderContext                 { return s.stub("beginPath") }
func (s *StubContext) MoveTo(float64, float64) RenderContext    { return s.stub("moveTo") }
func (s *StubContext) LineTo(float64, float64) RenderContext    { return s.stub("lineTo") }
func (s *StubContext) ClosePath() RenderContext                 { return s.stub("closePath") }
func (s *StubContext) Fill() RenderContext                      { return s.stub("fill") }
func (s *StubContext) Stroke() RenderContext                    { return s.stub("stroke") }
func (s *StubContext) Scale(float64, float64) RenderContext     { return s.stub("scale") }
func (s *StubContext) Translate(float64, float64) RenderContext { return s.stub("translate") }
func (s *StubContext) Rotate(float64) RenderContext             { return s.stub("rotate") }

func (s *StubContext) QuadraticCurveTo(float64, float64, float64, float64) RenderContext {
	return s.stub("quadraticCurveTo")
}

func (s *StubContext) BezierCurveTo(float64, float64, float64, float64, float64, float64) RenderContext {
	return s.stub("bezierCurveTo")
}

func (s *StubContext) Rect(float64, float64, float64, float64) RenderContext {
	return s.stub("rect")
}

func (s *StubContext) Arc(float64, float64, float64, float64, float64, bool) RenderContext {
	return s.stub("arc")
}

func (s *StubContext) FillRect(float64, float64, float64, float64) RenderContext {
	return s.stub("fillRect")
}

func (s *StubContext) StrokeRect(float64, float64, float64, float64) RenderContext {
	return s.stub("strokeRect")
}

func (s *StubContext) ClearRect(float64, float64, float64, float64) RenderContext {
	return s.stub("clearRect")
}

func (s *StubContext) FillText(string, float64, float64) RenderContext {
	return s.stub("fillText")
}

func (s *StubContext) StrokeText(string, float64, float64) RenderContext {
	return s.stub("strokeText")
}

func (s *StubContext) MeasureText(string) TextMetrics {
	s.stub("measureText")
	return TextMetrics{}
}

func (s *StubContext) OpenGroup(string, string) RenderContext { return s.stub("openGroup") }
func (s *StubContext) CloseGroup() RenderContext              { return s.stub("closeGroup") }
func (s *StubContext) CloseRotation() RenderContext           { return s.stub("closeRotation") }
func (s *StubContext) Add(any) RenderContext                  { return s.stub("add") }
func (s *StubContext) SetLineDash([]float64) RenderContext    { return s.stub("setLineDash") }
func (s *StubContext) SetShadowColor(string) RenderContext    { return s.stub("setShadowColor") }
func (s *StubContext) SetShadowBlur(float64) RenderContext    { return s.stub("setShadowBlur") }
func (s *StubContext) Clear() RenderContext                   { return s.stub("clear") }

func (s *StubContext) OpenRotation(float64, float64, float64) RenderContext {
	return s.stub("openRotation")
}

func (s *StubContext) PointerRect(float64, float64, float64, float64) RenderContext {
	return s.stub("pointerRect")
}

func (s *StubContext) SetBackgroundFillStyle(string) RenderContext {
	return s.stub("setBackgroundFillStyle")
}

func (s *StubContext) Resize(float64, float64) RenderContext { return s.stub("resize") }
