package runtime

// A Frame bundles one environment with the per-frame pending return value.
// Loop break/continue flags are owned by the Stack as a whole.
type Frame struct {
	env    Environment
	ret    ValueCell
	hasRet bool
}

// NewFrame returns a frame with a fresh empty environment.
func NewFrame() *Frame {
	return &Frame{env: NewEnvironment()}
}

// NewFrameFrom returns a frame using the given environment.
func NewFrameFrom(env Environment) *Frame {
	return &Frame{env: env}
}

// Env returns the frame's environment.
func (f *Frame) Env() Environment { return f.env }

// ReturnValue returns the pending return value cell, if any.
func (f *Frame) ReturnValue() (ValueCell, bool) { return f.ret, f.hasRet }

// SetReturnValue records a pending return value.
func (f *Frame) SetReturnValue(c ValueCell) {
	f.ret = c
	f.hasRet = true
}

// ClearReturnValue drops the pending return value.
func (f *Frame) ClearReturnValue() {
	f.ret = ValueCell{}
	f.hasRet = false
}
