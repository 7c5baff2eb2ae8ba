// Package script runs Lua layout scripts against the canvas adapter. A
// script defines draw(ctx) and optionally layout(measure); the host calls
// them with tables whose functions forward to a RenderContext and a
// MeasureSurface.
package script

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/arnodel/golua/lib"
	rt "github.com/arnodel/golua/runtime"
)

// RuntimeConfig limits what a script may consume.
type RuntimeConfig struct {
	// CPULimit is the instruction budget per call. 0 means unlimited.
	CPULimit uint64
	// MemoryLimit is the allocation budget in bytes per call. 0 means
	// unlimited.
	MemoryLimit uint64
	// Stdout receives print output in addition to the capture buffer.
	Stdout io.Writer
}

// DefaultRuntimeConfig allows 50 million instructions and 64 MB per call.
func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		CPULimit:    50_000_000,
		MemoryLimit: 64 * 1024 * 1024,
	}
}

// Runtime is a golua runtime with resource limits applied to every call.
type Runtime struct {
	config  RuntimeConfig
	runtime *rt.Runtime
	output  *bytes.Buffer
	cleanup func()
	mu      sync.Mutex
}

// NewRuntime creates a runtime with the Lua standard library loaded.
func NewRuntime(config RuntimeConfig) *Runtime {
	output := &bytes.Buffer{}
	var stdout io.Writer = output
	if config.Stdout != nil {
		stdout = io.MultiWriter(config.Stdout, output)
	}
	r := rt.New(stdout)
	return &Runtime{
		config:  config,
		runtime: r,
		output:  output,
		cleanup: lib.LoadAll(r),
	}
}

func (r *Runtime) limits() rt.RuntimeContextDef {
	return rt.RuntimeContextDef{
		HardLimits: rt.RuntimeResources{
			Cpu:    r.config.CPULimit,
			Memory: r.config.MemoryLimit,
		},
	}
}

// ExecuteString compiles and runs a chunk.
func (r *Runtime) ExecuteString(name, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	closure, err := r.runtime.CompileAndLoadLuaChunk(name, []byte(code), rt.TableValue(r.runtime.GlobalEnv()))
	if err != nil {
		return fmt.Errorf("failed to compile %s: %w", name, err)
	}
	r.runtime.PushContext(r.limits())
	defer r.runtime.PopContext()

	if _, err := r.call(rt.FunctionValue(closure)); err != nil {
		return fmt.Errorf("failed to run %s: %w", name, err)
	}
	return nil
}

// ExecuteFile reads and runs a script file.
func (r *Runtime) ExecuteFile(path string) error {
	code, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read script %s: %w", path, err)
	}
	return r.ExecuteString(path, string(code))
}

// HasFunction reports whether a global function is defined.
func (r *Runtime) HasFunction(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.runtime.GlobalEnv().Get(rt.StringValue(name)).Type() == rt.FunctionType
}

// Call calls a global function within the resource limits.
func (r *Runtime) Call(name string, args ...rt.Value) (rt.Value, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fn := r.runtime.GlobalEnv().Get(rt.StringValue(name))
	if fn.Type() != rt.FunctionType {
		return rt.NilValue, fmt.Errorf("%w: %s", ErrNoFunction, name)
	}
	r.runtime.PushContext(r.limits())
	defer r.runtime.PopContext()

	result, err := r.call(fn, args...)
	if err != nil {
		return rt.NilValue, fmt.Errorf("%s() failed: %w", name, err)
	}
	return result, nil
}

// call runs fn on the main thread. golua panics when a hard limit is
// exceeded; that panic is returned as ErrResourceLimit.
func (r *Runtime) call(fn rt.Value, args ...rt.Value) (result rt.Value, err error) {
	defer func() {
		if p := recover(); p != nil {
			result, err = rt.NilValue, fmt.Errorf("%w: %v", ErrResourceLimit, p)
		}
	}()
	return rt.Call1(r.runtime.MainThread(), fn, args...)
}

// SetGlobal sets a global variable.
func (r *Runtime) SetGlobal(name string, value rt.Value) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runtime.GlobalEnv().Set(rt.StringValue(name), value)
}

// GetGlobal returns a global variable.
func (r *Runtime) GetGlobal(name string) rt.Value {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.runtime.GlobalEnv().Get(rt.StringValue(name))
}

// Output returns everything the script has printed.
func (r *Runtime) Output() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.output.String()
}

// Close releases the standard library resources.
func (r *Runtime) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cleanup != nil {
		r.cleanup()
		r.cleanup = nil
	}
	return nil
}

// newGoFunction wraps fn as a limit-compliant Lua function value.
func newGoFunction(name string, fn rt.GoFunctionFunc, nArgs int, hasVarArgs bool) rt.Value {
	f := rt.NewGoFunction(fn, name, nArgs, hasVarArgs)
	rt.SolemnlyDeclareCompliance(rt.ComplyMemSafe|rt.ComplyCpuSafe, f)
	return rt.FunctionValue(f)
}
