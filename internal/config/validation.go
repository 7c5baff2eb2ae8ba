package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrInvalidConfig is wrapped by Config.Validate when validation fails.
var ErrInvalidConfig = errors.New("invalid configuration")

// maxDimension bounds canvas sizes before a warning is raised.
const maxDimension = 16384

// ValidationError represents a configuration validation error.
// It contains the field name and a description of the issue.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (ve ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ve.Field, ve.Message)
}

// ValidationResult holds the results of a configuration validation.
type ValidationResult struct {
	// Errors contains all validation errors found.
	Errors []ValidationError
	// Warnings contains non-fatal issues.
	Warnings []ValidationError
}

// IsValid returns true if there are no validation errors.
func (vr *ValidationResult) IsValid() bool {
	return len(vr.Errors) == 0
}

// Error returns a combined error wrapping ErrInvalidConfig, or nil.
func (vr *ValidationResult) Error() error {
	if len(vr.Errors) == 0 {
		return nil
	}
	messages := make([]string, 0, len(vr.Errors))
	for _, e := range vr.Errors {
		messages = append(messages, e.Error())
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(messages, "; "))
}

// AddError adds a validation error.
func (vr *ValidationResult) AddError(field, message string) {
	vr.Errors = append(vr.Errors, ValidationError{Field: field, Message: message})
}

// AddWarning adds a validation warning.
func (vr *ValidationResult) AddWarning(field, message string) {
	vr.Warnings = append(vr.Warnings, ValidationError{Field: field, Message: message})
}

// Check validates cfg and reports every problem found.
func Check(cfg *Config) *ValidationResult {
	result := &ValidationResult{}
	validateCanvas(&cfg.Canvas, result)
	validateOutput(&cfg.Output, result)
	validateFonts(&cfg.Fonts, result)
	validateScript(&cfg.Script, result)
	if cfg.Watch.Debounce < 0 {
		result.AddError("watch.debounce", fmt.Sprintf("must be non-negative, got %v", cfg.Watch.Debounce))
	}
	return result
}

// Validate returns nil when cfg can be rendered.
func (c *Config) Validate() error {
	return Check(c).Error()
}

func validateCanvas(cc *CanvasConfig, result *ValidationResult) {
	if cc.Width <= 0 {
		result.AddError("canvas.width", fmt.Sprintf("must be positive, got %d", cc.Width))
	}
	if cc.Height <= 0 {
		result.AddError("canvas.height", fmt.Sprintf("must be positive, got %d", cc.Height))
	}
	if cc.Width > maxDimension {
		result.AddWarning("canvas.width", fmt.Sprintf("unusually large value %d", cc.Width))
	}
	if cc.Height > maxDimension {
		result.AddWarning("canvas.height", fmt.Sprintf("unusually large value %d", cc.Height))
	}
	if !(cc.Scale > 0) {
		result.AddError("canvas.scale", fmt.Sprintf("must be positive, got %v", cc.Scale))
	}
	if cc.Background.A == 0 {
		result.AddWarning("canvas.background", "fully transparent")
	}
}

func validateOutput(oc *OutputConfig, result *ValidationResult) {
	if _, ok := backendNames[oc.Backend]; !ok {
		result.AddError("output.backend", fmt.Sprintf("unknown backend %d", int(oc.Backend)))
		return
	}
	switch oc.Backend {
	case BackendRaster, BackendPDF:
		if oc.Path == "" || oc.Path == "-" {
			result.AddError("output.path", fmt.Sprintf("required for the %s backend", oc.Backend))
		}
	}
}

func validateFonts(fc *FontConfig, result *ValidationResult) {
	if fc.Glyph != "" {
		if _, err := os.Stat(fc.Glyph); err != nil {
			result.AddError("fonts.glyph", fmt.Sprintf("cannot read %s", fc.Glyph))
		}
	}
	for i, dir := range fc.Dirs {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			result.AddWarning(fmt.Sprintf("fonts.dirs[%d]", i), fmt.Sprintf("not a directory: %s", dir))
		}
	}
}

func validateScript(sc *ScriptConfig, result *ValidationResult) {
	if sc.Path == "" {
		result.AddError("script.path", "no layout script given")
	} else if _, err := os.Stat(sc.Path); err != nil {
		result.AddError("script.path", fmt.Sprintf("cannot read %s", sc.Path))
	}
	if sc.CPULimit == 0 {
		result.AddWarning("script.cpu_limit", "unlimited")
	}
}
