package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"moodpoet/internal/domain"
)

var structValidator = validator.New()

// ValidationError accumulates config validation errors.
type ValidationError struct {
	Errors []string
}

func (v *ValidationError) Error() string {
	return "config validation failed:\n  - " + strings.Join(v.Errors, "\n  - ")
}

// Unwrap lets errors.Is match domain.ErrConfigLoad.
func (v *ValidationError) Unwrap() error { return domain.ErrConfigLoad }

// HasErrors reports whether any validation errors have been recorded.
func (v *ValidationError) HasErrors() bool {
	return len(v.Errors) > 0
}

// Add records a formatted validation error.
func (v *ValidationError) Add(format string, args ...interface{}) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}

// Validate checks cfg for structural correctness. It returns a *ValidationError
// when one or more problems are found, allowing callers to inspect all issues.
func Validate(cfg *Config) error {
	ve := &ValidationError{}
	validateTags(cfg, ve)
	validateProviders(cfg, ve)
	validateLogger(cfg, ve)
	validateTracer(cfg, ve)
	if ve.HasErrors() {
		return ve
	}
	return nil
}

// validateTags runs the struct tag rules and records one line per field.
func validateTags(cfg *Config, ve *ValidationError) {
	err := structValidator.Struct(cfg)
	if err == nil {
		return
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		ve.Add("%v", err)
		return
	}
	for _, fe := range fieldErrs {
		ve.Add("%s fails %q (got %v)", fieldPath(fe.Namespace()), tagRule(fe), fe.Value())
	}
}

func tagRule(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}
	return fe.Tag() + "=" + fe.Param()
}

// fieldPath turns "Config.Providers.Azure.Timeout" into "providers.azure.timeout".
func fieldPath(ns string) string {
	ns = strings.TrimPrefix(ns, "Config.")
	return strings.ToLower(ns)
}

func validateProviders(cfg *Config, ve *ValidationError) {
	if _, err := domain.ParseProvider(cfg.Providers.Preferred); err != nil {
		ve.Add("providers.preferred %q must be one of azure_openai, openai, huggingface or empty", cfg.Providers.Preferred)
	}
}

// Incomplete lists providers that have a credential but lack another
// required setting. Such providers stay unconfigured; callers log the
// problems rather than refusing to start.
func (p ProvidersConfig) Incomplete() []string {
	var problems []string
	if p.Azure.APIKey != "" && !p.Azure.Configured() {
		problems = append(problems, "providers.azure_openai: api_key is set but endpoint or deployment_name is missing")
	}
	if p.OpenAI.APIKey != "" && !p.OpenAI.Configured() {
		problems = append(problems, "providers.openai: api_key is set but model is missing")
	}
	if p.HuggingFace.APIKey != "" && !p.HuggingFace.Configured() {
		problems = append(problems, "providers.huggingface: api_key is set but model is missing")
	}
	return problems
}

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "warning": true, "error": true,
}

func validateLogger(cfg *Config, ve *ValidationError) {
	if !validLogLevels[strings.ToLower(cfg.Logger.Level)] {
		ve.Add("logger.level %q must be debug, info, warn or error", cfg.Logger.Level)
	}
	switch strings.ToLower(cfg.Logger.Format) {
	case "text", "json", "":
	default:
		ve.Add("logger.format %q must be text or json", cfg.Logger.Format)
	}
}

func validateTracer(cfg *Config, ve *ValidationError) {
	switch cfg.Tracer.Exporter {
	case "noop", "stdout", "":
	default:
		ve.Add("tracer.exporter %q must be noop or stdout", cfg.Tracer.Exporter)
	}
}
