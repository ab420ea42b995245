package planner

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"prm-planner/pkg/geometry"
	"prm-planner/pkg/spatial"
)

// ErrInvalidConfig is matched by every configuration error.
var ErrInvalidConfig = errors.New("invalid configuration")

// ConfigError names the configuration field that failed validation.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrInvalidConfig, e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

// Config is everything one planning run needs. Field names in errors use
// the json names, which match the parameter file keys.
type Config struct {
	Samples int             `json:"num_nodes" validate:"gte=0"`
	Bounds  geometry.Bounds `json:"map_limits"`
	Radius  float64         `json:"connection_radius" validate:"finite,gte=0"`
	Start   geometry.Point  `json:"start"`
	Goal    geometry.Point  `json:"goal"`

	// Seed fixes the random source. Nil draws a fresh seed per run.
	Seed *int64 `json:"seed,omitempty"`

	Index   spatial.Kind `json:"index" validate:"indexkind"`
	Workers int          `json:"workers" validate:"gte=0"`

	// SearchTimeout bounds the A* stage only. Zero means no limit.
	SearchTimeout time.Duration `json:"search_timeout" validate:"gte=0"`
}

var configValidate *validator.Validate

func init() {
	configValidate = validator.New()

	configValidate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	_ = configValidate.RegisterValidation("finite", validateFinite)
	_ = configValidate.RegisterValidation("indexkind", validateIndexKind)
	configValidate.RegisterStructValidation(validatePoint, geometry.Point{})
	configValidate.RegisterStructValidation(validateBounds, geometry.Bounds{})
}

func validateFinite(fl validator.FieldLevel) bool {
	v := fl.Field().Float()
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func validateIndexKind(fl validator.FieldLevel) bool {
	_, err := spatial.Kind(fl.Field().Int()).MarshalText()
	return err == nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func validatePoint(sl validator.StructLevel) {
	p := sl.Current().Interface().(geometry.Point)
	if !isFinite(p.X) {
		sl.ReportError(p.X, "x", "X", "finite", "")
	}
	if !isFinite(p.Y) {
		sl.ReportError(p.Y, "y", "Y", "finite", "")
	}
}

func validateBounds(sl validator.StructLevel) {
	b := sl.Current().Interface().(geometry.Bounds)
	switch {
	case !isFinite(b.Min):
		sl.ReportError(b.Min, "min", "Min", "finite", "")
	case !isFinite(b.Max):
		sl.ReportError(b.Max, "max", "Max", "finite", "")
	case b.Min > b.Max:
		sl.ReportError(b.Max, "max", "Max", "gtefield", "min")
	}
}

// Validate checks cfg and returns a *ConfigError for the first problem found.
func (cfg Config) Validate() error {
	if err := configValidate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return toConfigError(verrs[0])
		}
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	endpoints := []struct {
		field string
		p     geometry.Point
	}{{"start", cfg.Start}, {"goal", cfg.Goal}}

	for _, ep := range endpoints {
		if p := ep.p; !cfg.Bounds.Contains(p) {
			return &ConfigError{
				Field:  ep.field,
				Reason: fmt.Sprintf("(%g, %g) is outside map_limits [%g, %g]", p.X, p.Y, cfg.Bounds.Min, cfg.Bounds.Max),
			}
		}
	}
	return nil
}

func toConfigError(fe validator.FieldError) *ConfigError {
	field := fe.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}

	var reason string
	switch fe.Tag() {
	case "gte":
		reason = "must be >= " + fe.Param()
	case "finite":
		reason = "must be a finite number"
	case "gtefield":
		reason = "must be >= " + fe.Param()
	case "indexkind":
		reason = fmt.Sprintf("unknown index kind %v", fe.Value())
	default:
		reason = "failed " + fe.Tag()
	}
	return &ConfigError{Field: field, Reason: reason}
}
