package collection

import (
	"math"
	"testing"

	"github.com/matzehuels/objectgrid/pkg/errors"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   errors.Code
	}{
		{"default", func(*Config) {}, ""},
		{"plane ignores radius", func(c *Config) { c.Radius = 0 }, ""},
		{"unknown orient is left to projection", func(c *Config) { c.Orient = OrientType(12) }, ""},
		{"zero rows", func(c *Config) { c.Rows = 0 }, errors.ErrCodeInvalidConfig},
		{"too many rows", func(c *Config) { c.Rows = errors.MaxRows + 1 }, errors.ErrCodeInvalidConfig},
		{"zero cell width", func(c *Config) { c.CellWidth = 0 }, errors.ErrCodeInvalidConfig},
		{"NaN cell height", func(c *Config) { c.CellHeight = math.NaN() }, errors.ErrCodeInvalidConfig},
		{"cylinder zero radius", func(c *Config) { c.Surface = SurfaceCylinder; c.Radius = 0 }, errors.ErrCodeInvalidConfig},
		{"sphere negative radius", func(c *Config) { c.Surface = SurfaceSphere; c.Radius = -2 }, errors.ErrCodeInvalidConfig},
		{"scatter zero radius", func(c *Config) { c.Surface = SurfaceScatter; c.Radius = 0 }, errors.ErrCodeInvalidConfig},
		{"unknown surface", func(c *Config) { c.Surface = SurfaceType(7) }, errors.ErrCodeInvalidSurface},
		{"unknown sort", func(c *Config) { c.Sort = SortType(-3) }, errors.ErrCodeInvalidSort},
		{"unknown layout", func(c *Config) { c.Layout = LayoutType(2) }, errors.ErrCodeInvalidLayout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			if tt.want == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate() error = %v, want code %s", err, tt.want)
			}
		})
	}
}

func TestConfigDerived(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Radius = 0.5
	if got := cfg.Circumference(); math.Abs(got-math.Pi) > tol {
		t.Errorf("Circumference() = %v, want π", got)
	}
	cfg.CellWidth, cfg.CellHeight = 2, 0.5
	if got := cfg.HalfCell(); got.X() != 1 || got.Y() != 0.25 {
		t.Errorf("HalfCell() = %v, want {1 0.25}", got)
	}
}
