package field

import (
	"errors"
	"fmt"
)

// ErrInvalidParams is returned when field parameters cannot describe a field.
var ErrInvalidParams = errors.New("invalid field params")

// Params holds every tunable constant of the field.
type Params struct {
	Population  int     `toml:"population"`   // Number of bodies in the pool
	BaseRate    float64 `toml:"base_rate"`    // Depth units per frame before speed factors
	MaxDepth    float64 `toml:"max_depth"`    // Far plane; respawned bodies start here
	NearPlane   float64 `toml:"near_plane"`   // Bodies closer than this respawn
	TrailLength int     `toml:"trail_length"` // Samples kept per body trail
	VertexCount int     `toml:"vertex_count"` // Polygon vertices per body

	Spread          float64 `toml:"spread"`            // x, y drawn from [-Spread, Spread]
	MinDepth        float64 `toml:"min_depth"`         // Lower bound of the initial depth draw
	MinSize         float64 `toml:"min_size"`          // Base radius range
	MaxSize         float64 `toml:"max_size"`          //
	MinSpeed        float64 `toml:"min_speed"`         // Per-body speed range
	MaxSpeed        float64 `toml:"max_speed"`         //
	MaxRotationRate float64 `toml:"max_rotation_rate"` // Rotation rate drawn from [-max, max] rad/frame

	ScrollSpeedMax  float64 `toml:"scroll_speed_max"`  // Speed multiplier at the top of the page
	ScrollSpeedDrop float64 `toml:"scroll_speed_drop"` // Multiplier lost over the full scroll range

	ParallaxFactor  float64 `toml:"parallax_factor"`   // Pointer displacement to screen offset per unit scale
	CullMargin      float64 `toml:"cull_margin"`       // Off-screen tolerance before a body is skipped
	FadeAlpha       float64 `toml:"fade_alpha"`        // Opacity of the per-frame dark overlay
	MinJitter       float64 `toml:"min_jitter"`        // Per-frame vertex radius jitter range
	MaxJitter       float64 `toml:"max_jitter"`        //
	TrailOpacity    float64 `toml:"trail_opacity"`     // Opacity of the newest trail sample
	GlowRadius      float64 `toml:"glow_radius"`       // Halo spread at full speed, in pixels
	OpacityPerScale float64 `toml:"opacity_per_scale"` // Body opacity = min(1, scale * this)
}

// DefaultParams returns the stock field parameters.
func DefaultParams() Params {
	return Params{
		Population:  80,
		BaseRate:    8,
		MaxDepth:    2000,
		NearPlane:   1,
		TrailLength: 5,
		VertexCount: 8,

		Spread:          1000,
		MinDepth:        100,
		MinSize:         2,
		MaxSize:         6,
		MinSpeed:        2,
		MaxSpeed:        5,
		MaxRotationRate: 0.025,

		ScrollSpeedMax:  8,
		ScrollSpeedDrop: 7.7,

		ParallaxFactor:  0.02,
		CullMargin:      100,
		FadeAlpha:       0.15,
		MinJitter:       0.7,
		MaxJitter:       1.3,
		TrailOpacity:    0.3,
		GlowRadius:      20,
		OpacityPerScale: 0.6,
	}
}

// Validate reports the first parameter that cannot describe a field.
func (p Params) Validate() error {
	switch {
	case p.Population <= 0:
		return fmt.Errorf("%w: population %d must be positive", ErrInvalidParams, p.Population)
	case p.MaxDepth <= 0:
		return fmt.Errorf("%w: max depth %g must be positive", ErrInvalidParams, p.MaxDepth)
	case p.NearPlane <= 0 || p.NearPlane >= p.MaxDepth:
		return fmt.Errorf("%w: near plane %g must be in (0, %g)", ErrInvalidParams, p.NearPlane, p.MaxDepth)
	case p.MinDepth < p.NearPlane || p.MinDepth > p.MaxDepth:
		return fmt.Errorf("%w: min depth %g must be in [%g, %g]", ErrInvalidParams, p.MinDepth, p.NearPlane, p.MaxDepth)
	case p.TrailLength < 0:
		return fmt.Errorf("%w: trail length %d is negative", ErrInvalidParams, p.TrailLength)
	case p.VertexCount < 3:
		return fmt.Errorf("%w: vertex count %d must be at least 3", ErrInvalidParams, p.VertexCount)
	case p.BaseRate < 0:
		return fmt.Errorf("%w: base rate %g is negative", ErrInvalidParams, p.BaseRate)
	case p.Spread < 0:
		return fmt.Errorf("%w: spread %g is negative", ErrInvalidParams, p.Spread)
	case p.MinSize <= 0 || p.MaxSize < p.MinSize:
		return fmt.Errorf("%w: size range [%g, %g]", ErrInvalidParams, p.MinSize, p.MaxSize)
	case p.MinSpeed < 0 || p.MaxSpeed < p.MinSpeed:
		return fmt.Errorf("%w: speed range [%g, %g]", ErrInvalidParams, p.MinSpeed, p.MaxSpeed)
	case p.MaxRotationRate < 0:
		return fmt.Errorf("%w: rotation rate %g is negative", ErrInvalidParams, p.MaxRotationRate)
	case p.MinJitter <= 0 || p.MaxJitter < p.MinJitter:
		return fmt.Errorf("%w: jitter range [%g, %g]", ErrInvalidParams, p.MinJitter, p.MaxJitter)
	case p.ScrollSpeedMax <= 0:
		return fmt.Errorf("%w: scroll speed max %g must be positive", ErrInvalidParams, p.ScrollSpeedMax)
	case p.ScrollSpeedDrop < 0 || p.ScrollSpeedDrop > p.ScrollSpeedMax:
		return fmt.Errorf("%w: scroll speed drop %g must be in [0, %g]", ErrInvalidParams, p.ScrollSpeedDrop, p.ScrollSpeedMax)
	case p.GlowRadius < 0:
		return fmt.Errorf("%w: glow radius %g is negative", ErrInvalidParams, p.GlowRadius)
	case p.FadeAlpha < 0 || p.FadeAlpha > 1:
		return fmt.Errorf("%w: fade alpha %g outside [0, 1]", ErrInvalidParams, p.FadeAlpha)
	}
	return nil
}
