package config

import (
	"strings"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port           int    `envconfig:"PORT" default:"8080"`
	AssetDir       string `envconfig:"ASSET_DIR" default:"./data/backgrounds"`
	AllowedOrigins string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`

	ViewportWidth        float64 `envconfig:"VIEWPORT_WIDTH" default:"1280"`
	ViewportHeight       float64 `envconfig:"VIEWPORT_HEIGHT" default:"800"`
	MaxImperviousPercent float64 `envconfig:"MAX_IMPERVIOUS_PERCENT" default:"40"`
	PickRadius           float64 `envconfig:"PICK_RADIUS" default:"10"`

	FirmName       string `envconfig:"FIRM_NAME" default:"MDI & Associates"`
	ExportFilename string `envconfig:"EXPORT_FILENAME" default:"mdi-site-plan.png"`
	LengthUnit     string `envconfig:"LENGTH_UNIT" default:"ft"`
	AreaUnit       string `envconfig:"AREA_UNIT" default:"SF"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Origins splits AllowedOrigins into its entries.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
