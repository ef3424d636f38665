package config

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
)

// Config represents the settings shared by the compute programs.
type Config struct {
	Vulkan     VulkanConfig     `mapstructure:"vulkan"`
	Mandelbrot MandelbrotConfig `mapstructure:"mandelbrot"`
	Matmul     MatmulConfig     `mapstructure:"matmul"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

type VulkanConfig struct {
	ApplicationName string        `mapstructure:"application_name"`
	Validation      bool          `mapstructure:"validation"`
	FenceTimeout    time.Duration `mapstructure:"fence_timeout"`
	StrictSync      bool          `mapstructure:"strict_sync"`
	VideoDriver     string        `mapstructure:"video_driver"`
}

type MandelbrotConfig struct {
	Width     int    `mapstructure:"width"`
	Height    int    `mapstructure:"height"`
	Shader    string `mapstructure:"shader"`
	CPUOutput string `mapstructure:"cpu_output"`
	GPUOutput string `mapstructure:"gpu_output"`
	Workers   int    `mapstructure:"workers"`
	SkipCPU   bool   `mapstructure:"skip_cpu"`
}

type MatmulConfig struct {
	Dim    int    `mapstructure:"dim"`
	Shader string `mapstructure:"shader"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		Vulkan: VulkanConfig{
			ApplicationName: "Computing shader",
			Validation:      false,
			FenceTimeout:    100 * time.Second,
			StrictSync:      true,
		},
		Mandelbrot: MandelbrotConfig{
			Width:     3200,
			Height:    2400,
			Shader:    "shaders/comp.spv",
			CPUOutput: "mandelbrot_cpu.png",
			GPUOutput: "mandelbrot_gpu.png",
		},
		Matmul: MatmulConfig{
			Dim:    1024,
			Shader: "shaders/matmul.spv",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// New returns a viper instance preloaded with the defaults and reading
// VKCOMPUTE_* environment variables.
func New() *viper.Viper {
	v := viper.New()
	d := Default()

	v.SetDefault("vulkan.application_name", d.Vulkan.ApplicationName)
	v.SetDefault("vulkan.validation", d.Vulkan.Validation)
	v.SetDefault("vulkan.fence_timeout", d.Vulkan.FenceTimeout)
	v.SetDefault("vulkan.strict_sync", d.Vulkan.StrictSync)
	v.SetDefault("vulkan.video_driver", d.Vulkan.VideoDriver)

	v.SetDefault("mandelbrot.width", d.Mandelbrot.Width)
	v.SetDefault("mandelbrot.height", d.Mandelbrot.Height)
	v.SetDefault("mandelbrot.shader", d.Mandelbrot.Shader)
	v.SetDefault("mandelbrot.cpu_output", d.Mandelbrot.CPUOutput)
	v.SetDefault("mandelbrot.gpu_output", d.Mandelbrot.GPUOutput)
	v.SetDefault("mandelbrot.workers", d.Mandelbrot.Workers)
	v.SetDefault("mandelbrot.skip_cpu", d.Mandelbrot.SkipCPU)

	v.SetDefault("matmul.dim", d.Matmul.Dim)
	v.SetDefault("matmul.shader", d.Matmul.Shader)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.file", d.Logging.File)

	v.SetEnvPrefix("VKCOMPUTE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads the optional config file into v and decodes the result.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "config: read %s", path)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "config: decode")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the programs cannot run with.
func (c *Config) Validate() error {
	if c.Mandelbrot.Width <= 0 || c.Mandelbrot.Height <= 0 {
		return errors.Newf("config: mandelbrot size must be positive, got %dx%d", c.Mandelbrot.Width, c.Mandelbrot.Height)
	}
	if c.Mandelbrot.Workers < 0 {
		return errors.Newf("config: mandelbrot.workers must not be negative, got %d", c.Mandelbrot.Workers)
	}
	if c.Matmul.Dim <= 0 {
		return errors.Newf("config: matmul.dim must be positive, got %d", c.Matmul.Dim)
	}
	if c.Vulkan.FenceTimeout <= 0 {
		return errors.Newf("config: vulkan.fence_timeout must be positive, got %s", c.Vulkan.FenceTimeout)
	}
	return nil
}
