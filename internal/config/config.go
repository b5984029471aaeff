package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config корневая структура конфигурации приложения.
type Config struct {
	World        WorldConfig        `yaml:"world"`
	Loader       LoaderConfig       `yaml:"loader"`
	Physics      PhysicsConfig      `yaml:"physics"`
	Presentation PresentationConfig `yaml:"presentation"`
	EventBus     EventBusConfig     `yaml:"eventbus"`
	Server       ServerConfig       `yaml:"server"`
	Logging      LoggingConfig      `yaml:"logging"`
}

type WorldConfig struct {
	Seed          int64      `yaml:"seed"`
	Generator     string     `yaml:"generator"` // perlin | flat
	FlatHeight    int32      `yaml:"flat_height"`
	FlatMaterial  string     `yaml:"flat_material"`
	Spawn         [3]float32 `yaml:"spawn"`
	Fly           bool       `yaml:"fly"`
	CommandBuffer int        `yaml:"command_buffer"`
	RenderBuffer  int        `yaml:"render_buffer"`
}

type LoaderConfig struct {
	PopIn      int32 `yaml:"pop_in"`
	PopOut     int32 `yaml:"pop_out"`
	IntervalMS int   `yaml:"interval_ms"`
}

type PhysicsConfig struct {
	TickMS int     `yaml:"tick_ms"`
	Reach  float32 `yaml:"reach"`
}

type PresentationConfig struct {
	FrameMS      int   `yaml:"frame_ms"`
	RetireRadius int32 `yaml:"retire_radius"`
}

type EventBusConfig struct {
	URL       string `yaml:"url"`
	Stream    string `yaml:"stream"`
	Retention int    `yaml:"retention_hours"`
}

type ServerConfig struct {
	MetricsPort int `yaml:"metrics_port"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	Dir   string `yaml:"dir"`
}

// Default возвращает конфигурацию со значениями по умолчанию
func Default() *Config {
	return &Config{
		World: WorldConfig{
			Seed:          1,
			Generator:     "perlin",
			FlatHeight:    1,
			FlatMaterial:  "stone",
			Spawn:         [3]float32{0, 120, 0},
			Fly:           true,
			CommandBuffer: 40,
			RenderBuffer:  40,
		},
		Loader: LoaderConfig{
			PopIn:      8,
			PopOut:     16,
			IntervalMS: 200,
		},
		Physics: PhysicsConfig{
			TickMS: 16,
			Reach:  10,
		},
		Presentation: PresentationConfig{
			FrameMS:      16,
			RetireRadius: 16,
		},
		EventBus: EventBusConfig{
			Stream:    "VOXEL_EVENTS",
			Retention: 24,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate проверяет согласованность значений
func (c *Config) Validate() error {
	var errs []error
	switch c.World.Generator {
	case "perlin", "flat":
	default:
		errs = append(errs, fmt.Errorf("world.generator: неизвестный генератор %q", c.World.Generator))
	}
	if c.World.Generator == "flat" && (c.World.FlatHeight < 0 || c.World.FlatHeight > 256) {
		errs = append(errs, fmt.Errorf("world.flat_height: %d вне диапазона [0,256]", c.World.FlatHeight))
	}
	if c.World.CommandBuffer <= 0 || c.World.RenderBuffer <= 0 {
		errs = append(errs, errors.New("world: размеры каналов должны быть положительными"))
	}
	if c.Loader.PopIn < 0 {
		errs = append(errs, fmt.Errorf("loader.pop_in: %d < 0", c.Loader.PopIn))
	}
	if c.Loader.PopOut < c.Loader.PopIn {
		errs = append(errs, fmt.Errorf("loader.pop_out (%d) меньше pop_in (%d)", c.Loader.PopOut, c.Loader.PopIn))
	}
	if c.Loader.IntervalMS <= 0 {
		errs = append(errs, errors.New("loader.interval_ms должен быть положительным"))
	}
	if c.Physics.TickMS <= 0 {
		errs = append(errs, errors.New("physics.tick_ms должен быть положительным"))
	}
	if c.Physics.Reach <= 0 {
		errs = append(errs, errors.New("physics.reach должен быть положительным"))
	}
	if c.Presentation.RetireRadius < c.Loader.PopOut {
		// Сетка чанка, видимого загрузчику, не освобождается представлением
		errs = append(errs, fmt.Errorf("presentation.retire_radius (%d) меньше loader.pop_out (%d)", c.Presentation.RetireRadius, c.Loader.PopOut))
	}
	if c.Presentation.FrameMS <= 0 {
		errs = append(errs, errors.New("presentation.frame_ms должен быть положительным"))
	}
	return errors.Join(errs...)
}

// Interval возвращает период синхронизации загрузчика
func (l LoaderConfig) Interval() time.Duration {
	return time.Duration(l.IntervalMS) * time.Millisecond
}

// Tick возвращает период шага физики
func (p PhysicsConfig) Tick() time.Duration {
	return time.Duration(p.TickMS) * time.Millisecond
}

// Frame возвращает период кадра представления
func (p PresentationConfig) Frame() time.Duration {
	return time.Duration(p.FrameMS) * time.Millisecond
}

// GetMetricsPort возвращает Prometheus метрики порт с поддержкой fallback значений
func (s *ServerConfig) GetMetricsPort() int {
	return getPortWithEnvFallback(s.MetricsPort, "VOXEL_METRICS_PORT", 2112)
}

// getPortWithEnvFallback возвращает порт с приоритетом: config -> env -> default
func getPortWithEnvFallback(configPort int, envVar string, defaultPort int) int {
	// Если порт задан в конфиге и больше 0, используем его
	if configPort > 0 {
		return configPort
	}

	// Пробуем прочитать из environment variable
	if envVal := os.Getenv(envVar); envVal != "" {
		if port, err := strconv.Atoi(envVal); err == nil && port > 0 {
			return port
		}
	}

	return defaultPort
}

// Load читает YAML файл конфигурации поверх значений по умолчанию.
// Если path == "", пытается прочитать из ENV VOXEL_CONFIG, иначе возвращает Default().
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = os.Getenv("VOXEL_CONFIG")
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("чтение конфигурации %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("разбор конфигурации %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
