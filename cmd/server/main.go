package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/annel0/voxel-world/internal/config"
	"github.com/annel0/voxel-world/internal/eventbus"
	"github.com/annel0/voxel-world/internal/logging"
	"github.com/annel0/voxel-world/internal/metrics"
	"github.com/annel0/voxel-world/internal/worker"
	"github.com/annel0/voxel-world/internal/world"
	"github.com/annel0/voxel-world/internal/world/block"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	configPath := flag.String("config", "", "Путь к YAML конфигурации (по умолчанию VOXEL_CONFIG)")
	autopilot := flag.Bool("autopilot", false, "Игрок непрерывно движется на восток (проверка загрузчика)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Ошибка загрузки конфигурации: %v", err)
	}

	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	if err := logging.InitDefaultLogger("server", cfg.Logging.Dir, level); err != nil {
		log.Fatalf("❌ Ошибка инициализации логирования: %v", err)
	}
	defer logging.CloseDefaultLogger()
	defer logging.GetLoggerManager().CloseAll()

	logging.Info("🧱 Запуск voxel world: генератор=%s сид=%d", cfg.World.Generator, cfg.World.Seed)

	// === МИР ===
	gen, err := buildGenerator(cfg.World)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	w := world.NewWorld(gen, world.Options{
		CommandBuffer: cfg.World.CommandBuffer,
		RenderBuffer:  cfg.World.RenderBuffer,
		Spawn:         mgl32.Vec3(cfg.World.Spawn),
		Fly:           cfg.World.Fly,
	})

	// === МЕТРИКИ ===
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	worldMetrics := metrics.NewWorldMetrics(reg)
	w.SetMetrics(worldMetrics)

	// === ШИНА СОБЫТИЙ ===
	bus, err := buildEventBus(cfg.EventBus)
	if err != nil {
		log.Fatalf("❌ Ошибка подключения шины событий: %v", err)
	}
	eventbus.Init(bus)
	w.SetEventBus(bus)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if _, err := eventbus.StartLoggingListener(ctx, bus, nil); err != nil {
		logging.Warn("LoggingListener не запущен: %v", err)
	}
	exporter := eventbus.NewMetricsExporter(bus, reg)
	exporter.Start()

	if ev, err := eventbus.NewEnvelope("server", "server.started", map[string]interface{}{
		"seed":      cfg.World.Seed,
		"generator": cfg.World.Generator,
	}); err == nil {
		if err := eventbus.Publish(ctx, ev); err != nil {
			logging.Warn("событие запуска не опубликовано: %v", err)
		}
	}

	metricsAddr := fmt.Sprintf(":%d", cfg.Server.GetMetricsPort())
	metricsServer := metrics.NewServer(metricsAddr, reg)
	metricsServer.Start(func(err error) {
		logging.Error("Ошибка Prometheus HTTP сервера: %v", err)
	})
	logging.Info("📈 Prometheus /metrics доступен по адресу %s", metricsAddr)

	// === ВОРКЕРЫ ===
	var input worker.InputSource = worker.InputFunc(func() worker.InputState { return worker.InputState{} })
	if *autopilot {
		input = worker.InputFunc(func() worker.InputState {
			return worker.InputState{Move: world.MoveIntent{Direction: mgl32.Vec3{1, 0, 0}}}
		})
	}

	physics := worker.NewPhysics(w, input, worker.PhysicsConfig{
		Tick:  cfg.Physics.Tick(),
		Reach: cfg.Physics.Reach,
	})
	loader := worker.NewChunkLoader(w, worker.LoaderConfig{
		PopIn:    cfg.Loader.PopIn,
		PopOut:   cfg.Loader.PopOut,
		Interval: cfg.Loader.Interval(),
	})
	loader.SetMetrics(worldMetrics)
	presentation := worker.NewPresentation(w, worker.PresentationConfig{
		Frame:        cfg.Presentation.Frame(),
		RetireRadius: cfg.Presentation.RetireRadius,
	})

	var wg sync.WaitGroup
	for _, run := range []func(context.Context) error{physics.Run, loader.Run, presentation.Run, statusLoop(w, presentation)} {
		wg.Add(1)
		go func(run func(context.Context) error) {
			defer wg.Done()
			_ = run(ctx)
		}(run)
	}

	logging.Info("✅ Все воркеры запущены")
	<-ctx.Done()
	logging.Info("📡 Получен сигнал завершения, остановка...")

	// === GRACEFUL SHUTDOWN ===
	wg.Wait()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		logging.Error("❌ Ошибка остановки сервера метрик: %v", err)
	}
	exporter.Stop()
	if err := bus.Close(); err != nil {
		logging.Error("❌ Ошибка закрытия шины событий: %v", err)
	}

	logging.Info("👋 Сервер успешно остановлен")
}

func buildGenerator(cfg config.WorldConfig) (world.Generator, error) {
	switch cfg.Generator {
	case "flat":
		material, ok := block.Parse(cfg.FlatMaterial)
		if !ok {
			return nil, fmt.Errorf("неизвестный материал %q", cfg.FlatMaterial)
		}
		return world.FlatGenerator{Height: cfg.FlatHeight, Material: material}, nil
	default:
		return world.NewPerlinGenerator(cfg.Seed), nil
	}
}

func buildEventBus(cfg config.EventBusConfig) (eventbus.EventBus, error) {
	if cfg.URL == "" {
		logging.Info("🚌 Шина событий: in-memory")
		return eventbus.NewMemoryBus(1024), nil
	}
	bus, err := eventbus.NewJetStreamBus(cfg.URL, cfg.Stream, time.Duration(cfg.Retention)*time.Hour)
	if err != nil {
		return nil, err
	}
	logging.Info("🚌 Шина событий: NATS JetStream %s (stream %s)", cfg.URL, cfg.Stream)
	return bus, nil
}

// statusLoop периодически пишет сводку состояния мира
func statusLoop(w *world.World, p *worker.Presentation) func(context.Context) error {
	return func(ctx context.Context) error {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				loaded, meshed := w.ChunkCounts()
				stats := p.Stats()
				pos := w.PullPlayer().Position
				logging.Info("📊 чанков loaded=%d meshed=%d, сеток %d (%d граней), игрок (%.1f, %.1f, %.1f)",
					loaded, meshed, stats.Chunks, stats.Faces, pos.X(), pos.Y(), pos.Z())
			}
		}
	}
}
