package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// WorldMetrics - Prometheus-метрики мира. Нулевой указатель допустим:
// все методы на nil ничего не делают.
type WorldMetrics struct {
	chunksGenerated  prometheus.Counter
	chunksMeshed     prometheus.Counter
	blockEdits       *prometheus.CounterVec
	rejectedEdits    *prometheus.CounterVec
	renderDropped    prometheus.Counter
	commandsApplied  *prometheus.CounterVec
	chunksByStage    *prometheus.GaugeVec
	loaderSyncTiming prometheus.Histogram
}

// NewWorldMetrics создаёт метрики и регистрирует их в reg
func NewWorldMetrics(reg prometheus.Registerer) *WorldMetrics {
	m := &WorldMetrics{
		chunksGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "voxel",
			Subsystem: "world",
			Name:      "chunks_generated_total",
			Help:      "Чанков, сгенерированных генератором.",
		}),
		chunksMeshed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "voxel",
			Subsystem: "world",
			Name:      "chunks_meshed_total",
			Help:      "Чанков, переведённых в стадию meshed.",
		}),
		blockEdits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "voxel",
			Subsystem: "world",
			Name:      "block_edits_total",
			Help:      "Применённые изменения блоков.",
		}, []string{"op"}),
		rejectedEdits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "voxel",
			Subsystem: "world",
			Name:      "block_edits_rejected_total",
			Help:      "Отклонённые изменения блоков.",
		}, []string{"reason"}),
		renderDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "voxel",
			Subsystem: "world",
			Name:      "render_notifications_dropped_total",
			Help:      "Уведомления представления, отброшенные из-за переполненного канала.",
		}),
		commandsApplied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "voxel",
			Subsystem: "world",
			Name:      "commands_applied_total",
			Help:      "Применённые команды по типам.",
		}, []string{"type"}),
		chunksByStage: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "voxel",
			Subsystem: "world",
			Name:      "chunks",
			Help:      "Количество чанков в хранилище по стадиям.",
		}, []string{"stage"}),
		loaderSyncTiming: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "voxel",
			Subsystem: "loader",
			Name:      "sync_duration_seconds",
			Help:      "Длительность одного прохода загрузчика чанков.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		}),
	}

	reg.MustRegister(
		m.chunksGenerated,
		m.chunksMeshed,
		m.blockEdits,
		m.rejectedEdits,
		m.renderDropped,
		m.commandsApplied,
		m.chunksByStage,
		m.loaderSyncTiming,
	)
	return m
}

func (m *WorldMetrics) ChunkGenerated() {
	if m == nil {
		return
	}
	m.chunksGenerated.Inc()
}

func (m *WorldMetrics) ChunkMeshed() {
	if m == nil {
		return
	}
	m.chunksMeshed.Inc()
}

// BlockEdit учитывает изменение блока (op: place, remove)
func (m *WorldMetrics) BlockEdit(op string) {
	if m == nil {
		return
	}
	m.blockEdits.WithLabelValues(op).Inc()
}

// EditRejected учитывает отклонённое изменение (reason: not_loaded, not_meshed, out_of_world)
func (m *WorldMetrics) EditRejected(reason string) {
	if m == nil {
		return
	}
	m.rejectedEdits.WithLabelValues(reason).Inc()
}

func (m *WorldMetrics) RenderDropped() {
	if m == nil {
		return
	}
	m.renderDropped.Inc()
}

func (m *WorldMetrics) CommandApplied(commandType string) {
	if m == nil {
		return
	}
	m.commandsApplied.WithLabelValues(commandType).Inc()
}

// SetChunksByStage обновляет gauge количества чанков стадии
func (m *WorldMetrics) SetChunksByStage(stage string, count int) {
	if m == nil {
		return
	}
	m.chunksByStage.WithLabelValues(stage).Set(float64(count))
}

// ObserveLoaderSync записывает длительность прохода загрузчика
func (m *WorldMetrics) ObserveLoaderSync(d time.Duration) {
	if m == nil {
		return
	}
	m.loaderSyncTiming.Observe(d.Seconds())
}

// Server - HTTP-эндпоинт /metrics
type Server struct {
	srv *http.Server
}

// NewServer создаёт HTTP-сервер метрик для реестра reg
func NewServer(addr string, reg *prometheus.Registry) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Start запускает сервер в отдельной горутине. Ошибки, кроме штатного
// завершения, передаются в onError.
func (s *Server) Start(onError func(error)) {
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) && onError != nil {
			onError(err)
		}
	}()
}

// Shutdown останавливает сервер
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
