package worker

import (
	"context"
	"sort"
	"time"

	"github.com/annel0/voxel-world/internal/logging"
	"github.com/annel0/voxel-world/internal/metrics"
	"github.com/annel0/voxel-world/internal/vec"
	"github.com/annel0/voxel-world/internal/world"
)

// LoaderConfig - параметры загрузчика чанков
type LoaderConfig struct {
	PopIn    int32 // Радиус загрузки (в чанках)
	PopOut   int32 // Радиус выгрузки (в чанках)
	Interval time.Duration
}

// ChunkLoader поддерживает построенными чанки вокруг игрока и сообщает
// представлению, какие чанки показать или убрать
type ChunkLoader struct {
	world   *world.World
	cfg     LoaderConfig
	visible map[vec.ChunkCoords]struct{}
	logger  *logging.Logger
	metrics *metrics.WorldMetrics
}

// NewChunkLoader создаёт загрузчик
func NewChunkLoader(w *world.World, cfg LoaderConfig) *ChunkLoader {
	if cfg.Interval <= 0 {
		cfg.Interval = 200 * time.Millisecond
	}
	if cfg.PopOut < cfg.PopIn {
		cfg.PopOut = cfg.PopIn
	}
	return &ChunkLoader{
		world:   w,
		cfg:     cfg,
		visible: make(map[vec.ChunkCoords]struct{}),
		logger:  logging.GetLoaderLogger(),
	}
}

// SetMetrics подключает метрики длительности прохода
func (l *ChunkLoader) SetMetrics(m *metrics.WorldMetrics) { l.metrics = m }

// SetLogger заменяет логгер воркера
func (l *ChunkLoader) SetLogger(logger *logging.Logger) { l.logger = logger }

// Visible возвращает количество чанков, о показе которых сообщено
func (l *ChunkLoader) Visible() int { return len(l.visible) }

// Run выполняет проходы синхронизации до отмены ctx
func (l *ChunkLoader) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.cfg.Interval)
	defer ticker.Stop()

	l.logger.Info("загрузчик чанков запущен: pop_in=%d pop_out=%d", l.cfg.PopIn, l.cfg.PopOut)
	for {
		if err := l.Sync(ctx); err != nil {
			l.logger.Info("загрузчик чанков остановлен")
			return err
		}
		select {
		case <-ctx.Done():
			l.logger.Info("загрузчик чанков остановлен")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Sync выполняет один проход: выгружает дальние чанки и строит ближние,
// начиная с ближайших к игроку. Уведомления отправляются с ожиданием.
func (l *ChunkLoader) Sync(ctx context.Context) error {
	start := time.Now()
	defer func() { l.metrics.ObserveLoaderSync(time.Since(start)) }()

	center := vec.ChunkCoordsFromPosition(l.world.PullPlayer().Position)

	for cc := range l.visible {
		if cc.InRange(center, l.cfg.PopOut) {
			continue
		}
		if err := l.world.NotifyRenderWait(ctx, world.ChunkEvent{Chunk: cc, Visible: false}); err != nil {
			return err
		}
		delete(l.visible, cc)
	}

	var pending []vec.ChunkCoords
	for _, cc := range center.Range(l.cfg.PopIn) {
		if !cc.InRange(center, l.cfg.PopIn) {
			continue
		}
		if _, ok := l.visible[cc]; !ok {
			pending = append(pending, cc)
		}
	}
	sort.SliceStable(pending, func(i, j int) bool {
		return center.DistanceSq(pending[i]) < center.DistanceSq(pending[j])
	})

	for _, cc := range pending {
		if err := ctx.Err(); err != nil {
			return err
		}
		l.world.RequestChunkStage(cc, world.StageMeshed)
		if err := l.world.NotifyRenderWait(ctx, world.ChunkEvent{Chunk: cc, Visible: true}); err != nil {
			return err
		}
		l.visible[cc] = struct{}{}
	}

	if len(pending) > 0 {
		l.logger.Debug("центр %s: построено %d чанков, видимых %d", center, len(pending), len(l.visible))
	}
	return nil
}
