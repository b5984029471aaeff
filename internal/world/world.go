package world

import (
	"errors"
	"sync"

	"github.com/annel0/voxel-world/internal/eventbus"
	"github.com/annel0/voxel-world/internal/logging"
	"github.com/annel0/voxel-world/internal/metrics"
	"github.com/annel0/voxel-world/internal/vec"
	"github.com/annel0/voxel-world/internal/world/block"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/atomic"
	"golang.org/x/sync/singleflight"
)

var (
	// ErrChunkNotLoaded - чанк ещё не создан конвейером
	ErrChunkNotLoaded = errors.New("chunk not loaded")
	// ErrChunkNotMeshed - чанк загружен, но его грани ещё не вычислены
	ErrChunkNotMeshed = errors.New("chunk not meshed")
	// ErrInvalidBlock - нулевое значение не является материалом
	ErrInvalidBlock = errors.New("invalid block material")
)

// Options - параметры создания мира
type Options struct {
	CommandBuffer int        // Ёмкость канала команд
	RenderBuffer  int        // Ёмкость канала уведомлений представления
	Spawn         mgl32.Vec3 // Начальная позиция игрока (глаза)
	Fly           bool       // Начальный режим полёта
	Logger        *logging.Logger
}

// DefaultOptions возвращает параметры по умолчанию
func DefaultOptions() Options {
	return Options{
		CommandBuffer: 40,
		RenderBuffer:  40,
		Spawn:         mgl32.Vec3{0, 120, 0},
		Fly:           true,
	}
}

// World владеет хранилищем чанков, игроком и каналами связи между воркерами.
// Все методы безопасны для вызова из нескольких горутин.
type World struct {
	store     *ChunkStore
	generator Generator
	flights   singleflight.Group

	playerMu sync.RWMutex
	player   Player

	commands chan Command
	render   chan ChunkEvent

	loaded atomic.Int64 // чанков в стадии loaded
	meshed atomic.Int64 // чанков в стадии meshed

	logger  *logging.Logger
	metrics *metrics.WorldMetrics
	bus     eventbus.EventBus
}

// NewWorld создаёт пустой мир с указанным генератором
func NewWorld(gen Generator, opts Options) *World {
	if opts.CommandBuffer <= 0 {
		opts.CommandBuffer = 40
	}
	if opts.RenderBuffer <= 0 {
		opts.RenderBuffer = 40
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.GetWorldLogger()
	}

	return &World{
		store:     NewChunkStore(),
		generator: gen,
		player: Player{
			Position:       opts.Spawn,
			Fly:            opts.Fly,
			ActiveMaterial: block.Brick,
		},
		commands: make(chan Command, opts.CommandBuffer),
		render:   make(chan ChunkEvent, opts.RenderBuffer),
		logger:   logger,
	}
}

// SetMetrics подключает Prometheus-метрики. Вызывать до запуска воркеров.
func (w *World) SetMetrics(m *metrics.WorldMetrics) {
	w.metrics = m
}

// SetEventBus подключает шину доменных событий. Вызывать до запуска воркеров.
func (w *World) SetEventBus(bus eventbus.EventBus) {
	w.bus = bus
}

// Store возвращает хранилище чанков
func (w *World) Store() *ChunkStore {
	return w.store
}

// GetChunkStage возвращает текущую стадию чанка
func (w *World) GetChunkStage(cc vec.ChunkCoords) ChunkStage {
	return w.store.Stage(cc)
}

// GetBlock возвращает блок по координатам.
// loaded=false - чанк ещё не создан; ok=false при loaded=true - воздух.
func (w *World) GetBlock(bc vec.BlockCoords) (b block.Block, ok bool, loaded bool) {
	loaded = w.store.View(bc.Chunk, func(st ChunkState) {
		b, ok = st.BlockMap()[bc.Index]
	})
	return b, ok, loaded
}

// IsSolidAt сообщает, занята ли глобальная позиция.
// Позиции вне мира и в незагруженных чанках пусты.
func (w *World) IsSolidAt(p vec.Vec3) bool {
	bc, err := vec.TryGlobalToBlockCoords(p)
	if err != nil {
		return false
	}
	_, ok, _ := w.GetBlock(bc)
	return ok
}

// ChunkFaces возвращает копию видимых граней чанка. false, если чанк не в стадии meshed.
func (w *World) ChunkFaces(cc vec.ChunkCoords) (FaceMap, bool) {
	var faces FaceMap
	w.store.View(cc, func(st ChunkState) {
		if m, ok := st.(*MeshedChunk); ok {
			faces = m.Faces.Clone()
		}
	})
	return faces, faces != nil
}

// ChunkBlockCount возвращает количество занятых позиций чанка
func (w *World) ChunkBlockCount(cc vec.ChunkCoords) (int, bool) {
	n := 0
	ok := w.store.View(cc, func(st ChunkState) {
		n = len(st.BlockMap())
	})
	return n, ok
}

// ChunkCounts возвращает количество чанков в стадиях loaded и meshed
func (w *World) ChunkCounts() (loaded, meshed int) {
	return int(w.loaded.Load()), int(w.meshed.Load())
}

func (w *World) reportStages() {
	w.metrics.SetChunksByStage(StageLoaded.String(), int(w.loaded.Load()))
	w.metrics.SetChunksByStage(StageMeshed.String(), int(w.meshed.Load()))
}
