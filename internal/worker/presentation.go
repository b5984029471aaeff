package worker

import (
	"context"
	"sync"
	"time"

	"github.com/annel0/voxel-world/internal/logging"
	"github.com/annel0/voxel-world/internal/vec"
	"github.com/annel0/voxel-world/internal/world"
	"github.com/annel0/voxel-world/internal/world/block"
	"github.com/go-gl/mathgl/mgl32"
)

// Текстурные координаты углов грани и порядок двух треугольников
var (
	faceTexture = [4][2]float32{{0, 0}, {0, 1}, {1, 1}, {1, 0}}
	faceIndices = [6]uint32{0, 1, 2, 0, 2, 3}
)

// Vertex - вершина сетки чанка
type Vertex struct {
	Position mgl32.Vec3 // Относительно начала чанка
	TexCoord mgl32.Vec3 // u, v, номер спрайта
	Light    float32
}

// Mesh - CPU-сетка одного чанка
type Mesh struct {
	Chunk    vec.ChunkCoords
	Origin   mgl32.Vec3 // Смещение чанка в мире
	Vertices []Vertex
	Indices  []uint32
}

// Faces возвращает количество граней в сетке
func (m *Mesh) Faces() int { return len(m.Indices) / len(faceIndices) }

// MeshBuilder переиспользует буферы между построениями
type MeshBuilder struct {
	vertices []Vertex
	indices  []uint32
}

// NewMeshBuilder создаёт построитель с начальными буферами
func NewMeshBuilder() *MeshBuilder {
	return &MeshBuilder{
		vertices: make([]Vertex, 0, 1024),
		indices:  make([]uint32, 0, 1024),
	}
}

// Build строит сетку по множеству видимых граней
func (b *MeshBuilder) Build(cc vec.ChunkCoords, faces world.FaceMap) *Mesh {
	for key, material := range faces {
		local := key.Index.Local()
		sprite := float32(0)
		if info, ok := block.Get(material); ok {
			sprite = float32(info.SpriteFor(key.Dir))
		}

		base := uint32(len(b.vertices))
		for i, corner := range key.Dir.FaceVertices() {
			b.vertices = append(b.vertices, Vertex{
				Position: local.Add(corner).Float(),
				TexCoord: mgl32.Vec3{faceTexture[i][0], faceTexture[i][1], sprite},
				Light:    key.Dir.Light(),
			})
		}
		for _, idx := range faceIndices {
			b.indices = append(b.indices, base+idx)
		}
	}

	mesh := &Mesh{
		Chunk:    cc,
		Origin:   cc.Origin().Float(),
		Vertices: append([]Vertex(nil), b.vertices...),
		Indices:  append([]uint32(nil), b.indices...),
	}
	// Буферы очищаются для следующего чанка
	b.vertices = b.vertices[:0]
	b.indices = b.indices[:0]
	return mesh
}

// PresentationConfig - параметры воркера представления
type PresentationConfig struct {
	Frame        time.Duration
	RetireRadius int32 // Сетки дальше этого радиуса (в чанках) освобождаются; не меньше PopOut загрузчика
}

// PresentationStats - сводка по сеткам
type PresentationStats struct {
	Chunks   int
	Faces    int
	Vertices int
}

// Presentation - безголовый потребитель уведомлений: держит CPU-сетки видимых чанков
type Presentation struct {
	world   *world.World
	cfg     PresentationConfig
	builder *MeshBuilder
	logger  *logging.Logger

	mu     sync.RWMutex
	meshes map[vec.ChunkCoords]*Mesh
}

// NewPresentation создаёт воркер представления
func NewPresentation(w *world.World, cfg PresentationConfig) *Presentation {
	if cfg.Frame <= 0 {
		cfg.Frame = 16 * time.Millisecond
	}
	if cfg.RetireRadius <= 0 {
		cfg.RetireRadius = 16
	}
	return &Presentation{
		world:   w,
		cfg:     cfg,
		builder: NewMeshBuilder(),
		logger:  logging.GetPresentationLogger(),
		meshes:  make(map[vec.ChunkCoords]*Mesh),
	}
}

// SetLogger заменяет логгер воркера
func (p *Presentation) SetLogger(l *logging.Logger) { p.logger = l }

// Run обрабатывает кадры до отмены ctx
func (p *Presentation) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.cfg.Frame)
	defer ticker.Stop()

	p.logger.Info("воркер представления запущен, кадр %v", p.cfg.Frame)
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("воркер представления остановлен")
			return ctx.Err()
		case <-ticker.C:
			p.Frame()
		}
	}
}

// Frame выполняет один кадр: освобождает дальние сетки и обрабатывает
// все накопившиеся уведомления без ожидания новых
func (p *Presentation) Frame() {
	center := vec.ChunkCoordsFromPosition(p.world.PullPlayer().Position)

	p.mu.Lock()
	for cc := range p.meshes {
		if !cc.InRange(center, p.cfg.RetireRadius) {
			delete(p.meshes, cc)
		}
	}
	p.mu.Unlock()

	for {
		select {
		case ev := <-p.world.RenderEvents():
			p.handle(ev)
		default:
			return
		}
	}
}

func (p *Presentation) handle(ev world.ChunkEvent) {
	if !ev.Visible {
		p.mu.Lock()
		delete(p.meshes, ev.Chunk)
		p.mu.Unlock()
		return
	}

	faces, ok := p.world.ChunkFaces(ev.Chunk)
	if !ok {
		p.logger.Warn("чанк %s не построен, уведомление пропущено", ev.Chunk)
		return
	}
	mesh := p.builder.Build(ev.Chunk, faces)

	p.mu.Lock()
	p.meshes[ev.Chunk] = mesh
	p.mu.Unlock()
	p.logger.Trace("сетка чанка %s: %d граней", ev.Chunk, mesh.Faces())
}

// Mesh возвращает текущую сетку чанка
func (p *Presentation) Mesh(cc vec.ChunkCoords) (*Mesh, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	m, ok := p.meshes[cc]
	return m, ok
}

// Stats возвращает сводку по сеткам
func (p *Presentation) Stats() PresentationStats {
	p.mu.RLock()
	defer p.mu.RUnlock()
	s := PresentationStats{Chunks: len(p.meshes)}
	for _, m := range p.meshes {
		s.Faces += m.Faces()
		s.Vertices += len(m.Vertices)
	}
	return s
}
