package world

import (
	"fmt"

	"github.com/annel0/voxel-world/internal/physics"
	"github.com/annel0/voxel-world/internal/world/block"
	"github.com/go-gl/mathgl/mgl32"
)

// Параметры движения игрока (за один тик)
const (
	Gravity     float32 = -0.01 // Приращение вертикальной скорости
	JumpImpulse float32 = 0.15  // Начальная скорость прыжка
	WalkSpeed   float32 = 0.075
	SprintSpeed float32 = 0.15
	FlySpeed    float32 = 1.0
)

var (
	// HitBoxDimensions - размеры коробки игрока
	HitBoxDimensions = mgl32.Vec3{0.6, 1.8, 0.6}
	// HitBoxEye - положение глаз относительно минимального угла коробки
	HitBoxEye = mgl32.Vec3{0.3, 1.6, 0.3}
)

// Player - состояние игрока, общее для всех воркеров
type Player struct {
	Position       mgl32.Vec3 // Позиция глаз
	Fly            bool
	Gravity        float32 // Текущая вертикальная скорость
	OnGround       bool
	ActiveMaterial block.Block
}

// HitBox возвращает коробку столкновений игрока
func (p Player) HitBox() physics.Boxel {
	return physics.NewBoxel(HitBoxDimensions, HitBoxEye, p.Position)
}

// MoveIntent - намерение движения на один тик
type MoveIntent struct {
	Direction mgl32.Vec3 // Горизонтальное направление в мировых координатах (Y игнорируется)
	Ascend    bool       // Прыжок, в полёте - подъём
	Descend   bool       // Спуск в полёте
	Sprint    bool
}

// PullPlayer возвращает копию состояния игрока
func (w *World) PullPlayer() Player {
	w.playerMu.RLock()
	defer w.playerMu.RUnlock()
	return w.player
}

// PushPlayer заменяет состояние игрока
func (w *World) PushPlayer(p Player) {
	w.playerMu.Lock()
	w.player = p
	w.playerMu.Unlock()
}

// UpdatePlayer выполняет read-modify-write состояния игрока под исключительной блокировкой
func (w *World) UpdatePlayer(fn func(p *Player)) Player {
	w.playerMu.Lock()
	defer w.playerMu.Unlock()
	fn(&w.player)
	return w.player
}

// SetFlight включает или выключает полёт. Вертикальная скорость сбрасывается.
func (w *World) SetFlight(fly bool) {
	w.UpdatePlayer(func(p *Player) {
		p.Fly = fly
		p.Gravity = 0
		p.OnGround = false
	})
}

// SetActiveMaterial выбирает материал для установки блоков
func (w *World) SetActiveMaterial(b block.Block) error {
	if !b.IsValid() {
		return fmt.Errorf("%w: %d", ErrInvalidBlock, uint8(b))
	}
	w.UpdatePlayer(func(p *Player) {
		p.ActiveMaterial = b
	})
	return nil
}

// StepPlayer продвигает игрока на один тик и возвращает новое состояние.
// В полёте столкновения не проверяются; при ходьбе действует гравитация,
// а смещение ограничивается по каждой оси независимо.
func (w *World) StepPlayer(in MoveIntent) Player {
	w.playerMu.Lock()
	defer w.playerMu.Unlock()
	p := &w.player

	speed := WalkSpeed
	switch {
	case p.Fly:
		speed = FlySpeed
	case in.Sprint:
		speed = SprintSpeed
	}

	move := mgl32.Vec3{in.Direction.X(), 0, in.Direction.Z()}
	if l := move.Len(); l > 0 {
		move = move.Mul(speed / l)
	}

	if p.Fly {
		if in.Ascend {
			move[1] += speed
		}
		if in.Descend {
			move[1] -= speed
		}
		p.Position = p.Position.Add(move)
		return *p
	}

	if in.Ascend && p.OnGround {
		p.Gravity = JumpImpulse
		p.OnGround = false
	}
	move[1] += p.Gravity
	p.Gravity += Gravity

	box := p.HitBox()
	tx := w.FindCollisionX(box, move)
	ty := w.FindCollisionY(box, move)
	tz := w.FindCollisionZ(box, move)

	if ty < 1 {
		// Удар о пол или потолок гасит вертикальную скорость
		if move.Y() < 0 {
			p.OnGround = true
		}
		p.Gravity = 0
	} else if move.Y() < 0 {
		p.OnGround = false
	}

	p.Position = p.Position.Add(mgl32.Vec3{move.X() * tx, move.Y() * ty, move.Z() * tz})
	return *p
}
