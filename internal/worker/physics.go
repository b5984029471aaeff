package worker

import (
	"context"
	"time"

	"github.com/annel0/voxel-world/internal/logging"
	"github.com/annel0/voxel-world/internal/world"
	"github.com/annel0/voxel-world/internal/world/block"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/atomic"
)

// InputState - состояние ввода на один тик
type InputState struct {
	Move      world.MoveIntent
	Look      mgl32.Vec3 // Направление взгляда
	Break     bool       // Удалить блок под прицелом
	Place     bool       // Поставить блок перед прицелом
	ToggleFly bool
	Material  block.Block // Выбор материала, 0 - без изменений
}

// InputSource поставляет ввод. Poll вызывается раз в тик из горутины физики.
type InputSource interface {
	Poll() InputState
}

// InputFunc позволяет использовать функцию как InputSource
type InputFunc func() InputState

// Poll вызывает f()
func (f InputFunc) Poll() InputState { return f() }

// PhysicsConfig - параметры воркера физики
type PhysicsConfig struct {
	Tick  time.Duration
	Reach float32
}

// Physics - воркер ввода и движения игрока. Он же применяет команды из очереди мира.
type Physics struct {
	world  *world.World
	input  InputSource
	cfg    PhysicsConfig
	logger *logging.Logger
	ticks  atomic.Uint64
}

// NewPhysics создаёт воркер физики
func NewPhysics(w *world.World, input InputSource, cfg PhysicsConfig) *Physics {
	if cfg.Tick <= 0 {
		cfg.Tick = 16 * time.Millisecond
	}
	if cfg.Reach <= 0 {
		cfg.Reach = world.DefaultReach
	}
	return &Physics{
		world:  w,
		input:  input,
		cfg:    cfg,
		logger: logging.GetPhysicsLogger(),
	}
}

// SetLogger заменяет логгер воркера
func (p *Physics) SetLogger(l *logging.Logger) { p.logger = l }

// Ticks возвращает количество выполненных тиков
func (p *Physics) Ticks() uint64 { return p.ticks.Load() }

// Run выполняет тики до отмены ctx
func (p *Physics) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.cfg.Tick)
	defer ticker.Stop()

	p.logger.Info("воркер физики запущен, тик %v", p.cfg.Tick)
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("воркер физики остановлен после %d тиков", p.Ticks())
			return ctx.Err()
		case <-ticker.C:
			p.Step()
		}
	}
}

// Step выполняет один тик: ввод, движение, запросы изменений и применение команд
func (p *Physics) Step() {
	var in InputState
	if p.input != nil {
		in = p.input.Poll()
	}

	if in.ToggleFly {
		fly := !p.world.PullPlayer().Fly
		p.enqueue(world.SetFlightCommand{Fly: fly})
	}
	if in.Material.IsValid() {
		p.enqueue(world.SetActiveMaterialCommand{Material: in.Material})
	}

	player := p.world.StepPlayer(in.Move)

	if in.Break || in.Place {
		if pick, ok := p.world.PickBlock(player.Position, in.Look, p.cfg.Reach); ok {
			if in.Break {
				p.enqueue(world.RemoveBlockCommand{At: pick.Block})
			} else if target, ok := pick.PlacementTarget(); ok {
				p.enqueue(world.PlaceBlockCommand{At: target, Block: player.ActiveMaterial})
			}
		}
	}

	p.drainCommands()
	p.ticks.Inc()
}

func (p *Physics) enqueue(cmd world.Command) {
	if !p.world.SendCommand(cmd) {
		p.logger.Debug("очередь команд заполнена, %s отброшена", cmd.CommandType())
	}
}

// drainCommands применяет все команды, накопившиеся в очереди, не ожидая новых
func (p *Physics) drainCommands() {
	for {
		select {
		case cmd := <-p.world.Commands():
			if err := p.world.ApplyCommand(cmd); err != nil {
				p.logger.Debug("команда %s отклонена: %v", cmd.CommandType(), err)
			}
		default:
			return
		}
	}
}
