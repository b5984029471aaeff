package world

import (
	"context"
	"fmt"

	"github.com/annel0/voxel-world/internal/eventbus"
	"github.com/annel0/voxel-world/internal/vec"
	"github.com/annel0/voxel-world/internal/world/block"
)

// ChunkEvent - уведомление представления: чанк нужно перестроить (Visible)
// или выгрузить (!Visible)
type ChunkEvent struct {
	Chunk   vec.ChunkCoords
	Visible bool
}

// Command - команда, изменяющая мир. Реализации перечислены ниже.
type Command interface {
	CommandType() string
}

// PlaceBlockCommand ставит блок
type PlaceBlockCommand struct {
	At    vec.BlockCoords
	Block block.Block
}

// RemoveBlockCommand удаляет блок
type RemoveBlockCommand struct {
	At vec.BlockCoords
}

// SetFlightCommand включает или выключает полёт игрока
type SetFlightCommand struct {
	Fly bool
}

// SetActiveMaterialCommand выбирает материал для установки
type SetActiveMaterialCommand struct {
	Material block.Block
}

func (PlaceBlockCommand) CommandType() string        { return "place_block" }
func (RemoveBlockCommand) CommandType() string       { return "remove_block" }
func (SetFlightCommand) CommandType() string         { return "set_flight" }
func (SetActiveMaterialCommand) CommandType() string { return "set_active_material" }

// ApplyCommand выполняет команду в вызывающей горутине
func (w *World) ApplyCommand(cmd Command) error {
	var err error
	switch c := cmd.(type) {
	case PlaceBlockCommand:
		_, err = w.PlaceBlock(c.At, c.Block)
	case RemoveBlockCommand:
		_, err = w.RemoveBlock(c.At)
	case SetFlightCommand:
		w.SetFlight(c.Fly)
	case SetActiveMaterialCommand:
		err = w.SetActiveMaterial(c.Material)
	default:
		err = fmt.Errorf("неизвестная команда %T", cmd)
	}
	if err != nil {
		return err
	}
	w.metrics.CommandApplied(cmd.CommandType())
	return nil
}

// SendCommand ставит команду в очередь без ожидания. false, если очередь заполнена.
func (w *World) SendCommand(cmd Command) bool {
	select {
	case w.commands <- cmd:
		return true
	default:
		return false
	}
}

// SendCommandWait ставит команду в очередь, ожидая места или отмены ctx
func (w *World) SendCommandWait(ctx context.Context, cmd Command) error {
	select {
	case w.commands <- cmd:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Commands возвращает сторону чтения очереди команд
func (w *World) Commands() <-chan Command {
	return w.commands
}

// RenderEvents возвращает сторону чтения уведомлений представления
func (w *World) RenderEvents() <-chan ChunkEvent {
	return w.render
}

// notifyRender отправляет уведомление без ожидания; при переполнении оно теряется
func (w *World) notifyRender(ev ChunkEvent) {
	select {
	case w.render <- ev:
	default:
		w.metrics.RenderDropped()
		w.logger.Debug("канал представления заполнен, уведомление для %s потеряно", ev.Chunk)
	}
}

// NotifyRenderWait отправляет уведомление, ожидая места в канале или отмены ctx
func (w *World) NotifyRenderWait(ctx context.Context, ev ChunkEvent) error {
	select {
	case w.render <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Типы доменных событий мира
const (
	EventSource     = "world"
	EventChunkStage = "world.chunk_stage"
	EventBlockEdit  = "world.block_edit"
)

// ChunkStageEvent - нагрузка события EventChunkStage
type ChunkStageEvent struct {
	X     int32  `json:"x"`
	Z     int32  `json:"z"`
	Stage string `json:"stage"`
}

// BlockEditEvent - нагрузка события EventBlockEdit
type BlockEditEvent struct {
	X             int32  `json:"x"`
	Y             int32  `json:"y"`
	Z             int32  `json:"z"`
	Op            string `json:"op"`
	ChangedChunks int    `json:"changed_chunks"`
}

func (w *World) publishChunkStage(cc vec.ChunkCoords, stage ChunkStage) {
	w.publish(EventChunkStage, ChunkStageEvent{X: cc.X, Z: cc.Z, Stage: stage.String()})
}

func (w *World) publishBlockEdit(bc vec.BlockCoords, op string, changed int) {
	g := bc.Global()
	w.publish(EventBlockEdit, BlockEditEvent{X: g.X, Y: g.Y, Z: g.Z, Op: op, ChangedChunks: changed})
}

// publish отправляет событие низкого приоритета; шина не блокирует такие события
func (w *World) publish(eventType string, payload interface{}) {
	if w.bus == nil {
		return
	}
	ev, err := eventbus.NewEnvelope(EventSource, eventType, payload)
	if err != nil {
		w.logger.Warn("событие %s не создано: %v", eventType, err)
		return
	}
	ev.Priority = eventbus.PriorityLow
	if err := w.bus.Publish(context.Background(), ev); err != nil {
		w.logger.Warn("событие %s не опубликовано: %v", eventType, err)
	}
}
