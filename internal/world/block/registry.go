package block

import (
	"sort"
	"strings"

	"github.com/annel0/voxel-world/internal/vec"
)

// Info описывает материал блока
type Info struct {
	ID   Block
	Name string
	// Sprite - номер текстуры для каждой грани: [боковые, верх, низ]
	Sprite [3]uint32
}

// SpriteFor возвращает номер текстуры для грани
func (info Info) SpriteFor(d vec.Direction) uint32 {
	switch d {
	case vec.Up:
		return info.Sprite[1]
	case vec.Down:
		return info.Sprite[2]
	default:
		return info.Sprite[0]
	}
}

var registry = make(map[Block]Info)
var byName = make(map[string]Block)

// Register добавляет материал в регистр
func Register(info Info) {
	registry[info.ID] = info
	byName[strings.ToLower(info.Name)] = info.ID
}

// Get возвращает описание материала
func Get(id Block) (Info, bool) {
	info, exists := registry[id]
	return info, exists
}

// Parse находит материал по имени (без учета регистра)
func Parse(name string) (Block, bool) {
	id, exists := byName[strings.ToLower(strings.TrimSpace(name))]
	return id, exists
}

// All возвращает все зарегистрированные материалы в порядке ID
func All() []Block {
	result := make([]Block, 0, len(registry))
	for id := range registry {
		result = append(result, id)
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}

func init() {
	Register(Info{ID: Stone, Name: "stone", Sprite: [3]uint32{0, 0, 0}})
	Register(Info{ID: Dirt, Name: "dirt", Sprite: [3]uint32{1, 1, 1}})
	Register(Info{ID: Grass, Name: "grass", Sprite: [3]uint32{3, 2, 1}})
	Register(Info{ID: Sand, Name: "sand", Sprite: [3]uint32{4, 4, 4}})
	Register(Info{ID: Water, Name: "water", Sprite: [3]uint32{7, 7, 7}})
	Register(Info{ID: Glass, Name: "glass", Sprite: [3]uint32{6, 6, 6}})
	Register(Info{ID: Brick, Name: "brick", Sprite: [3]uint32{5, 5, 5}})
	Register(Info{ID: Trunk, Name: "trunk", Sprite: [3]uint32{9, 8, 8}})
	Register(Info{ID: Leaves, Name: "leaves", Sprite: [3]uint32{10, 10, 10}})
}
