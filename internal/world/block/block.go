package block

// Block - материал твердого блока. Воздух не является материалом:
// пустая клетка просто отсутствует в карте блоков чанка.
type Block uint8

// Константы материалов. Нулевое значение не является материалом.
const (
	Stone Block = iota + 1
	Dirt
	Grass
	Sand
	Water
	Glass
	Brick
	Trunk
	Leaves
)

// IsValid проверяет, что значение - зарегистрированный материал
func (b Block) IsValid() bool {
	_, exists := registry[b]
	return exists
}

// String возвращает имя материала
func (b Block) String() string {
	if info, exists := registry[b]; exists {
		return info.Name
	}
	return "unknown"
}
