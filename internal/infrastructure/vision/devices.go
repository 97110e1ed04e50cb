package vision

import (
	"fmt"
	"os"
	"strconv"

	"how-pretty/internal/domain/entity"
)

// Devices сопоставляет сторону камеры с устройством: индекс V4L2 ("0") или путь ("/dev/video2").
type Devices map[entity.Facing]string

// resolve находит устройство для стороны и проверяет, что узел существует.
func (d Devices) resolve(facing entity.Facing) (string, error) {
	id, ok := d[facing]
	if !ok || id == "" {
		return "", fmt.Errorf("%w: no %s camera configured", entity.ErrNoDeviceFound, facing)
	}

	path := id
	if n, err := strconv.Atoi(id); err == nil {
		path = fmt.Sprintf("/dev/video%d", n)
	}
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("%w: %s camera %s: %v", entity.ErrNoDeviceFound, facing, path, err)
	}

	return id, nil
}

// Path возвращает узел устройства для стороны без проверки существования.
func (d Devices) Path(facing entity.Facing) string {
	id := d[facing]
	if n, err := strconv.Atoi(id); err == nil {
		return fmt.Sprintf("/dev/video%d", n)
	}
	return id
}
