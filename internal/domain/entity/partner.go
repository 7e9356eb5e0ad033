package entity

import "time"

// Partner cliente o proveedor. Code es el código exacto; ShortName el nombre corto usado en registros antiguos.
type Partner struct {
	ID        string
	Code      string
	ShortName string
	Name      string
	CreatedAt time.Time
}
