package entity

import "time"

// User representa una cuenta de la aplicación. Cada usuario tiene su propio
// catálogo de productos y sus propios libros de stock.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Status       string // active | disabled
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
