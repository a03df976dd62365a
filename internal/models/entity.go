package models

// Entity is implemented by every kindergarten record type
type Entity interface {
	GetID() int64
}
