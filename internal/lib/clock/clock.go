// Package clock предоставляет источник текущего времени.
// Сервисы получают его снаружи, чтобы в тестах время можно было зафиксировать.
package clock

import "time"

// Clock возвращает текущее время.
type Clock interface {
	Now() time.Time
}

// Real — системные часы.
type Real struct{}

// Now возвращает time.Now().
func (Real) Now() time.Time {
	return time.Now()
}

// Fixed всегда возвращает одно и то же время.
type Fixed time.Time

// Now возвращает зафиксированное время.
func (f Fixed) Now() time.Time {
	return time.Time(f)
}
