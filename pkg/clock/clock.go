package clock

import "time"

// Clock интерфейс для получения текущего времени.
// Все компоненты движка сравнивают время через один и тот же экземпляр,
// чтобы создание холда и проверка его истечения видели одно "сейчас".
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

// NewSystem возвращает часы на основе time.Now (UTC)
func NewSystem() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

type fixedClock struct {
	now time.Time
}

// NewFixed возвращает часы, всегда показывающие одно и то же время (для тестов)
func NewFixed(t time.Time) Clock {
	return fixedClock{now: t.UTC()}
}

func (f fixedClock) Now() time.Time {
	return f.now
}
