package domain

import "time"

// Default TTL schedule for soft holds.
// Значения задаются бизнесом через конфигурацию; это дефолты.
const (
	DefaultSingleHoldTTL = 15 * time.Minute
	DefaultBundleHoldTTL = 60 * time.Minute
)

// Business validation constants
const (
	MinSlotCapacity = 1
	MaxSlotCapacity = 1000

	MinConcurrentBookings = 1
	MaxConcurrentBookings = 100
)

// UncategorizedID зарезервированный bucket для услуг с битыми ссылками
// на категорию/подкатегорию (заполняется миграцией, никогда не удаляется)
const UncategorizedID int64 = 1

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
