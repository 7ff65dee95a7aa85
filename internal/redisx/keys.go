package redisx

import "time"

const (
	// Cache trang thai don: order_status:{code} -> order JSON
	KeyOrderStatus = "order_status:%s"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"

	// Chan import trung: idem:import:{batch}
	KeyIdemImport = "idem:import:%s"
)

var (
	TTLStatusCache = 5 * time.Minute
	TTLDedup       = 48 * time.Hour
	TTLIdempotency = 24 * time.Hour
)
