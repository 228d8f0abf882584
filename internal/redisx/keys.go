package redisx

import "time"

const (
	// Cart per session: cart:{session_id} -> JSON array of {product, quantity}
	KeyCart = "cart:%s"

	// Dedup event processing: dedup:{service}:{id} (id = event_id)
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLCart  = 30 * 24 * time.Hour
	TTLDedup = 48 * time.Hour
)
