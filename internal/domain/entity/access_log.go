package entity

import "time"

// AccessLogEntry entrada de la bitácora de accesos; se crea en cada login exitoso.
type AccessLogEntry struct {
	ID        int64
	UserName  string
	Role      string
	CreatedAt time.Time
}
