package booking

import (
	"database/sql"
	"fmt"

	"github.com/clubcourt/reserve/internal/store"
)

// Category is the kind of resource being booked.
type Category string

const (
	// CategoryPool is shared-capacity access with no per-unit assignment.
	CategoryPool Category = store.CategoryPool
	// CategoryCourt is an individually indexed court.
	CategoryCourt Category = store.CategoryCourt
)

func (c Category) Valid() bool {
	return c == CategoryPool || c == CategoryCourt
}

// Capacity is the resource assignment of a reservation: either the shared
// pool or one indexed court. The zero value is the pool.
type Capacity struct {
	court int64
}

func PoolCapacity() Capacity {
	return Capacity{}
}

func CourtCapacity(court int64) Capacity {
	return Capacity{court: court}
}

// Court returns the assigned court number and whether one is assigned.
func (c Capacity) Court() (int64, bool) {
	return c.court, c.court > 0
}

func (c Capacity) String() string {
	if c.court > 0 {
		return fmt.Sprintf("Court %d", c.court)
	}
	return "Pool"
}

// columnValue renders the capacity as the nullable court_number column.
func (c Capacity) columnValue() sql.NullInt64 {
	if c.court > 0 {
		return sql.NullInt64{Int64: c.court, Valid: true}
	}
	return sql.NullInt64{}
}
