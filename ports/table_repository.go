package ports

import (
	"context"

	"sheetsense/domain/table"
)

// TableRepository persists normalized tables and their metadata. The
// normalization core never persists anything itself; callers that need
// durable storage wire an implementation of this port.
type TableRepository interface {
	Save(ctx context.Context, info *table.TableInfo) error
	GetByName(ctx context.Context, name string) (*table.TableInfo, error)
	List(ctx context.Context) ([]*table.TableInfo, error)
	DeleteAll(ctx context.Context) error
}
