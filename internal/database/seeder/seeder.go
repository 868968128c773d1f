package seeder

import (
	"context"

	"gig-market/internal/database"
)

type Seeder interface {
	Name() string
	Run(ctx context.Context, db database.DB) error
}
