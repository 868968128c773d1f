package seeder

import "gig-market/internal/config"

func Defaults(cfg config.Config) []Seeder {
	return []Seeder{
		AdminSeeder{Email: cfg.Admin.Email, Password: cfg.Admin.Password},
	}
}
