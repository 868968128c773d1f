package dto

type ChangeRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user provider admin"`
}

type StatsResponse struct {
	Stats  any  `json:"stats"`
	Cached bool `json:"cached"`
}
