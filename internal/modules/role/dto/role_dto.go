package dto

// SaveRoleInput is shared by create and update; both fields are
// mandatory on either operation.
type SaveRoleInput struct {
	NamaRole  string `json:"nama_role" binding:"required"`
	LimitRole *int   `json:"limit_role" binding:"required"`
}
