package dto

import "time"

// CreateHolderRequest entrada para crear un holder (casa matriz, sucursal o ingeniero).
type CreateHolderRequest struct {
	Type     string `json:"type" validate:"required,oneof=head_office branch engineer"`
	Name     string `json:"name" validate:"required,min=1,max=200"`
	ParentID string `json:"parentId" validate:"omitempty,max=64"`
}

// UpdateHolderRequest entrada para renombrar un holder.
type UpdateHolderRequest struct {
	Name *string `json:"name" validate:"omitempty,min=1,max=200"`
}

// HolderResponse salida de un holder.
type HolderResponse struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Name      string    `json:"name"`
	ParentID  string    `json:"parentId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// HolderListResponse lista paginada de holders.
type HolderListResponse struct {
	Items []HolderResponse `json:"items"`
	Page  PageResponse     `json:"page"`
}
