package dto

import "time"

// CatalogNameRequest entrada para crear o renombrar categoría, modelo o item.
// ParentID es la categoría (modelo) o el modelo (item); se ignora en categorías y al actualizar.
type CatalogNameRequest struct {
	ParentID string `json:"parentId" validate:"omitempty,max=64"`
	Name     string `json:"name" validate:"required,min=1,max=200"`
}

// CatalogNodeResponse salida de categoría, modelo o item.
type CatalogNodeResponse struct {
	ID        string    `json:"id"`
	ParentID  string    `json:"parentId,omitempty"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CatalogListResponse lista paginada de nodos del catálogo.
type CatalogListResponse struct {
	Items []CatalogNodeResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}

// CreateSKUCodeRequest entrada para crear un código SKU.
type CreateSKUCodeRequest struct {
	ItemID      string `json:"itemId" validate:"required,max=64"`
	Code        string `json:"code" validate:"required,min=1,max=100"`
	IsDefective bool   `json:"isDefective"`
}

// UpdateSKUCodeRequest entrada para actualizar un código SKU.
type UpdateSKUCodeRequest struct {
	Code        *string `json:"code" validate:"omitempty,min=1,max=100"`
	IsDefective *bool   `json:"isDefective"`
}

// SKUCodeResponse salida de un código SKU.
type SKUCodeResponse struct {
	ID          string    `json:"id"`
	ItemID      string    `json:"itemId"`
	Code        string    `json:"code"`
	IsDefective bool      `json:"isDefective"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// SKUCodeListResponse lista paginada de códigos SKU.
type SKUCodeListResponse struct {
	Items []SKUCodeResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
