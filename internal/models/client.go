package models

import "time"

// Client - клиент, которому выставляются подписки и платежи.
// Удаление клиента каскадно удаляет его подписки и платежи.
type Client struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     *string   `json:"email,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	Company   *string   `json:"company,omitempty"`
	Notes     *string   `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ClientRequest - данные для создания клиента.
type ClientRequest struct {
	Name    string  `json:"name" validate:"required,max=255"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Phone   *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Company *string `json:"company,omitempty" validate:"omitempty,max=255"`
	Notes   *string `json:"notes,omitempty"`
}

// ClientPatch - частичное обновление клиента, nil означает «не менять».
type ClientPatch struct {
	Name    *string `json:"name,omitempty"`
	Email   *string `json:"email,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Company *string `json:"company,omitempty"`
	Notes   *string `json:"notes,omitempty"`
}

// ClientRequestFrom строит запрос из сохранённого клиента.
func ClientRequestFrom(c *Client) ClientRequest {
	return ClientRequest{
		Name:    c.Name,
		Email:   c.Email,
		Phone:   c.Phone,
		Company: c.Company,
		Notes:   c.Notes,
	}
}

// Apply накладывает патч на запрос.
func (p ClientPatch) Apply(req *ClientRequest) {
	if p.Name != nil {
		req.Name = *p.Name
	}
	if p.Email != nil {
		req.Email = p.Email
	}
	if p.Phone != nil {
		req.Phone = p.Phone
	}
	if p.Company != nil {
		req.Company = p.Company
	}
	if p.Notes != nil {
		req.Notes = p.Notes
	}
}

// ClientFilter - параметры списка клиентов.
type ClientFilter struct {
	Search string
}
