package dto

// RegisterRequest carries the payload to create a new shop identity.
type RegisterRequest struct {
	ShopName string `json:"shopName" binding:"required"`
	Pin      string `json:"pin" binding:"required,min=4"`
}

// LoginRequest carries shop login credentials.
type LoginRequest struct {
	ShopName string `json:"shopName" binding:"required"`
	Pin      string `json:"pin" binding:"required"`
}

// AuthResponse returns the issued token along with the shop details.
type AuthResponse struct {
	Token    string `json:"token"`
	ShopID   string `json:"shopID"`
	ShopName string `json:"shopName"`
}
