package dto

import (
	"time"

	"github.com/mdnahid/baki_khata_app/internal/models"
	"github.com/shopspring/decimal"
)

// RenameCustomerRequest carries the new name for a customer.
type RenameCustomerRequest struct {
	NewName string `json:"newName" binding:"required"`
}

// SetPhoneRequest carries a contact string for a customer. An empty
// phone is valid: it records "explicitly no contact".
type SetPhoneRequest struct {
	Phone string `json:"phone"`
}

// FolderResponse is the API shape of a derived customer folder.
type FolderResponse struct {
	Name             string          `json:"name"`
	Balance          decimal.Decimal `json:"balance"`
	TransactionCount int             `json:"transactionCount"`
	LastActivityAt   time.Time       `json:"lastActivityAt"`
	Phone            string          `json:"phone,omitempty"`
}

// ToFolderResponse maps a derived folder to its API shape.
func ToFolderResponse(folder models.CustomerFolder) FolderResponse {
	return FolderResponse{
		Name:             folder.Name,
		Balance:          folder.Balance,
		TransactionCount: folder.Count,
		LastActivityAt:   folder.LastActivityAt,
		Phone:            folder.Phone,
	}
}

// FolderDetailResponse is a folder together with its entries, newest first.
type FolderDetailResponse struct {
	FolderResponse
	Entries []EntryResponse `json:"entries"`
}
