package models

import "time"

// Shop is the identity principal. All entries and contacts belong to
// exactly one shop; the JWT subject carries the ShopID.
//
// The pin hash keeps a JSON tag because shops persist through the
// JSON local cache; handlers must only ever return DTOs, never a Shop.
type Shop struct {
	ShopID    string    `json:"shopID"`
	ShopName  string    `json:"shopName"`
	PinHash   string    `json:"pinHash"`
	CreatedAt time.Time `json:"createdAt"`
}
