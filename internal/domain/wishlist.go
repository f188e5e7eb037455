package domain

type Wishlist struct {
	UserID     string   `json:"userId"`
	ProductIDs []string `json:"productIds"`
}
