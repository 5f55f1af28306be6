package model

import "time"

// Merchant is a durable mapping from a merchant name as captured to the name
// the user wants displayed.
type Merchant struct {
	LastUpdated  time.Time
	OriginalName string
	DisplayName  string
	UseCount     int
}
