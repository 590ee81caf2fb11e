package notify

import "time"

// Routing keys published on the events exchange.
const (
	RouteOfferCreated = "offer.created"
	RouteOfferClaimed = "offer.claimed"
	RouteNewsletter   = "newsletter.broadcast"
)

type OfferCreated struct {
	OfferID         int64     `json:"offer_id,string"`
	RestaurantID    int64     `json:"restaurant_id,string"`
	RestaurantName  string    `json:"restaurant_name"`
	Title           string    `json:"title"`
	Discount        float64   `json:"discount"`
	DiscountedPrice float64   `json:"discounted_price"`
	ExpiresAt       time.Time `json:"expires_at"`
}

type OfferClaimed struct {
	ClaimID int64     `json:"claim_id,string"`
	OfferID int64     `json:"offer_id,string"`
	UserID  string    `json:"user_id"`
	Email   string    `json:"email,omitempty"`
	Code    string    `json:"code"`
	At      time.Time `json:"claimed_at"`
}

// NewsletterBroadcast asks the mailer to send a message to every subscriber.
type NewsletterBroadcast struct {
	Subject     string    `json:"subject"`
	Body        string    `json:"body"`
	RequestedBy string    `json:"requested_by"`
	At          time.Time `json:"requested_at"`
}
