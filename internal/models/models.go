package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FlexibleBool accepts booleans encoded as JSON booleans, strings or numbers
type FlexibleBool bool

// UnmarshalJSON parses true/false, "yes"/"no", 1/0 and "on"/"off"
func (fb *FlexibleBool) UnmarshalJSON(data []byte) error {
	str := strings.Trim(string(data), `"`)

	switch strings.ToLower(str) {
	case "true", "1", "yes", "on":
		*fb = true
	case "false", "0", "no", "off":
		*fb = false
	default:
		return fmt.Errorf("invalid boolean value: %s", str)
	}
	return nil
}

// Bool returns the plain bool value
func (fb FlexibleBool) Bool() bool {
	return bool(fb)
}

// FormatAmount renders minor units as a fixed-point string, e.g. 97500 with 2 decimals -> "975.00"
func FormatAmount(amount int64, decimals int32) string {
	return decimal.New(amount, -decimals).StringFixed(decimals)
}

// RegisterOrganizerRequest registers the caller as an organizer
type RegisterOrganizerRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// CreateEventRequest describes a complete event configuration
type CreateEventRequest struct {
	Name        string              `json:"name" binding:"required"`
	Description string              `json:"description"`
	StartTime   time.Time           `json:"start_time" binding:"required"`
	EndTime     time.Time           `json:"end_time" binding:"required"`
	MaxCapacity int                 `json:"max_capacity" binding:"required,min=1"`
	TicketTypes []TicketTypeRequest `json:"ticket_types" binding:"required,min=1,dive"`
	Sections    []SectionRequest    `json:"sections" binding:"required,min=1,dive"`
	PromoCodes  []PromoCodeRequest  `json:"promo_codes" binding:"dive"`
	NFTBenefits *NFTBenefitsRequest `json:"nft_benefits"`
}

type TicketTypeRequest struct {
	Name           string       `json:"name" binding:"required"`
	Price          int64        `json:"price" binding:"min=0"`
	Benefits       []string     `json:"benefits"`
	Transferable   FlexibleBool `json:"transferable"`
	Resellable     FlexibleBool `json:"resellable"`
	MaxResalePrice *int64       `json:"max_resale_price"`
	Quantity       int          `json:"quantity" binding:"required,min=1"`
	ValidFrom      time.Time    `json:"valid_from"`
	ValidUntil     *time.Time   `json:"valid_until"`
}

type SectionRequest struct {
	Name            string `json:"name" binding:"required"`
	Capacity        int    `json:"capacity" binding:"required,min=1"`
	PriceMultiplier int64  `json:"price_multiplier" binding:"required,min=1"`
}

type PromoCodeRequest struct {
	Code                string    `json:"code" binding:"required"`
	DiscountPercentage  int64     `json:"discount_percentage" binding:"min=0,max=100"`
	MaxUses             int       `json:"max_uses" binding:"required,min=1"`
	ValidUntil          time.Time `json:"valid_until" binding:"required"`
	EligibleTicketTypes []string  `json:"eligible_ticket_types"`
}

type NFTBenefitsRequest struct {
	DiscountPercentage  int64        `json:"discount_percentage" binding:"min=0,max=100"`
	EligibleCollections []string     `json:"eligible_collections" binding:"required,min=1"`
	PriorityAccess      FlexibleBool `json:"priority_access"`
}

// CreateEventResponse is returned when an event is created
type CreateEventResponse struct {
	ID string `json:"id"`
}

// EventResponse is the public view of an event; promo codes are not exposed
type EventResponse struct {
	ID           string               `json:"id"`
	Organizer    string               `json:"organizer"`
	Name         string               `json:"name"`
	Description  string               `json:"description,omitempty"`
	StartTime    time.Time            `json:"start_time"`
	EndTime      time.Time            `json:"end_time"`
	MaxCapacity  int                  `json:"max_capacity"`
	CurrentSales int                  `json:"current_sales"`
	Cancelled    bool                 `json:"cancelled"`
	TicketTypes  []TicketTypeResponse `json:"ticket_types"`
	Sections     []Section            `json:"sections"`
	NFTBenefits  *NFTBenefits         `json:"nft_benefits,omitempty"`
}

type TicketTypeResponse struct {
	Name       string     `json:"name"`
	Price      string     `json:"price"`
	Benefits   []string   `json:"benefits,omitempty"`
	Available  int        `json:"available"`
	ValidFrom  time.Time  `json:"valid_from"`
	ValidUntil *time.Time `json:"valid_until,omitempty"`
}

// PurchaseTicketRequest buys one ticket for the caller
type PurchaseTicketRequest struct {
	TicketType string  `json:"ticket_type" binding:"required"`
	Section    string  `json:"section" binding:"required"`
	PromoCode  *string `json:"promo_code"`
	Payment    int64   `json:"payment" binding:"min=0"`
}

// PurchaseTicketResponse carries the issued ticket and how the payment was split
type PurchaseTicketResponse struct {
	Ticket             TicketResponse `json:"ticket"`
	FinalPrice         int64          `json:"final_price"`
	FinalPriceDisplay  string         `json:"final_price_display"`
	PlatformFee        int64          `json:"platform_fee"`
	Proceeds           int64          `json:"proceeds"`
	Refund             int64          `json:"refund"`
	PromoApplied       bool           `json:"promo_applied"`
	NFTDiscountApplied bool           `json:"nft_discount_applied"`
}

// QuoteResponse is a price preview; nothing is reserved or redeemed
type QuoteResponse struct {
	BasePrice          int64  `json:"base_price"`
	SectionPrice       int64  `json:"section_price"`
	FinalPrice         int64  `json:"final_price"`
	FinalPriceDisplay  string `json:"final_price_display"`
	PlatformFee        int64  `json:"platform_fee"`
	PromoApplied       bool   `json:"promo_applied"`
	NFTDiscountApplied bool   `json:"nft_discount_applied"`
}

type TicketResponse struct {
	ID            string    `json:"id"`
	EventID       string    `json:"event_id"`
	TicketType    string    `json:"ticket_type"`
	Section       string    `json:"section"`
	Owner         string    `json:"owner"`
	PurchasePrice int64     `json:"purchase_price"`
	PurchasedAt   time.Time `json:"purchased_at"`
	Used          bool      `json:"used"`
	AccessToken   string    `json:"access_token,omitempty"`
}

// VerifyTicketResponse is returned by the entrance check
type VerifyTicketResponse struct {
	TicketID string `json:"ticket_id"`
	Valid    bool   `json:"valid"`
	Reason   string `json:"reason,omitempty"`
}

// UpdateFeeRequest changes the platform fee, in basis points
type UpdateFeeRequest struct {
	FeeBasisPoints int64 `json:"fee_basis_points" binding:"min=0,max=10000"`
}

type PlatformResponse struct {
	Admin          string `json:"admin"`
	FeeBasisPoints int64  `json:"fee_basis_points"`
	Revenue        int64  `json:"revenue"`
	RevenueDisplay string `json:"revenue_display"`
	Organizers     int    `json:"organizers"`
}

// NewTicketResponse converts a ticket; the access token is only shown to its owner
func NewTicketResponse(t *Ticket, viewer string) TicketResponse {
	resp := TicketResponse{
		ID:            t.ID,
		EventID:       t.EventID,
		TicketType:    t.TicketType,
		Section:       t.Section,
		Owner:         t.Owner,
		PurchasePrice: t.PurchasePrice,
		PurchasedAt:   t.PurchasedAt,
		Used:          t.Used,
	}
	if viewer == t.Owner {
		resp.AccessToken = t.AccessToken
	}
	return resp
}

// NewEventResponse builds the public view of an event
func NewEventResponse(e *Event, decimals int32) EventResponse {
	resp := EventResponse{
		ID:           e.ID,
		Organizer:    e.Organizer,
		Name:         e.Name,
		Description:  e.Description,
		StartTime:    e.StartTime,
		EndTime:      e.EndTime,
		MaxCapacity:  e.MaxCapacity,
		CurrentSales: e.CurrentSales,
		Cancelled:    e.Cancelled,
		TicketTypes:  make([]TicketTypeResponse, len(e.TicketTypes)),
		Sections:     make([]Section, len(e.Sections)),
		NFTBenefits:  e.NFTBenefits,
	}
	for i, tt := range e.TicketTypes {
		resp.TicketTypes[i] = TicketTypeResponse{
			Name:       tt.Name,
			Price:      FormatAmount(tt.Price, decimals),
			Benefits:   tt.Benefits,
			Available:  tt.Quantity - tt.Sold,
			ValidFrom:  tt.ValidFrom,
			ValidUntil: tt.ValidUntil,
		}
	}
	for i, s := range e.Sections {
		resp.Sections[i] = *s
	}
	return resp
}
