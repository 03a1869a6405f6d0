package models

import (
	"slices"
	"time"
)

// Platform is the marketplace singleton: fee configuration, accrued fees and the organizer registry.
type Platform struct {
	Admin          string                      `json:"admin" db:"admin"`
	Revenue        int64                       `json:"revenue" db:"revenue"`
	FeeBasisPoints int64                       `json:"fee_basis_points" db:"fee_bps"`
	Organizers     map[string]OrganizerProfile `json:"organizers" db:"organizers"`
	UpdatedAt      time.Time                   `json:"updated_at" db:"updated_at"`
}

// OrganizerProfile is what the platform knows about a registered organizer.
type OrganizerProfile struct {
	Address       string    `json:"address"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	EventsCreated int       `json:"events_created"`
	RegisteredAt  time.Time `json:"registered_at"`
}

// Event represents an event with its venue sections, ticket types and promo codes.
type Event struct {
	ID           string        `json:"id" db:"id"`
	Organizer    string        `json:"organizer" db:"organizer"`
	Name         string        `json:"name"`
	Description  string        `json:"description,omitempty"`
	StartTime    time.Time     `json:"start_time"`
	EndTime      time.Time     `json:"end_time"`
	MaxCapacity  int           `json:"max_capacity"`
	CurrentSales int           `json:"current_sales"`
	Revenue      int64         `json:"revenue"`
	Cancelled    bool          `json:"cancelled"`
	TicketTypes  []*TicketType `json:"ticket_types"`
	Sections     []*Section    `json:"sections"`
	PromoCodes   []*PromoCode  `json:"promo_codes"`
	NFTBenefits  *NFTBenefits  `json:"nft_benefits,omitempty"`
	Version      int64         `json:"version" db:"version"`
	CreatedAt    time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at" db:"updated_at"`
}

// TicketType is a priced admission category with its own quantity cap and validity window.
type TicketType struct {
	Name           string     `json:"name"`
	Price          int64      `json:"price"`
	Benefits       []string   `json:"benefits,omitempty"`
	Transferable   bool       `json:"transferable"`
	Resellable     bool       `json:"resellable"`
	MaxResalePrice *int64     `json:"max_resale_price,omitempty"`
	Quantity       int        `json:"quantity"`
	Sold           int        `json:"sold"`
	ValidFrom      time.Time  `json:"valid_from"`
	ValidUntil     *time.Time `json:"valid_until,omitempty"`
}

// Section is a venue subdivision. PriceMultiplier is a percentage: 100 means x1.0.
type Section struct {
	Name            string `json:"name"`
	Remaining       int    `json:"remaining"`
	PriceMultiplier int64  `json:"price_multiplier"`
}

// PromoCode is a capped discount token, optionally restricted to some ticket types.
type PromoCode struct {
	Code                string    `json:"code"`
	DiscountPercentage  int64     `json:"discount_percentage"`
	MaxUses             int       `json:"max_uses"`
	Used                int       `json:"used"`
	ValidUntil          time.Time `json:"valid_until"`
	EligibleTicketTypes []string  `json:"eligible_ticket_types,omitempty"`
}

// NFTBenefits grants a discount to holders of one of the listed collections.
type NFTBenefits struct {
	DiscountPercentage  int64    `json:"discount_percentage"`
	EligibleCollections []string `json:"eligible_collections"`
	PriorityAccess      bool     `json:"priority_access"`
}

// Ticket is an issued admission. Only Used ever changes after issuance.
type Ticket struct {
	ID            string    `json:"id" db:"id"`
	EventID       string    `json:"event_id" db:"event_id"`
	TicketType    string    `json:"ticket_type" db:"ticket_type"`
	Section       string    `json:"section" db:"section"`
	Owner         string    `json:"owner" db:"owner"`
	PurchasePrice int64     `json:"purchase_price" db:"purchase_price"`
	PurchasedAt   time.Time `json:"purchased_at" db:"purchased_at"`
	Used          bool      `json:"used" db:"used"`
	AccessToken   string    `json:"access_token" db:"access_token"`
}

// FindTicketType returns the ticket type with the given name, or nil.
func (e *Event) FindTicketType(name string) *TicketType {
	for _, tt := range e.TicketTypes {
		if tt.Name == name {
			return tt
		}
	}
	return nil
}

// FindSection returns the section with the given name, or nil.
func (e *Event) FindSection(name string) *Section {
	for _, s := range e.Sections {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// FindPromoCode returns the promo code with the given code, or nil.
func (e *Event) FindPromoCode(code string) *PromoCode {
	for _, p := range e.PromoCodes {
		if p.Code == code {
			return p
		}
	}
	return nil
}

// Clone returns a deep copy so callers can mutate it without touching shared state.
func (e *Event) Clone() *Event {
	if e == nil {
		return nil
	}
	c := *e
	c.TicketTypes = make([]*TicketType, len(e.TicketTypes))
	for i, tt := range e.TicketTypes {
		t := *tt
		t.Benefits = slices.Clone(tt.Benefits)
		if tt.MaxResalePrice != nil {
			v := *tt.MaxResalePrice
			t.MaxResalePrice = &v
		}
		if tt.ValidUntil != nil {
			v := *tt.ValidUntil
			t.ValidUntil = &v
		}
		c.TicketTypes[i] = &t
	}
	c.Sections = make([]*Section, len(e.Sections))
	for i, s := range e.Sections {
		v := *s
		c.Sections[i] = &v
	}
	c.PromoCodes = make([]*PromoCode, len(e.PromoCodes))
	for i, p := range e.PromoCodes {
		v := *p
		v.EligibleTicketTypes = slices.Clone(p.EligibleTicketTypes)
		c.PromoCodes[i] = &v
	}
	if e.NFTBenefits != nil {
		b := *e.NFTBenefits
		b.EligibleCollections = slices.Clone(e.NFTBenefits.EligibleCollections)
		c.NFTBenefits = &b
	}
	return &c
}

// Clone returns a deep copy of the platform.
func (p *Platform) Clone() *Platform {
	if p == nil {
		return nil
	}
	c := *p
	c.Organizers = make(map[string]OrganizerProfile, len(p.Organizers))
	for k, v := range p.Organizers {
		c.Organizers[k] = v
	}
	return &c
}

// IsOrganizer reports whether address is in the organizer registry.
func (p *Platform) IsOrganizer(address string) bool {
	_, ok := p.Organizers[address]
	return ok
}
