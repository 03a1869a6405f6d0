package errors

import "errors"

var ErrUnauthorized = errors.New("user is not authorized")
var ErrForbidden = errors.New("operation is forbidden for user")

// Sale preconditions
var (
	ErrEventNotFound      = errors.New("event not found")
	ErrEventCancelled     = errors.New("event cancelled")
	ErrEventNotStarted    = errors.New("event sales not yet open")
	ErrEventEnded         = errors.New("event already ended")
	ErrCapacityExceeded   = errors.New("event capacity exceeded")
	ErrTicketTypeNotFound = errors.New("ticket type not found")
	ErrTicketTypeSoldOut  = errors.New("ticket type sold out")
	ErrSectionNotFound    = errors.New("section not found")
	ErrSectionSoldOut     = errors.New("section sold out")
	ErrInsufficientFunds  = errors.New("insufficient funds")
)

// Ticket lifecycle
var (
	ErrTicketNotFound      = errors.New("ticket not found")
	ErrTicketAlreadyUsed   = errors.New("ticket already used")
	ErrNotOwner            = errors.New("caller is not the ticket owner")
	ErrTicketEventMismatch = errors.New("ticket does not belong to event")
	ErrTicketNotYetValid   = errors.New("ticket not yet valid")
	ErrTicketExpired       = errors.New("ticket validity window has passed")
)

// Organizer configuration
var (
	ErrNotOrganizer           = errors.New("caller is not the event organizer")
	ErrOrganizerNotRegistered = errors.New("organizer not registered")
	ErrOrganizerExists        = errors.New("organizer already registered")
	ErrInvalidEvent           = errors.New("invalid event configuration")
	ErrInvalidDiscount        = errors.New("discount percentage must be between 0 and 100")
	ErrPromoCodeExists        = errors.New("promo code already exists")
	ErrPlatformNotFound       = errors.New("platform not initialized")
	ErrInvalidFee             = errors.New("fee must be between 0 and 10000 basis points")
)

var ErrConcurrentUpdate = errors.New("event was modified concurrently")

var ErrSearchUnavailable = errors.New("event search is not configured")
