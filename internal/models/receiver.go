package models

import (
	"errors"
	"fmt"
	"strings"
)

// Kind describes whether a receiver is a household or a single person.
type Kind string

const (
	KindFamily     Kind = "family"
	KindIndividual Kind = "individual"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == KindFamily || k == KindIndividual
}

// Denominations is the fixed set of cash notes a packet can be paid out in.
var Denominations = []int{1, 5, 10, 20, 50, 100}

// ValidDenomination reports whether d is one of Denominations.
func ValidDenomination(d int) bool {
	for _, n := range Denominations {
		if n == d {
			return true
		}
	}
	return false
}

// Defaults applied by NewReceiver.
const (
	DefaultRecipientCount  = 1
	DefaultAmountPerPacket = 10
	DefaultDenomination    = 10
)

// Upper bounds keep a receiver's total, and the sum over many receivers,
// well inside int64.
const (
	MaxRecipientCount  = 10_000
	MaxAmountPerPacket = 1_000_000_000
)

var (
	ErrEmptyName             = errors.New("name is required")
	ErrInvalidKind           = errors.New("kind must be 'family' or 'individual'")
	ErrInvalidRecipientCount = errors.New("recipient count must be at least 1")
	ErrInvalidAmount         = errors.New("amount per packet must be at least 1")
	ErrInvalidDenomination   = fmt.Errorf("denomination must be one of %v", Denominations)
	ErrInvalidYear           = errors.New("year must be a positive number")
	ErrTooManyRecipients     = fmt.Errorf("recipient count must be at most %d", MaxRecipientCount)
	ErrAmountTooLarge        = fmt.Errorf("amount per packet must be at most %d", MaxAmountPerPacket)
)

// Receiver is one allocation unit: a family (several packets) or an
// individual (one packet) in a planning year.
type Receiver struct {
	// ID is assigned by storage on creation and never changes.
	ID int64

	// OwnerID is the ID of the user this receiver belongs to.
	OwnerID string

	// Name is the display label (family name or person's name).
	Name string

	Kind Kind

	// RecipientCount is the number of packets, e.g. children in a family.
	// Always 1 for individuals.
	RecipientCount int

	// AmountPerPacket is the amount put in each packet, in whole units.
	AmountPerPacket int64

	// Denomination is the cash note used to fill the packets.
	Denomination int

	// Eligible gates whether this receiver counts toward any total.
	Eligible bool

	// Received marks the allocation as physically handed out.
	Received bool

	// Year is the planning period this receiver belongs to.
	Year int

	// CreatedAt is the Unix timestamp when the receiver was created.
	CreatedAt int64
}

// NewReceiver returns a receiver with the default allocation for year.
func NewReceiver(ownerID, name string, year int) *Receiver {
	return &Receiver{
		OwnerID:         ownerID,
		Name:            name,
		Kind:            KindFamily,
		RecipientCount:  DefaultRecipientCount,
		AmountPerPacket: DefaultAmountPerPacket,
		Denomination:    DefaultDenomination,
		Eligible:        true,
		Received:        false,
		Year:            year,
	}
}

// TotalAmount is RecipientCount × AmountPerPacket.
func (r *Receiver) TotalAmount() int64 {
	return int64(r.RecipientCount) * r.AmountPerPacket
}

// Normalize trims the name and forces a single packet for individuals.
func (r *Receiver) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	if r.Kind == KindIndividual {
		r.RecipientCount = 1
	}
}

// Validate returns the first field that makes r unusable.
func (r *Receiver) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrEmptyName
	}
	if !r.Kind.Valid() {
		return ErrInvalidKind
	}
	if r.RecipientCount < 1 {
		return ErrInvalidRecipientCount
	}
	if r.RecipientCount > MaxRecipientCount {
		return ErrTooManyRecipients
	}
	if r.AmountPerPacket < 1 {
		return ErrInvalidAmount
	}
	if r.AmountPerPacket > MaxAmountPerPacket {
		return ErrAmountTooLarge
	}
	if !ValidDenomination(r.Denomination) {
		return ErrInvalidDenomination
	}
	if r.Year < 1 {
		return ErrInvalidYear
	}
	return nil
}

// Warnings lists problems that don't block a write.
//
// A packet amount that isn't a multiple of the denomination produces
// fractional note counts in the summary. That is kept as-is; callers only
// get told about it.
func (r *Receiver) Warnings() []string {
	var warnings []string
	if r.Denomination > 0 && r.AmountPerPacket%int64(r.Denomination) != 0 {
		warnings = append(warnings, fmt.Sprintf(
			"RM%d per packet is not a whole number of RM%d notes",
			r.AmountPerPacket, r.Denomination,
		))
	}
	return warnings
}

// ReceiverPatch is a partial update. Nil fields are left untouched.
type ReceiverPatch struct {
	Name            *string
	Kind            *Kind
	RecipientCount  *int
	AmountPerPacket *int64
	Denomination    *int
	Eligible        *bool
	Received        *bool
	Year            *int
}

// IsEmpty reports whether the patch changes nothing.
func (p ReceiverPatch) IsEmpty() bool {
	return p.Name == nil && p.Kind == nil && p.RecipientCount == nil &&
		p.AmountPerPacket == nil && p.Denomination == nil &&
		p.Eligible == nil && p.Received == nil && p.Year == nil
}

// Apply copies every set field of p onto r.
func (p ReceiverPatch) Apply(r *Receiver) {
	if p.Name != nil {
		r.Name = *p.Name
	}
	if p.Kind != nil {
		r.Kind = *p.Kind
	}
	if p.RecipientCount != nil {
		r.RecipientCount = *p.RecipientCount
	}
	if p.AmountPerPacket != nil {
		r.AmountPerPacket = *p.AmountPerPacket
	}
	if p.Denomination != nil {
		r.Denomination = *p.Denomination
	}
	if p.Eligible != nil {
		r.Eligible = *p.Eligible
	}
	if p.Received != nil {
		r.Received = *p.Received
	}
	if p.Year != nil {
		r.Year = *p.Year
	}
}

// Reconcile makes p carry every normalisation Normalize applied to merged,
// the receiver obtained by applying p to the stored record. Without it a
// patch that switches a family to an individual would leave the old
// recipient count in storage.
func (p *ReceiverPatch) Reconcile(current, merged *Receiver) {
	if p.Name != nil {
		p.Name = &merged.Name
	}
	if p.RecipientCount != nil || merged.RecipientCount != current.RecipientCount {
		p.RecipientCount = &merged.RecipientCount
	}
}
