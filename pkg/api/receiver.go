package api

// Receiver is a family or individual with their packet allocation.
type Receiver struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Kind            string `json:"kind"`
	RecipientCount  int    `json:"recipientCount"`
	AmountPerPacket int64  `json:"amountPerPacket"`
	Denomination    int    `json:"denomination"`
	Eligible        bool   `json:"eligible"`
	Received        bool   `json:"received"`
	Year            int    `json:"year"`
	TotalAmount     int64  `json:"totalAmount"`
	CreatedAt       int64  `json:"createdAt"`
}

// CreateReceiverRequest creates a receiver. Only Name is required; every
// other field falls back to its default when nil.
type CreateReceiverRequest struct {
	Name            string  `json:"name"`
	Kind            *string `json:"kind,omitempty"`
	RecipientCount  *int    `json:"recipientCount,omitempty"`
	AmountPerPacket *int64  `json:"amountPerPacket,omitempty"`
	Denomination    *int    `json:"denomination,omitempty"`
	Eligible        *bool   `json:"eligible,omitempty"`
	Received        *bool   `json:"received,omitempty"`
	Year            *int    `json:"year,omitempty"`
}

type CreateReceiverResponse struct {
	Receiver *Receiver `json:"receiver"`
	Warnings []string  `json:"warnings,omitempty"`
}

type GetReceiverRequest struct {
	ID int64 `json:"id"`
}

type GetReceiverResponse struct {
	Receiver *Receiver `json:"receiver"`
}

type ListReceiversRequest struct {
	Year *int `json:"year,omitempty"`
}

type ListReceiversResponse struct {
	Receivers []*Receiver `json:"receivers"`
}

// UpdateReceiverRequest changes the fields that are set and leaves the
// rest alone.
type UpdateReceiverRequest struct {
	ID              int64   `json:"id"`
	Name            *string `json:"name,omitempty"`
	Kind            *string `json:"kind,omitempty"`
	RecipientCount  *int    `json:"recipientCount,omitempty"`
	AmountPerPacket *int64  `json:"amountPerPacket,omitempty"`
	Denomination    *int    `json:"denomination,omitempty"`
	Eligible        *bool   `json:"eligible,omitempty"`
	Received        *bool   `json:"received,omitempty"`
	Year            *int    `json:"year,omitempty"`
}

type UpdateReceiverResponse struct {
	Receiver *Receiver `json:"receiver"`
	Warnings []string  `json:"warnings,omitempty"`
}

type DeleteReceiverRequest struct {
	ID int64 `json:"id"`
}

type DeleteReceiverResponse struct{}

type ListYearsRequest struct{}

type ListYearsResponse struct {
	Years []int `json:"years"`
}
