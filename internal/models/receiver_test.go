package models

import (
	"errors"
	"testing"
)

func TestNewReceiverDefaults(t *testing.T) {
	r := NewReceiver("user-1", "Keluarga Ahmad", 2026)

	if r.Kind != KindFamily {
		t.Errorf("Kind = %q, want %q", r.Kind, KindFamily)
	}
	if r.RecipientCount != 1 {
		t.Errorf("RecipientCount = %d, want 1", r.RecipientCount)
	}
	if r.AmountPerPacket != 10 {
		t.Errorf("AmountPerPacket = %d, want 10", r.AmountPerPacket)
	}
	if r.Denomination != 10 {
		t.Errorf("Denomination = %d, want 10", r.Denomination)
	}
	if !r.Eligible {
		t.Error("expected new receiver to be eligible")
	}
	if r.Received {
		t.Error("expected new receiver to not be received")
	}
	if r.Year != 2026 {
		t.Errorf("Year = %d, want 2026", r.Year)
	}
	if err := r.Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}

func TestReceiverValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(r *Receiver)
		want   error
	}{
		{"blank name", func(r *Receiver) { r.Name = "   " }, ErrEmptyName},
		{"unknown kind", func(r *Receiver) { r.Kind = "company" }, ErrInvalidKind},
		{"zero recipients", func(r *Receiver) { r.RecipientCount = 0 }, ErrInvalidRecipientCount},
		{"zero amount", func(r *Receiver) { r.AmountPerPacket = 0 }, ErrInvalidAmount},
		{"too many recipients", func(r *Receiver) { r.RecipientCount = MaxRecipientCount + 1 }, ErrTooManyRecipients},
		{"amount too large", func(r *Receiver) { r.AmountPerPacket = MaxAmountPerPacket + 1 }, ErrAmountTooLarge},
		{"product would overflow", func(r *Receiver) { r.RecipientCount = 100 * MaxRecipientCount; r.AmountPerPacket = 1 << 44 }, ErrTooManyRecipients},
		{"largest allocation", func(r *Receiver) { r.RecipientCount = MaxRecipientCount; r.AmountPerPacket = MaxAmountPerPacket }, nil},
		{"odd denomination", func(r *Receiver) { r.Denomination = 25 }, ErrInvalidDenomination},
		{"zero year", func(r *Receiver) { r.Year = 0 }, ErrInvalidYear},
		{"valid", func(r *Receiver) {}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReceiver("user-1", "Pak Long", 2026)
			tt.modify(r)
			if err := r.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestReceiverNormalize(t *testing.T) {
	r := NewReceiver("user-1", "  Mak Ngah  ", 2026)
	r.Kind = KindIndividual
	r.RecipientCount = 4

	r.Normalize()

	if r.Name != "Mak Ngah" {
		t.Errorf("Name = %q, want trimmed", r.Name)
	}
	if r.RecipientCount != 1 {
		t.Errorf("individual RecipientCount = %d, want 1", r.RecipientCount)
	}
}

func TestReceiverTotalAmount(t *testing.T) {
	r := NewReceiver("user-1", "Family", 2026)
	r.RecipientCount = 4
	r.AmountPerPacket = 15
	if got := r.TotalAmount(); got != 60 {
		t.Errorf("TotalAmount() = %d, want 60", got)
	}
}

func TestReceiverWarnings(t *testing.T) {
	r := NewReceiver("user-1", "Family", 2026)
	if w := r.Warnings(); len(w) != 0 {
		t.Errorf("expected no warnings for RM10 in RM10 notes, got %v", w)
	}

	r.AmountPerPacket = 15
	w := r.Warnings()
	if len(w) != 1 {
		t.Fatalf("expected 1 warning, got %v", w)
	}
	if w[0] != "RM15 per packet is not a whole number of RM10 notes" {
		t.Errorf("unexpected warning %q", w[0])
	}
}

func TestReceiverPatch(t *testing.T) {
	t.Run("empty patch changes nothing", func(t *testing.T) {
		var p ReceiverPatch
		if !p.IsEmpty() {
			t.Fatal("zero patch should be empty")
		}
		r := NewReceiver("user-1", "Family", 2026)
		before := *r
		p.Apply(r)
		if *r != before {
			t.Errorf("empty patch modified receiver: %+v", r)
		}
	})

	t.Run("only set fields change", func(t *testing.T) {
		received := true
		amount := int64(20)
		p := ReceiverPatch{Received: &received, AmountPerPacket: &amount}
		if p.IsEmpty() {
			t.Fatal("patch should not be empty")
		}

		r := NewReceiver("user-1", "Family", 2026)
		p.Apply(r)

		if !r.Received {
			t.Error("Received not applied")
		}
		if r.AmountPerPacket != 20 {
			t.Errorf("AmountPerPacket = %d, want 20", r.AmountPerPacket)
		}
		if r.Name != "Family" || r.Denomination != 10 || r.Year != 2026 || !r.Eligible {
			t.Errorf("untouched fields changed: %+v", r)
		}
	})

	t.Run("reconcile carries individual normalisation", func(t *testing.T) {
		current := NewReceiver("user-1", "Family", 2026)
		current.RecipientCount = 5

		kind := KindIndividual
		p := ReceiverPatch{Kind: &kind}

		merged := *current
		p.Apply(&merged)
		merged.Normalize()
		p.Reconcile(current, &merged)

		if p.RecipientCount == nil || *p.RecipientCount != 1 {
			t.Fatalf("expected patch to force recipient count 1, got %v", p.RecipientCount)
		}
	})

	t.Run("reconcile overrides explicit count on individual", func(t *testing.T) {
		current := NewReceiver("user-1", "Adik", 2026)
		current.Kind = KindIndividual

		count := 3
		p := ReceiverPatch{RecipientCount: &count}

		merged := *current
		p.Apply(&merged)
		merged.Normalize()
		p.Reconcile(current, &merged)

		if *p.RecipientCount != 1 {
			t.Errorf("RecipientCount = %d, want 1", *p.RecipientCount)
		}
	})
}
