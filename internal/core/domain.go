package core

import (
	"errors"
	"strings"
	"time"
)

type (
	Money struct {
		Cents int64
	}

	// Payment is one logged payment event. Records are immutable once
	// created; there are no update or delete operations.
	Payment struct {
		Client   string
		Service  string
		Amount   Money
		LoggedAt time.Time
	}
)

var (
	ErrEmptyClient    = errors.New("empty client name")
	ErrEmptyService   = errors.New("empty service description")
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrNegativeAmount = errors.New("negative amount")
	ErrZeroTimestamp  = errors.New("timestamp cannot be zero")
)

func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrNegativeAmount
	}
	return nil
}

// NewPayment builds a validated payment stamped at the given time.
func NewPayment(client, service string, amount Money, at time.Time) (Payment, error) {
	p := Payment{
		Client:   strings.TrimSpace(client),
		Service:  strings.TrimSpace(service),
		Amount:   amount,
		LoggedAt: at,
	}
	if err := p.Validate(); err != nil {
		return Payment{}, err
	}
	return p, nil
}

func (p Payment) Validate() error {
	if strings.TrimSpace(p.Client) == "" {
		return ErrEmptyClient
	}
	if len(p.Client) > 200 {
		return errors.New("client name too long (max 200 characters)")
	}
	if strings.TrimSpace(p.Service) == "" {
		return ErrEmptyService
	}
	if len(p.Service) > 200 {
		return errors.New("service description too long (max 200 characters)")
	}
	if err := p.Amount.Validate(); err != nil {
		return err
	}
	if p.LoggedAt.IsZero() {
		return ErrZeroTimestamp
	}
	return nil
}

// YearMonth returns the calendar month bucket of the record, e.g. "2024-01".
func (p Payment) YearMonth() string {
	return p.LoggedAt.Format("2006-01")
}
