// Package gateway abstracts the payment provider behind a single Charge call.
package gateway

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusDeclined  Status = "declined"
	// StatusPending means the provider will report the outcome later via callback.
	StatusPending Status = "pending"
)

type ChargeRequest struct {
	Amount    decimal.Decimal
	Method    string
	Reference string
}

type ChargeResult struct {
	Status        Status
	TransactionID string
}

type Gateway interface {
	Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error)
}

// Demo approves every charge. It stands in for a real provider in
// development and tests.
type Demo struct{}

func (Demo) Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error) {
	if err := ctx.Err(); err != nil {
		return ChargeResult{}, err
	}
	return ChargeResult{Status: StatusSucceeded, TransactionID: "ch_" + hexID(20)}, nil
}

func hexID(n int) string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:n]
}
