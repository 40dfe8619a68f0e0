// Package payment is the checkout's boundary to whatever collects money.
// The storefront only looks at the returned status.
package payment

import (
	"context"
	"errors"
	"fmt"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
	StatusFailed  Status = "failed"
)

var ErrUnsupportedMethod = errors.New("unsupported payment method")

// Request is one charge. Amount is in VND.
type Request struct {
	Reference string
	Amount    int64
	Method    string
	Recipient string
}

type Result struct {
	Status       Status
	Reference    string
	Instructions []string
}

// Gateway charges a checkout. A failed charge is reported through
// Result.Status; errors mean the gateway could not be reached at all.
type Gateway interface {
	Charge(ctx context.Context, req Request) (*Result, error)
}

// GatewayFunc adapts a function to Gateway.
type GatewayFunc func(ctx context.Context, req Request) (*Result, error)

func (f GatewayFunc) Charge(ctx context.Context, req Request) (*Result, error) {
	return f(ctx, req)
}

// Mux routes a charge to the gateway registered for its method.
type Mux map[string]Gateway

func (m Mux) Charge(ctx context.Context, req Request) (*Result, error) {
	g, ok := m[req.Method]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMethod, req.Method)
	}
	return g.Charge(ctx, req)
}

// CashOnDelivery accepts every order; money changes hands at the door, so
// the charge stays pending.
type CashOnDelivery struct{}

func (CashOnDelivery) Charge(_ context.Context, req Request) (*Result, error) {
	return &Result{
		Status:    StatusPending,
		Reference: req.Reference,
		Instructions: InjectVariables(GetInstructions(MethodCOD), InstructionVars{
			"amount": FormatAmount(req.Amount),
		}),
	}, nil
}

// Simulated settles immediately with a fixed status. It stands in for the
// bank and wallet providers, which are out of scope.
type Simulated struct {
	Method string
	Result Status
}

func (s Simulated) Charge(_ context.Context, req Request) (*Result, error) {
	status := s.Result
	if status == "" {
		status = StatusPaid
	}
	return &Result{
		Status:    status,
		Reference: req.Reference,
		Instructions: InjectVariables(GetInstructions(s.Method), InstructionVars{
			"amount":    FormatAmount(req.Amount),
			"reference": req.Reference,
		}),
	}, nil
}

// Default routes cod, bank_transfer and wallet to the built-in gateways.
func Default() Mux {
	return Mux{
		MethodCOD:          CashOnDelivery{},
		MethodBankTransfer: Simulated{Method: MethodBankTransfer},
		MethodWallet:       Simulated{Method: MethodWallet},
	}
}
