package services

import (
	"context"
	"time"

	"autopecas/internal/domain"
	applog "autopecas/internal/log"
)

const (
	BankTransferIBAN         = "AO06 0001 0000 0000 0000 0000 0"
	MsgPaymentNotSupported   = "Payment method not supported."
	MsgPaymentInterrupted    = "Payment was interrupted before completion."
	msgMCXExpressSent        = "Notification sent to your phone via Multicaixa Express. Please confirm the payment in the app."
	msgBankTransferRequested = "Please make the transfer to the IBAN shown and send the receipt by WhatsApp or email."
	msgCardApproved          = "Card payment processed successfully."
)

type PaymentResult struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Reference string `json:"reference,omitempty"`
}

// Payer settles an order with the given method. It always resolves.
type Payer interface {
	Process(ctx context.Context, order domain.Order, method domain.PaymentMethod) PaymentResult
}

// PaymentSimulator stands in for a payment gateway: it waits Delay and
// answers with a canned reference per method.
type PaymentSimulator struct {
	Delay       time.Duration
	CardEnabled bool
}

// Methods lists the methods the simulator accepts.
func (p *PaymentSimulator) Methods() []domain.PaymentMethod {
	out := []domain.PaymentMethod{domain.PaymentMCXExpress, domain.PaymentBankTransfer}
	if p.CardEnabled {
		out = append(out, domain.PaymentCard)
	}
	return out
}

func (p *PaymentSimulator) Process(ctx context.Context, order domain.Order, method domain.PaymentMethod) PaymentResult {
	applog.Info(nil, "payment.start", map[string]any{"order_id": order.ID, "method": string(method), "total": order.Total})
	if err := sleepCtx(ctx, p.Delay); err != nil {
		return PaymentResult{Success: false, Message: MsgPaymentInterrupted}
	}

	switch {
	case method == domain.PaymentMCXExpress:
		return PaymentResult{Success: true, Reference: "MCX-" + token(9), Message: msgMCXExpressSent}
	case method == domain.PaymentBankTransfer:
		return PaymentResult{Success: true, Reference: BankTransferIBAN, Message: msgBankTransferRequested}
	case method == domain.PaymentCard && p.CardEnabled:
		return PaymentResult{Success: true, Reference: "CARD-" + token(9), Message: msgCardApproved}
	default:
		return PaymentResult{Success: false, Message: MsgPaymentNotSupported}
	}
}
