package model

type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "CASH"
	PaymentMethodTransfer PaymentMethod = "TRANSFER"
	PaymentMethodCard     PaymentMethod = "CARD"
	PaymentMethodCredit   PaymentMethod = "CREDIT"
)

type PaymentStatus string

const (
	PaymentStatusRegistered PaymentStatus = "REGISTERED"
)

// Payment holds the freight charges invoiced to the BL holder at arrival notice.
// Its id is the id of the bill of lading it belongs to.
type Payment struct {
	ID      string        `json:"id"`
	Version int64         `json:"version"`
	Status  PaymentStatus `json:"status"`

	From          Party         `json:"from"`
	To            *Party        `json:"to,omitempty"`
	IssueDate     *Date         `json:"issue_date,omitempty"`
	DueDate       *Date         `json:"due_date,omitempty"`
	InvoiceNumber string        `json:"invoice_number,omitempty"`
	Subject       string        `json:"subject,omitempty"`
	References    []string      `json:"references,omitempty"`
	Exchange      string        `json:"exchange,omitempty"`
	Charges       []Charge      `json:"charges,omitempty"`
	Subtotal      *Decimal      `json:"subtotal,omitempty"`
	Taxes         *Decimal      `json:"taxes,omitempty"`
	Total         *Decimal      `json:"total,omitempty"`
	PaymentMethod PaymentMethod `json:"payment_method,omitempty"`
	BankAccount   string        `json:"bank_account,omitempty"`
	Bank          *Party        `json:"bank,omitempty"`

	PaymentDate         *Date  `json:"payment_date,omitempty"`          // Date confirmed by the bank.
	NotifiedPaymentDate *Date  `json:"notified_payment_date,omitempty"` // Date notified by the BL holder.
	ProofOfPayment      string `json:"proof_of_payment,omitempty"`

	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`
}

// Cleared tells whether the payment allows the cargo to be released.
func (p *Payment) Cleared() bool {
	if p == nil {
		return false
	}
	return p.PaymentMethod == PaymentMethodCredit || p.PaymentDate != nil
}
