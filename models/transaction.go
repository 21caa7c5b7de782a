package models

import (
	"time"

	"gorm.io/gorm"
)

// Transaction types
const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

// SkipNoteTag prefixes the justification stored in Notes when a pending
// transaction is dismissed without being paid.
const SkipNoteTag = "[DISPENSADA]"

// Transaction is a single income or expense record. Recurring bills are
// stored as a hidden template row (IsTemplate=true) from which monthly
// instances are generated; templates never appear in monthly or financial
// views. Date fields are kept as strings in the wire format of the backup
// file: CompetenceMonth "2006-01", DueDate "2006-01-02", CreatedDate and
// PaymentDate as RFC 3339 timestamps.
type Transaction struct {
	ID              string         `json:"id" gorm:"primaryKey;size:36"`
	UserID          uint           `json:"-" gorm:"index;not null"`
	Description     string         `json:"description" gorm:"size:200;not null"`
	Amount          float64        `json:"amount" gorm:"type:decimal(12,2);not null"`
	Type            string         `json:"type" gorm:"size:10;not null;index"`
	CategoryID      string         `json:"categoryId" gorm:"size:36;index"`
	CompetenceMonth string         `json:"competenceMonth" gorm:"size:7;index"`
	DueDate         *string        `json:"dueDate" gorm:"size:10"`
	CreatedDate     string         `json:"createdDate" gorm:"size:35"`
	PaymentDate     *string        `json:"paymentDate" gorm:"size:35"`
	IsPaid          bool           `json:"isPaid" gorm:"default:false"`
	IsSkipped       bool           `json:"isSkipped" gorm:"default:false"`
	IsRecurring     bool           `json:"isRecurring" gorm:"default:false"`
	IsTemplate      bool           `json:"isTemplate" gorm:"default:false;index"`
	TemplateID      string         `json:"templateId,omitempty" gorm:"size:36;index"`
	Notes           string         `json:"notes" gorm:"size:500"`
	CreatedAt       time.Time      `json:"-"`
	UpdatedAt       time.Time      `json:"-"`
	DeletedAt       gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName sets the table name
func (Transaction) TableName() string {
	return "transactions"
}

// IsPending reports whether the transaction still awaits user action.
func (t *Transaction) IsPending() bool {
	return !t.IsPaid && !t.IsSkipped && !t.IsTemplate
}

// Pay marks the transaction as confirmed and stamps the payment date.
func (t *Transaction) Pay(now time.Time) {
	t.IsPaid = true
	paymentDate := now.Format(time.RFC3339)
	t.PaymentDate = &paymentDate
}

// Skip dismisses a pending transaction with a justification instead of
// paying it. The justification is kept in Notes behind a fixed marker tag.
func (t *Transaction) Skip(justification string) {
	t.IsSkipped = true
	t.Notes = SkipNoteTag + " " + justification
}

// ReturnToPending reverts a paid or skipped transaction back to pending.
// The payment date is cleared; notes are cleared only when the record was
// skipped, since they then hold the skip justification rather than user text.
func (t *Transaction) ReturnToPending() {
	if t.IsSkipped {
		t.Notes = ""
	}
	t.IsPaid = false
	t.IsSkipped = false
	t.PaymentDate = nil
}
