package valid

import "github.com/syssam/dbcmd"

// Invoice is a plain record, not a declaration.
type Invoice struct {
	ID     int64
	Amount int64
}

// CreateCashier registers a cashier.
//
//dbcmd:procedure create_cashier
//dbcmd:nonquery
//dbcmd:naming snake_case
//dbcmd:datasource billing
type CreateCashier struct {
	dbcmd.Command[int]

	FullName string
	Email    string `db:"email_address"`
	Note     string `db:"-"`
	audit    string
}

// OpenInvoices lists the open invoices of a cashier.
//
//dbcmd:query SELECT id, amount FROM invoices
//dbcmd:query WHERE cashier_id = @CashierID
type OpenInvoices struct {
	dbcmd.Query[[]Invoice]

	CashierID int64
}

// Money is bound through its constructor.
//
//dbcmd:params
type Money struct {
	Currency string
	amount   int64
	Scale    int
}

// NewMoney returns a Money value.
func NewMoney(amount int64, currency string) Money {
	return Money{Currency: currency, amount: amount}
}

type base struct {
	dbcmd.Query[*Invoice]
}

//dbcmd:function invoice_by_id
type InvoiceByID struct {
	base
	ID int64
}
