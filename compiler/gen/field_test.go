package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const transferSrc = `package billing

import "github.com/syssam/dbcmd"

//dbcmd:procedure transfer
type Transfer struct {
	dbcmd.Command[int]
	Amount   int64
	From     string
	To       string
	Memo     string ` + "`db:\"note\"`" + `
	Internal string ` + "`db:\"-\"`" + `
	reason   string
	_        int
}

func NewTransfer(to, from string, _ int, amount int64) Transfer {
	return Transfer{To: to, From: from, Amount: amount}
}

//dbcmd:procedure refund
//dbcmd:naming snake_case
type Refund struct {
	dbcmd.Command[int]
	InvoiceID int64
	reason    string
}

func NewRefund(Reason string, invoiceID int64) *Refund {
	return &Refund{InvoiceID: invoiceID, reason: Reason}
}
`

func params(fields []FieldInfo) []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Param
	}
	return names
}

func TestResolveFields(t *testing.T) {
	t.Run("constructor order first", func(t *testing.T) {
		d := declaration(t, transferSrc, "Transfer")
		require.Equal(t, []string{"to", "from", "amount"}, d.Constructor)

		fields := ResolveFields(d, NamingIdentity)
		assert.Equal(t, []string{"To", "From", "Amount", "note"}, params(fields))
		for _, f := range fields[:3] {
			assert.True(t, f.Positional, f.Name)
		}
		assert.False(t, fields[3].Positional)
		assert.Equal(t, "Memo", fields[3].Name)
		assert.True(t, fields[3].Renamed())
	})

	t.Run("constructor binds unexported fields", func(t *testing.T) {
		d := declaration(t, transferSrc, "Refund")
		fields := ResolveFields(d, NamingSnakeCase)
		require.Len(t, fields, 2)
		assert.Equal(t, FieldInfo{Name: "reason", Param: "reason", Positional: true, Type: fields[0].Type}, fields[0])
		assert.Equal(t, "invoice_id", fields[1].Param)
		assert.True(t, fields[1].Exported)
	})

	t.Run("without constructor", func(t *testing.T) {
		d := declaration(t, billingSrc, "CreateUser")
		assert.Nil(t, d.Constructor)
		fields := ResolveFields(d, NamingUnset)
		assert.Equal(t, []string{"Name", "Email"}, params(fields))
		for _, f := range fields {
			assert.False(t, f.Positional)
			assert.False(t, f.Renamed())
		}
	})

	t.Run("no fields", func(t *testing.T) {
		d := declaration(t, billingSrc, "CountInvoices")
		assert.Empty(t, ResolveFields(d, NamingSnakeCase))
	})
}

func TestResolveFields_Naming(t *testing.T) {
	d := declaration(t, billingSrc, "OpenInvoices")
	for _, p := range []NamingPolicy{NamingUnset, NamingIdentity, NamingSnakeCase} {
		fields := ResolveFields(d, p)
		assert.Equal(t, []string{"cashier"}, params(fields), "tag wins under %s", p)
	}

	d = declaration(t, billingSrc, "InvoiceTotals")
	assert.Equal(t, []string{"cashier_id", "invoice_no", "total_amount"}, params(ResolveFields(d, NamingSnakeCase)))
	assert.Equal(t, []string{"CashierID", "InvoiceNo", "TotalAmount"}, params(ResolveFields(d, NamingIdentity)))
}

func TestEffectivePolicy(t *testing.T) {
	tests := []struct {
		typ, global, want NamingPolicy
	}{
		{NamingUnset, NamingUnset, NamingUnset},
		{NamingUnset, NamingSnakeCase, NamingSnakeCase},
		{NamingIdentity, NamingSnakeCase, NamingIdentity},
		{NamingSnakeCase, NamingIdentity, NamingSnakeCase},
		{NamingSnakeCase, NamingUnset, NamingSnakeCase},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, EffectivePolicy(tt.typ, tt.global), "type %s global %s", tt.typ, tt.global)
	}
}
