package sql

import (
	"testing"

	"github.com/syssam/dbcmd"
	"github.com/syssam/dbcmd/dialect"
)

type benchBag struct {
	CashierID int64
	InvoiceNo string
	Amount    int64
	note      string
}

func BenchmarkBind_Struct(b *testing.B) {
	bag := benchBag{CashierID: 7, InvoiceNo: "A-1", Amount: 100, note: "x"}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := Bind(bag); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkBind_Args(b *testing.B) {
	bag := dbcmd.Args{dbcmd.Named("cashier_id", 7), dbcmd.Named("amount", 100)}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := Bind(bag); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkRebind(b *testing.B) {
	const query = `SELECT id, amount FROM invoices
WHERE cashier_id = @CashierID AND invoice_no = @InvoiceNo -- @ignored
AND amount > @Amount AND note <> '@literal' AND cashier_id <> @CashierID`
	args, err := Bind(benchBag{CashierID: 7, InvoiceNo: "A-1", Amount: 100})
	if err != nil {
		b.Fatal(err)
	}
	for _, d := range []string{dialect.SQLite, dialect.MySQL, dialect.Postgres} {
		b.Run(d, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, _, err := rebind(d, query, args); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkCommand_Render(b *testing.B) {
	cmd := Procedure("billing.create_invoice", "cashier_id", "invoice_no", "amount")
	for _, d := range []string{dialect.MySQL, dialect.Postgres} {
		b.Run(d, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := cmd.render(d, false); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
