// Package gen compiles command declarations into Go code.
//
// Each declaration goes through the same pipeline:
//
//	ParseMetadata   directives to Metadata
//	ResolveFields   fields to parameter names
//	AnalyzeShape    marker contract to result shape
//	Validate        rules to diagnostics
//	Emit            projector and invocation function
//
// Problems with a declaration are returned as diagnostics, never as errors,
// and only block that declaration. Errors are reserved for failures of the
// environment: configuration, loading and writing.
//
// # Generated code
//
// For a declaration
//
//	//dbcmd:function invoice_totals
//	//dbcmd:naming snake_case
//	type InvoiceTotals struct {
//		dbcmd.Query[[]Total]
//		CashierID int64
//		From      time.Time
//	}
//
// the generator writes invoice_totals_params.go with the projector
//
//	func (x InvoiceTotals) Params() any {
//		return dbcmd.Args{
//			dbcmd.Named("cashier_id", x.CashierID),
//			dbcmd.Named("from", x.From),
//		}
//	}
//
// and invoice_totals_exec.go with the invocation function
//
//	func QueryInvoiceTotals(ctx context.Context, x InvoiceTotals, src sql.Source) ([]Total, error)
//
// which runs sql.Function("invoice_totals(@cashier_id, @from)") through
// sql.QueryList[Total].
//
// # Usage
//
//	set, err := load.Load(ctx, &load.Config{}, "./...")
//	if err != nil {
//		return err
//	}
//	cfg, err := gen.NewConfig(gen.WithNaming(gen.NamingSnakeCase))
//	if err != nil {
//		return err
//	}
//	report, err := gen.NewGenerator(cfg).Run(ctx, set)
package gen
