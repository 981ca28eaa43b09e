package gen

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func BenchmarkCompile(b *testing.B) {
	decls := declarations(b, billingSrc)
	cfg := &Config{Naming: NamingSnakeCase}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, d := range decls {
			for _, f := range Compile(d, cfg).Files {
				if _, err := f.Render(); err != nil {
					b.Fatal(err)
				}
			}
		}
	}
}

func BenchmarkGenerator_Check(b *testing.B) {
	src := Declarations(declarations(b, billingSrc))
	g := NewGenerator(&Config{})
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := g.Check(context.Background(), src)
		require.NoError(b, err)
	}
}

func BenchmarkSnake(b *testing.B) {
	names := []string{"ID", "CashierID", "HTTPServerURL", "already_snake", "ÜberName"}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		for _, n := range names {
			snake(n)
		}
	}
}
