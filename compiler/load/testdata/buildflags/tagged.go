//go:build reports

package buildflags

//dbcmd:query SELECT 1
type Tagged struct{}
