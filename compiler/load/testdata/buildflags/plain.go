package buildflags

//dbcmd:params
type Plain struct {
	Name string
}
