package failure

//dbcmd:params
type Broken struct {
	Name undefinedType
}
