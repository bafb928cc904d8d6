package component

type Name struct {
	Value string
}

var NameComponent = NewComponent[Name]("")

type HandTag struct{}

var HandTagComponent = NewComponent[HandTag]("")
