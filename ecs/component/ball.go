package component

// Ball tags an entity as a table ball. Kind holds the combat kind tag as a
// raw byte so this package stays free of combat rules.
type Ball struct {
	Kind uint8
}

var BallComponent = NewComponent[Ball]()

