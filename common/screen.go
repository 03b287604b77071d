package common

// Logical screen size. The default table plus its margins fills it.
const (
	BaseWidth  = 800
	BaseHeight = 480
)
