package numext

const (
	// Name is the extension name reported by describe.
	Name = "numext"
	// Version of the extension.
	Version = "0.1.0"
	// ABIVersion changes whenever an exported symbol or struct layout changes.
	ABIVersion = 1
)
