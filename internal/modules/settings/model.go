package settings

// Well-known setting keys read by other modules.
const (
	KeyCommissionRate = "commissionRate"
	KeyAllowBargain   = "allowBargain"
)

// Defaults applied when a key is absent or unparsable.
const (
	DefaultCommissionRate = 10.0
	DefaultAllowBargain   = true
)
