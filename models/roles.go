package models

// Account roles carried in the JWT
const (
	RoleStartup  = "STARTUP"
	RoleInvestor = "INVESTOR"
)
