package domain

type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleExpert   UserRole = "expert"
	RoleAdmin    UserRole = "admin"
)
