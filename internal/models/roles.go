package models

// RoleUser is granted to every mobile account.
const RoleUser = "user"
