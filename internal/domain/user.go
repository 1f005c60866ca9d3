// Package domain provides definitions of all entities.
package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrDuplicateIdentity indicates that a user with the given identity document already exists.
	ErrDuplicateIdentity = errors.New("ya existe un usuario con este número de identificación")
	// ErrUserNotFound indicates that the user is not found.
	ErrUserNotFound = errors.New("usuario no encontrado")
	// ErrAccountNotFound indicates that no account matches the given account number.
	ErrAccountNotFound = errors.New("cuenta no encontrada")
	// ErrInvalidCredentials indicates that no user matches the given credentials.
	ErrInvalidCredentials = errors.New("no se pudo validar su identidad")
)

// Supported identity document types.
const (
	IDTypeCitizen   = "CC" // cédula de ciudadanía
	IDTypeMinor     = "TI" // tarjeta de identidad
	IDTypeForeigner = "CE" // cédula de extranjería
	IDTypePassport  = "PP" // pasaporte
)

// IDTypeNames maps identity document types to their display names.
var IDTypeNames = map[string]string{
	IDTypeCitizen:   "Cédula de Ciudadanía",
	IDTypeMinor:     "Tarjeta de Identidad",
	IDTypeForeigner: "Cédula de Extranjería",
	IDTypePassport:  "Pasaporte",
}

// IsSupportedIDType reports whether the identity document type is supported.
func IsSupportedIDType(idType string) bool {
	_, ok := IDTypeNames[idType]
	return ok
}

// User holds the account holder profile and banking attributes.
// The surrogate ID is the creation-time timestamp in nanoseconds.
type User struct {
	ID            int64           `json:"id"`
	IDType        string          `json:"id_type"`
	IDNumber      string          `json:"id_number"`
	FirstName     string          `json:"first_name"`
	LastName      string          `json:"last_name"`
	Gender        string          `json:"gender"`
	Phone         string          `json:"phone"`
	Email         string          `json:"email"`
	Address       string          `json:"address"`
	City          string          `json:"city"`
	Password      string          `json:"password"`
	AccountNumber string          `json:"account_number"`
	Balance       decimal.Decimal `json:"balance"`
	CreatedAt     time.Time       `json:"created_at"`
}

// FullName returns the account holder display name.
func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// CreateUserParams holds the profile data needed to register a user.
type CreateUserParams struct {
	IDType    string `json:"id_type"`
	IDNumber  string `json:"id_number"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Gender    string `json:"gender"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Address   string `json:"address"`
	City      string `json:"city"`
	Password  string `json:"password"`
}

// UserWithoutPassword is User data excluding the credential.
type UserWithoutPassword struct {
	ID            int64           `json:"id"`
	IDType        string          `json:"id_type"`
	IDNumber      string          `json:"id_number"`
	FirstName     string          `json:"first_name"`
	LastName      string          `json:"last_name"`
	Gender        string          `json:"gender"`
	Phone         string          `json:"phone"`
	Email         string          `json:"email"`
	Address       string          `json:"address"`
	City          string          `json:"city"`
	AccountNumber string          `json:"account_number"`
	Balance       decimal.Decimal `json:"balance"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Certificate holds the bank certificate data for an account holder.
type Certificate struct {
	HolderName       string    `json:"holder_name"`
	IDTypeName       string    `json:"id_type_name"`
	IDNumber         string    `json:"id_number"`
	AccountNumber    string    `json:"account_number"`
	AccountCreatedAt time.Time `json:"account_created_at"`
	IssuedAt         time.Time `json:"issued_at"`
}
