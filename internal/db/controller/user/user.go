// Package user manages local accounts and their global roles.
package user

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ClubAdmin/ClubAdmin/internal/apperr"
	"github.com/ClubAdmin/ClubAdmin/internal/db/controller/crud"
	"github.com/ClubAdmin/ClubAdmin/internal/db/models"
	"github.com/ClubAdmin/ClubAdmin/internal/query"
)

const what = "user"

// Sortable are the orderBy values of the user list.
var Sortable = query.Sortable{ //nolint:gochecknoglobals
	"username": "username",
	"nom":      "last_name",
	"prenom":   "first_name",
	"email":    "email",
}

// Input creates an account.
type Input struct {
	Username  string            `json:"username"  validate:"required,min=3,max=100"`
	Email     string            `json:"email"     validate:"required,email,max=255"`
	Password  string            `json:"password"  validate:"required,min=8,max=128"`
	FirstName string            `json:"prenom"    validate:"max=100"`
	LastName  string            `json:"nom"       validate:"max=100"`
	Phone     string            `json:"telephone" validate:"max=30"`
	Roles     []models.RoleName `json:"roles"`
}

// RolesInput replaces the roles of an account.
type RolesInput struct {
	Roles []models.RoleName `json:"roles"`
}

// ActiveInput enables or disables an account.
type ActiveInput struct {
	Active *bool `json:"actif" validate:"required"`
}

// Account is a user with its roles.
type Account struct {
	models.User
	RoleNames []models.RoleName `json:"roles"`
}

// Profile is the caller's own account with its clubs.
type Profile struct {
	Account
	Clubs []models.Club `json:"clubs"`
}

func newAccount(u models.User) Account {
	return Account{User: u, RoleNames: u.RoleNames()}
}

func checkRoles(roles []models.RoleName) error {
	for _, r := range roles {
		if !r.Valid() {
			return apperr.ValidationFields(map[string]string{"roles": "unknown role " + string(r)})
		}
	}

	return nil
}

func dedupe(roles []models.RoleName) []models.UserRole {
	seen := map[models.RoleName]bool{}
	out := make([]models.UserRole, 0, len(roles))

	for _, r := range roles {
		if !seen[r] {
			seen[r] = true

			out = append(out, models.UserRole{Role: r})
		}
	}

	return out
}

// List returns a page of accounts.
func List(db *gorm.DB, opts query.Options) ([]Account, int64, error) {
	if db == nil {
		return nil, 0, crud.ErrDBNil
	}

	var users []models.User

	tx := opts.Match(db.Model(&models.User{}), "username", "email", "last_name", "first_name")

	total, err := query.Find(tx.Preload("Roles"), opts, &users)
	if err != nil {
		return nil, 0, apperr.Internal(err, "failed to list users")
	}

	out := make([]Account, 0, len(users))
	for _, u := range users {
		out = append(out, newAccount(u))
	}

	return out, total, nil
}

// Get returns an account.
func Get(db *gorm.DB, id uuid.UUID) (*Account, error) {
	u, err := crud.Get[models.User](db, what, id, func(tx *gorm.DB) *gorm.DB { return tx.Preload("Roles") })
	if err != nil {
		return nil, err
	}

	a := newAccount(*u)

	return &a, nil
}

// Create adds an account. Username and email are unique.
func Create(db *gorm.DB, in Input) (*Account, error) {
	if db == nil {
		return nil, crud.ErrDBNil
	}

	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if err := checkRoles(in.Roles); err != nil {
		return nil, err
	}

	taken, err := crud.Any(db, &models.User{}, "username = ? OR email = ?", in.Username, in.Email)
	if err != nil {
		return nil, err
	}

	if taken {
		return nil, apperr.Validation("username or email already in use")
	}

	hash, err := models.HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Internal(err, "failed to hash password")
	}

	u := &models.User{
		Username:  in.Username,
		Email:     in.Email,
		Password:  hash,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Phone:     in.Phone,
		Active:    true,
		Roles:     dedupe(in.Roles),
	}
	if err = db.Create(u).Error; err != nil {
		return nil, apperr.FromDB(err, what)
	}

	return Get(db, u.ID)
}

// SetRoles replaces the global roles of an account.
func SetRoles(db *gorm.DB, id uuid.UUID, in RolesInput) (*Account, error) {
	if err := checkRoles(in.Roles); err != nil {
		return nil, err
	}

	if _, err := Get(db, id); err != nil {
		return nil, err
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.UserRole{}).Error; err != nil {
			return err //nolint:wrapcheck
		}

		roles := dedupe(in.Roles)
		if len(roles) == 0 {
			return nil
		}

		for i := range roles {
			roles[i].UserID = id
		}

		return tx.Create(&roles).Error
	})
	if err != nil {
		return nil, apperr.FromDB(err, "role")
	}

	return Get(db, id)
}

// SetActive enables or disables an account.
func SetActive(db *gorm.DB, id uuid.UUID, active bool) (*Account, error) {
	if _, err := Get(db, id); err != nil {
		return nil, err
	}

	if err := db.Model(&models.User{}).Where("id = ?", id).Update("active", active).Error; err != nil {
		return nil, apperr.FromDB(err, what)
	}

	return Get(db, id)
}

// Me returns the account of id with the clubs it belongs to.
func Me(db *gorm.DB, id uuid.UUID) (*Profile, error) {
	a, err := Get(db, id)
	if err != nil {
		return nil, err
	}

	clubs := []models.Club{}

	err = db.Joins("JOIN user_clubs ON user_clubs.club_id = clubs.id AND user_clubs.user_id = ?", id).
		Order("clubs.name").
		Find(&clubs).Error
	if err != nil {
		return nil, apperr.Internal(err, "failed to load clubs")
	}

	return &Profile{Account: *a, Clubs: clubs}, nil
}

// EnsureAdmin creates the first administrator when the user table is empty.
// It reports whether an account was created.
func EnsureAdmin(db *gorm.DB, username, password, email string) (bool, error) {
	if db == nil {
		return false, crud.ErrDBNil
	}

	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return false, apperr.Internal(err, "failed to count users")
	}

	if count > 0 {
		return false, nil
	}

	_, err := Create(db, Input{
		Username: username,
		Email:    email,
		Password: password,
		Roles:    []models.RoleName{models.RoleAdmin},
	})
	if err != nil {
		return false, err
	}

	return true, nil
}
