// Package member manages club memberships.
package member

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ClubAdmin/ClubAdmin/internal/apperr"
	"github.com/ClubAdmin/ClubAdmin/internal/db/controller/crud"
	"github.com/ClubAdmin/ClubAdmin/internal/db/models"
	"github.com/ClubAdmin/ClubAdmin/internal/query"
)

const what = "member"

// Sortable are the orderBy values of the member list.
var Sortable = query.Sortable{ //nolint:gochecknoglobals
	"nom":          "users.last_name",
	"prenom":       "users.first_name",
	"email":        "users.email",
	"dateAdhesion": "user_clubs.joined_at",
}

// Member is a user seen through a membership.
type Member struct {
	UserID    uuid.UUID `json:"userId"`
	Username  string    `json:"username"`
	FirstName string    `json:"prenom"`
	LastName  string    `json:"nom"`
	Email     string    `json:"email"`
	Phone     string    `json:"telephone"`
	JoinedAt  time.Time `json:"dateAdhesion"`
}

// Input adds a user to a club.
type Input struct {
	UserID   uuid.UUID  `json:"userId"       validate:"required"`
	JoinedAt *time.Time `json:"dateAdhesion"`
}

func selectMembers(db *gorm.DB, clubID uuid.UUID) *gorm.DB {
	return db.Table("user_clubs").
		Select("users.id AS user_id, users.username, users.first_name, users.last_name, " +
			"users.email, users.phone, user_clubs.joined_at").
		Joins("JOIN users ON users.id = user_clubs.user_id").
		Where("user_clubs.club_id = ?", clubID)
}

// List returns a page of the members of a club.
func List(db *gorm.DB, clubID uuid.UUID, opts query.Options) ([]Member, int64, error) {
	if db == nil {
		return nil, 0, crud.ErrDBNil
	}

	if err := crud.Exists(db, &models.Club{}, "club", "id = ?", clubID); err != nil {
		return nil, 0, err
	}

	members := []Member{}

	tx := opts.Match(selectMembers(db, clubID), "users.last_name", "users.first_name", "users.email")

	total, err := query.Find(tx, opts, &members)
	if err != nil {
		return nil, 0, apperr.Internal(err, "failed to list members")
	}

	return members, total, nil
}

// All returns every member of a club, ordered by name.
func All(db *gorm.DB, clubID uuid.UUID) ([]Member, error) {
	if db == nil {
		return nil, crud.ErrDBNil
	}

	members := []Member{}
	if err := selectMembers(db, clubID).Order("users.last_name, users.first_name").Scan(&members).Error; err != nil {
		return nil, apperr.Internal(err, "failed to list members")
	}

	return members, nil
}

// Get returns one member of a club.
func Get(db *gorm.DB, clubID, userID uuid.UUID) (*Member, error) {
	if db == nil {
		return nil, crud.ErrDBNil
	}

	var members []Member
	if err := selectMembers(db, clubID).Where("user_clubs.user_id = ?", userID).Scan(&members).Error; err != nil {
		return nil, apperr.Internal(err, "failed to load member")
	}

	if len(members) == 0 {
		return nil, apperr.NotFound(what)
	}

	return &members[0], nil
}

// IsMember reports whether userID belongs to clubID.
func IsMember(db *gorm.DB, clubID, userID uuid.UUID) (bool, error) {
	return crud.Any(db, &models.UserClub{}, "club_id = ? AND user_id = ?", clubID, userID)
}

// Require returns a validation error unless userID belongs to clubID.
func Require(db *gorm.DB, clubID, userID uuid.UUID) error {
	ok, err := IsMember(db, clubID, userID)
	if err != nil {
		return err
	}

	if !ok {
		return apperr.Validation("user %s is not a member of the club", userID)
	}

	return nil
}

// Add makes a user member of a club. JoinedAt defaults to now.
func Add(db *gorm.DB, clubID uuid.UUID, in Input) (*Member, error) {
	if db == nil {
		return nil, crud.ErrDBNil
	}

	if err := crud.Exists(db, &models.Club{}, "club", "id = ?", clubID); err != nil {
		return nil, err
	}

	if err := crud.Exists(db, &models.User{}, "user", "id = ?", in.UserID); err != nil {
		return nil, err
	}

	already, err := IsMember(db, clubID, in.UserID)
	if err != nil {
		return nil, err
	}

	if already {
		return nil, apperr.Validation("user is already a member of the club")
	}

	joined := time.Now().UTC()
	if in.JoinedAt != nil {
		joined = *in.JoinedAt
	}

	membership := &models.UserClub{ClubID: clubID, UserID: in.UserID, JoinedAt: joined}
	if err = db.Create(membership).Error; err != nil {
		return nil, apperr.FromDB(err, what)
	}

	return Get(db, clubID, in.UserID)
}

// Remove ends a membership and frees the committee seats the user held in the club.
func Remove(db *gorm.DB, clubID, userID uuid.UUID) error {
	if db == nil {
		return crud.ErrDBNil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("club_id = ? AND user_id = ?", clubID, userID).Delete(&models.UserClub{})
		if res.Error != nil {
			return apperr.FromDB(res.Error, what)
		}

		if res.RowsAffected == 0 {
			return apperr.NotFound(what)
		}

		err := tx.Where("user_id = ? AND mandat_id IN (?)", userID,
			tx.Model(&models.Mandat{}).Select("id").Where("club_id = ?", clubID)).
			Delete(&models.ComiteMembre{}).Error

		return apperr.FromDB(err, "committee seat")
	})
}
