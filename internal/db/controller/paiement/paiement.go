// Package paiement records membership fee payments.
package paiement

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ClubAdmin/ClubAdmin/internal/apperr"
	"github.com/ClubAdmin/ClubAdmin/internal/db/controller/crud"
	"github.com/ClubAdmin/ClubAdmin/internal/db/controller/member"
	"github.com/ClubAdmin/ClubAdmin/internal/db/models"
	"github.com/ClubAdmin/ClubAdmin/internal/query"
)

const what = "paiement"

// Modes are the accepted payment modes.
var Modes = []string{"especes", "cheque", "virement", "carte"} //nolint:gochecknoglobals

// Sortable are the orderBy values of the payment list.
var Sortable = query.Sortable{ //nolint:gochecknoglobals
	"datePaiement": "paid_at",
	"montant":      "amount",
	"mode":         "mode",
}

// Input records a payment.
type Input struct {
	UserID    uuid.UUID       `json:"userId"       validate:"required"`
	Amount    decimal.Decimal `json:"montant"`
	PaidAt    *time.Time      `json:"datePaiement"`
	Mode      string          `json:"mode"         validate:"max=30"`
	Reference string          `json:"reference"    validate:"max=100"`
}

// MemberTotal is the amount paid by one member.
type MemberTotal struct {
	UserID    uuid.UUID       `json:"userId"`
	FirstName string          `json:"prenom"`
	LastName  string          `json:"nom"`
	Payments  int             `json:"nombrePaiements"`
	Total     decimal.Decimal `json:"total"`
}

// Summary is the total collected by a club.
type Summary struct {
	Total     decimal.Decimal `json:"total"`
	Payments  int             `json:"nombrePaiements"`
	PerMember []MemberTotal   `json:"parMembre"`
}

// List returns a page of the payments of a club, optionally of one member.
func List(db *gorm.DB, clubID uuid.UUID, userID *uuid.UUID, opts query.Options) ([]models.Paiement, int64, error) {
	if err := crud.Exists(db, &models.Club{}, "club", "id = ?", clubID); err != nil {
		return nil, 0, err
	}

	tx := db.Model(&models.Paiement{}).Scopes(crud.InClub(clubID))
	if userID != nil {
		tx = tx.Where("user_id = ?", *userID)
	}

	payments := []models.Paiement{}

	total, err := query.Find(opts.Match(tx, "reference", "mode"), opts, &payments)
	if err != nil {
		return nil, 0, apperr.Internal(err, "failed to list payments")
	}

	return payments, total, nil
}

// Create records a payment by a member. The amount must be positive.
func Create(db *gorm.DB, clubID uuid.UUID, in Input) (*models.Paiement, error) {
	if !in.Amount.IsPositive() {
		return nil, apperr.ValidationFields(map[string]string{"montant": "must be positive"})
	}

	mode := strings.ToLower(strings.TrimSpace(in.Mode))
	if mode != "" && !slices.Contains(Modes, mode) {
		return nil, apperr.ValidationFields(map[string]string{"mode": "must be one of " + strings.Join(Modes, ", ")})
	}

	if err := crud.Exists(db, &models.Club{}, "club", "id = ?", clubID); err != nil {
		return nil, err
	}

	if err := member.Require(db, clubID, in.UserID); err != nil {
		return nil, err
	}

	paid := time.Now().UTC()
	if in.PaidAt != nil {
		paid = *in.PaidAt
	}

	p := &models.Paiement{
		ClubID:    clubID,
		UserID:    in.UserID,
		Amount:    in.Amount,
		PaidAt:    paid,
		Mode:      mode,
		Reference: strings.TrimSpace(in.Reference),
	}
	if err := db.Create(p).Error; err != nil {
		return nil, apperr.FromDB(err, what)
	}

	return p, nil
}

// Delete removes a payment.
func Delete(db *gorm.DB, clubID, id uuid.UUID) error {
	return crud.Delete(db, &models.Paiement{}, what, id, crud.InClub(clubID))
}

// Synthese sums the payments of a club, overall and per member.
func Synthese(db *gorm.DB, clubID uuid.UUID) (*Summary, error) {
	if err := crud.Exists(db, &models.Club{}, "club", "id = ?", clubID); err != nil {
		return nil, err
	}

	var rows []struct {
		UserID    uuid.UUID
		FirstName string
		LastName  string
		Amount    decimal.Decimal
	}

	err := db.Table("paiements").
		Select("paiements.user_id, users.first_name, users.last_name, paiements.amount").
		Joins("LEFT JOIN users ON users.id = paiements.user_id").
		Where("paiements.club_id = ?", clubID).
		Order("users.last_name, users.first_name, paiements.user_id").
		Scan(&rows).Error
	if err != nil {
		return nil, apperr.Internal(err, "failed to load payments")
	}

	s := &Summary{Total: decimal.Zero, Payments: len(rows), PerMember: []MemberTotal{}}

	for _, r := range rows {
		s.Total = s.Total.Add(r.Amount)

		n := len(s.PerMember)
		if n == 0 || s.PerMember[n-1].UserID != r.UserID {
			s.PerMember = append(s.PerMember, MemberTotal{
				UserID: r.UserID, FirstName: r.FirstName, LastName: r.LastName, Total: decimal.Zero,
			})
			n++
		}

		s.PerMember[n-1].Payments++
		s.PerMember[n-1].Total = s.PerMember[n-1].Total.Add(r.Amount)
	}

	return s, nil
}
