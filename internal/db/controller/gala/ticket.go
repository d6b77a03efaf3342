package gala

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ClubAdmin/ClubAdmin/internal/apperr"
	"github.com/ClubAdmin/ClubAdmin/internal/db/controller/crud"
	"github.com/ClubAdmin/ClubAdmin/internal/db/controller/member"
	"github.com/ClubAdmin/ClubAdmin/internal/db/models"
)

const whatTicket = "ticket"

// TicketInput is one ticket purchase, by a club member or an external buyer.
// UnitPrice defaults to the ticket price of the gala.
type TicketInput struct {
	UserID       *uuid.UUID       `json:"userId"`
	ExternalName string           `json:"nomExterne"   validate:"max=200"`
	Quantity     int              `json:"quantite"     validate:"required,min=1"`
	UnitPrice    *decimal.Decimal `json:"prixUnitaire"`
	PurchasedAt  *time.Time       `json:"dateAchat"`
}

// TicketSummary aggregates the ticket sales of a gala.
type TicketSummary struct {
	GalaID       uuid.UUID       `json:"galaId"`
	Purchases    int             `json:"nombreAchats"`
	TicketsSold  int             `json:"ticketsVendus"`
	MemberSold   int             `json:"ticketsMembres"`
	ExternalSold int             `json:"ticketsExternes"`
	Revenue      decimal.Decimal `json:"recette"`
}

// Tickets lists the ticket purchases of a gala, latest first.
func Tickets(db *gorm.DB, clubID, galaID uuid.UUID) ([]models.GalaTicket, error) {
	if _, err := Get(db, clubID, galaID); err != nil {
		return nil, err
	}

	tickets := []models.GalaTicket{}
	if err := db.Scopes(ofGala(galaID)).Order("purchased_at DESC").Find(&tickets).Error; err != nil {
		return nil, apperr.Internal(err, "failed to list tickets")
	}

	return tickets, nil
}

func createTicket(db *gorm.DB, clubID uuid.UUID, g *models.Gala, in TicketInput) (*models.GalaTicket, error) {
	in.ExternalName = strings.TrimSpace(in.ExternalName)

	switch {
	case in.UserID == nil && in.ExternalName == "":
		return nil, apperr.Validation("either userId or nomExterne is required")
	case in.UserID != nil && in.ExternalName != "":
		return nil, apperr.Validation("userId and nomExterne are exclusive")
	case in.Quantity < 1:
		return nil, apperr.ValidationFields(map[string]string{"quantite": "must be at least 1"})
	}

	if in.UserID != nil {
		if err := member.Require(db, clubID, *in.UserID); err != nil {
			return nil, err
		}
	}

	price := g.TicketPrice
	if in.UnitPrice != nil {
		if in.UnitPrice.IsNegative() {
			return nil, apperr.ValidationFields(map[string]string{"prixUnitaire": "must not be negative"})
		}

		price = *in.UnitPrice
	}

	at := time.Now().UTC()
	if in.PurchasedAt != nil {
		at = *in.PurchasedAt
	}

	t := &models.GalaTicket{
		GalaID:       g.ID,
		UserID:       in.UserID,
		ExternalName: in.ExternalName,
		Quantity:     in.Quantity,
		UnitPrice:    price,
		PurchasedAt:  at,
	}
	if err := db.Create(t).Error; err != nil {
		return nil, apperr.FromDB(err, whatTicket)
	}

	return t, nil
}

// CreateTickets records each purchase independently and reports a result per item.
func CreateTickets(db *gorm.DB, clubID, galaID uuid.UUID, items []TicketInput) ([]BatchResult[models.GalaTicket], error) {
	g, err := Get(db, clubID, galaID)
	if err != nil {
		return nil, err
	}

	results := make([]BatchResult[models.GalaTicket], 0, len(items))

	for i, in := range items {
		t, err := createTicket(db, clubID, g, in)
		if err != nil {
			if apperr.KindOf(err) == apperr.KindInternal {
				return nil, err
			}

			msg, fields := apperr.Public(err)
			results = append(results, BatchResult[models.GalaTicket]{Index: i, Error: msg, Fields: fields})

			continue
		}

		results = append(results, BatchResult[models.GalaTicket]{Index: i, OK: true, Item: t})
	}

	return results, nil
}

// DeleteTicket removes a purchase.
func DeleteTicket(db *gorm.DB, clubID, galaID, id uuid.UUID) error {
	if _, err := Get(db, clubID, galaID); err != nil {
		return err
	}

	return crud.Delete(db, &models.GalaTicket{}, whatTicket, id, ofGala(galaID))
}

// TicketSynthese sums the sales of a gala. Revenue is the sum of quantity times unit price.
func TicketSynthese(db *gorm.DB, clubID, galaID uuid.UUID) (*TicketSummary, error) {
	tickets, err := Tickets(db, clubID, galaID)
	if err != nil {
		return nil, err
	}

	s := &TicketSummary{GalaID: galaID, Purchases: len(tickets), Revenue: decimal.Zero}

	for _, t := range tickets {
		s.TicketsSold += t.Quantity
		s.Revenue = s.Revenue.Add(t.UnitPrice.Mul(decimal.NewFromInt(int64(t.Quantity))))

		if t.UserID != nil {
			s.MemberSold += t.Quantity
		} else {
			s.ExternalSold += t.Quantity
		}
	}

	return s, nil
}
