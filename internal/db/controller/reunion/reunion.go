// Package reunion manages club meetings, their agenda and the broadcast of their minutes.
package reunion

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ClubAdmin/ClubAdmin/internal/apperr"
	"github.com/ClubAdmin/ClubAdmin/internal/db/controller/crud"
	"github.com/ClubAdmin/ClubAdmin/internal/db/controller/member"
	"github.com/ClubAdmin/ClubAdmin/internal/db/models"
	"github.com/ClubAdmin/ClubAdmin/internal/notify"
	"github.com/ClubAdmin/ClubAdmin/internal/query"
)

const (
	what     = "reunion"
	whatItem = "agenda item"
)

// Sortable are the orderBy values of the meeting list.
var Sortable = query.Sortable{ //nolint:gochecknoglobals
	"date": "date",
	"type": "type",
	"lieu": "place",
}

// Input is the writable part of a meeting.
type Input struct {
	Date    time.Time `json:"date"        validate:"required"`
	Type    string    `json:"type"        validate:"required,max=50"`
	Place   string    `json:"lieu"        validate:"max=255"`
	Summary string    `json:"compteRendu"`
	Version int       `json:"version"`
}

// ItemInput is the writable part of an agenda item.
type ItemInput struct {
	Position    int    `json:"ordre"       validate:"min=0"`
	Title       string `json:"titre"       validate:"required,max=200"`
	Description string `json:"description"`
}

// Detail is a meeting with its agenda.
type Detail struct {
	models.Reunion
	Items []models.OrdreDuJour `json:"ordresDuJour"`
}

func ofReunion(id uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Where("reunion_id = ?", id)
	}
}

// List returns a page of the meetings of a club.
func List(db *gorm.DB, clubID uuid.UUID, opts query.Options) ([]models.Reunion, int64, error) {
	if err := crud.Exists(db, &models.Club{}, "club", "id = ?", clubID); err != nil {
		return nil, 0, err
	}

	reunions := []models.Reunion{}

	total, err := query.Find(opts.Match(db.Model(&models.Reunion{}).Scopes(crud.InClub(clubID)), "type", "place"), opts, &reunions)
	if err != nil {
		return nil, 0, apperr.Internal(err, "failed to list meetings")
	}

	return reunions, total, nil
}

// Get returns a meeting of a club with its agenda.
func Get(db *gorm.DB, clubID, id uuid.UUID) (*Detail, error) {
	r, err := crud.Get[models.Reunion](db, what, id, crud.InClub(clubID))
	if err != nil {
		return nil, err
	}

	items := []models.OrdreDuJour{}
	if err = db.Scopes(ofReunion(id)).Order("position").Find(&items).Error; err != nil {
		return nil, apperr.Internal(err, "failed to load agenda")
	}

	return &Detail{Reunion: *r, Items: items}, nil
}

// Create adds a meeting.
func Create(db *gorm.DB, clubID uuid.UUID, in Input) (*models.Reunion, error) {
	if err := crud.Exists(db, &models.Club{}, "club", "id = ?", clubID); err != nil {
		return nil, err
	}

	r := &models.Reunion{
		ClubID:  clubID,
		Date:    in.Date,
		Type:    strings.TrimSpace(in.Type),
		Place:   in.Place,
		Summary: in.Summary,
		Version: 1,
	}
	if err := db.Create(r).Error; err != nil {
		return nil, apperr.FromDB(err, what)
	}

	return r, nil
}

// Update replaces a meeting if in.Version is current.
func Update(db *gorm.DB, clubID, id uuid.UUID, in Input) (*Detail, error) {
	if _, err := crud.Get[models.Reunion](db, what, id, crud.InClub(clubID)); err != nil {
		return nil, err
	}

	err := crud.UpdateVersioned(db, &models.Reunion{}, what, id, in.Version, map[string]any{
		"date":    in.Date,
		"type":    strings.TrimSpace(in.Type),
		"place":   in.Place,
		"summary": in.Summary,
	})
	if err != nil {
		return nil, err
	}

	return Get(db, clubID, id)
}

// Delete removes a meeting and its agenda.
func Delete(db *gorm.DB, clubID, id uuid.UUID) error {
	if _, err := crud.Get[models.Reunion](db, what, id, crud.InClub(clubID)); err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Scopes(ofReunion(id)).Delete(&models.OrdreDuJour{}).Error; err != nil {
			return apperr.FromDB(err, whatItem)
		}

		return crud.Delete(tx, &models.Reunion{}, what, id)
	})
}

// AddItem appends an agenda item. A zero position puts it last.
func AddItem(db *gorm.DB, clubID, reunionID uuid.UUID, in ItemInput) (*models.OrdreDuJour, error) {
	if _, err := crud.Get[models.Reunion](db, what, reunionID, crud.InClub(clubID)); err != nil {
		return nil, err
	}

	position := in.Position
	if position == 0 {
		var last sql.NullInt64
		if err := db.Model(&models.OrdreDuJour{}).Scopes(ofReunion(reunionID)).
			Select("MAX(position)").Scan(&last).Error; err != nil {
			return nil, apperr.Internal(err, "failed to read agenda")
		}

		position = int(last.Int64) + 1
	}

	item := &models.OrdreDuJour{
		ReunionID:   reunionID,
		Position:    position,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
	}
	if err := db.Create(item).Error; err != nil {
		return nil, apperr.FromDB(err, whatItem)
	}

	return item, nil
}

// DeleteItem removes an agenda item.
func DeleteItem(db *gorm.DB, clubID, reunionID, id uuid.UUID) error {
	if _, err := crud.Get[models.Reunion](db, what, reunionID, crud.InClub(clubID)); err != nil {
		return err
	}

	return crud.Delete(db, &models.OrdreDuJour{}, whatItem, id, ofReunion(reunionID))
}

// SendSummary sends the minutes of a meeting to every club member reachable on ch, the email
// address or the WhatsApp number, one message at a time with delay between two sends.
func SendSummary(
	ctx context.Context, db *gorm.DB, sender notify.Sender, delay time.Duration, clubID, id uuid.UUID, ch notify.Channel,
) (*notify.Result, error) {
	r, err := Get(db, clubID, id)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(r.Summary) == "" {
		return nil, apperr.Validation("the meeting has no minutes")
	}

	club, err := crud.Get[models.Club](db, "club", clubID)
	if err != nil {
		return nil, err
	}

	members, err := member.All(db, clubID)
	if err != nil {
		return nil, err
	}

	subject := fmt.Sprintf("%s - compte rendu de la réunion du %s", club.Name, r.Date.Format("02/01/2006"))
	body := Body(r)

	msgs := make([]notify.Message, 0, len(members))
	for _, m := range members {
		msg := notify.Message{Channel: ch, Subject: subject, Body: body}

		switch ch {
		case notify.ChannelEmail:
			msg.To = m.Email
		case notify.ChannelWhatsApp:
			// no subject line on WhatsApp
			msg.To = m.Phone
			msg.Subject = ""
			msg.Body = subject + "\n\n" + body
		default:
			return nil, apperr.Validation("unknown channel %q", ch)
		}

		if msg.To == "" {
			continue
		}

		msgs = append(msgs, msg)
	}

	res := notify.Broadcast(ctx, sender, msgs, delay)

	return &res, nil
}

// Body renders the plain text minutes of a meeting.
func Body(r *Detail) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Réunion %s du %s", r.Type, r.Date.Format("02/01/2006 15:04"))

	if r.Place != "" {
		fmt.Fprintf(&b, " (%s)", r.Place)
	}

	b.WriteString("\n\n")

	if len(r.Items) > 0 {
		b.WriteString("Ordre du jour:\n")

		for _, item := range r.Items {
			fmt.Fprintf(&b, "%d. %s\n", item.Position, item.Title)
		}

		b.WriteString("\n")
	}

	b.WriteString(r.Summary)

	return b.String()
}
