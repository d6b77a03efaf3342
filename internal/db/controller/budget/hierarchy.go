// Package budget manages the budget hierarchy of a club and the budget lines of its mandats.
//
// The hierarchy is TypeBudget, CategoryBudget, SousCategoryBudget and finally RubriqueBudget,
// the only level carrying amounts. Libellés are unique within their parent and a level cannot
// be deleted while it has children.
package budget

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ClubAdmin/ClubAdmin/internal/apperr"
	"github.com/ClubAdmin/ClubAdmin/internal/db/controller/crud"
	"github.com/ClubAdmin/ClubAdmin/internal/db/models"
)

const (
	whatType        = "budget type"
	whatCategory    = "budget category"
	whatSubCategory = "budget sub-category"
)

// TypeInput is the writable part of a budget type.
type TypeInput struct {
	Libelle string `json:"libelle" validate:"required,max=150"`
}

// CategoryInput is the writable part of a category.
type CategoryInput struct {
	TypeBudgetID uuid.UUID `json:"typeBudgetId" validate:"required"`
	Libelle      string    `json:"libelle"      validate:"required,max=150"`
}

// SubCategoryInput is the writable part of a sub-category.
type SubCategoryInput struct {
	CategoryBudgetID uuid.UUID `json:"categoryBudgetId" validate:"required"`
	Libelle          string    `json:"libelle"          validate:"required,max=150"`
}

// categoriesOfClub selects the ids of the categories of a club.
func categoriesOfClub(db *gorm.DB, clubID uuid.UUID) *gorm.DB {
	return db.Model(&models.CategoryBudget{}).Select("category_budgets.id").
		Joins("JOIN type_budgets ON type_budgets.id = category_budgets.type_budget_id").
		Where("type_budgets.club_id = ?", clubID)
}

// subCategoriesOfClub selects the ids of the sub-categories of a club.
func subCategoriesOfClub(db *gorm.DB, clubID uuid.UUID) *gorm.DB {
	return db.Model(&models.SousCategoryBudget{}).Select("id").
		Where("category_budget_id IN (?)", categoriesOfClub(db, clubID))
}

func unique(db *gorm.DB, model any, parentColumn string, parentID uuid.UUID, libelle string, except uuid.UUID) error {
	taken, err := crud.Any(db, model, parentColumn+" = ? AND libelle = ? AND id <> ?", parentID, libelle, except)
	if err != nil {
		return err
	}

	if taken {
		return apperr.Validation("libellé %q already exists", libelle)
	}

	return nil
}

func noChildren(db *gorm.DB, model any, parentColumn string, parentID uuid.UUID, what string) error {
	found, err := crud.Any(db, model, parentColumn+" = ?", parentID)
	if err != nil {
		return err
	}

	if found {
		return apperr.Validation("%s still has children", what)
	}

	return nil
}

// Types lists the budget types of a club.
func Types(db *gorm.DB, clubID uuid.UUID) ([]models.TypeBudget, error) {
	if db == nil {
		return nil, crud.ErrDBNil
	}

	types := []models.TypeBudget{}
	if err := db.Scopes(crud.InClub(clubID)).Order("libelle").Find(&types).Error; err != nil {
		return nil, apperr.Internal(err, "failed to list budget types")
	}

	return types, nil
}

// GetType returns a budget type of a club.
func GetType(db *gorm.DB, clubID, id uuid.UUID) (*models.TypeBudget, error) {
	return crud.Get[models.TypeBudget](db, whatType, id, crud.InClub(clubID))
}

// CreateType adds a budget type.
func CreateType(db *gorm.DB, clubID uuid.UUID, in TypeInput) (*models.TypeBudget, error) {
	if err := crud.Exists(db, &models.Club{}, "club", "id = ?", clubID); err != nil {
		return nil, err
	}

	libelle := strings.TrimSpace(in.Libelle)
	if err := unique(db, &models.TypeBudget{}, "club_id", clubID, libelle, uuid.Nil); err != nil {
		return nil, err
	}

	t := &models.TypeBudget{ClubID: clubID, Libelle: libelle}
	if err := db.Create(t).Error; err != nil {
		return nil, apperr.FromDB(err, whatType)
	}

	return t, nil
}

// UpdateType renames a budget type.
func UpdateType(db *gorm.DB, clubID, id uuid.UUID, in TypeInput) (*models.TypeBudget, error) {
	t, err := GetType(db, clubID, id)
	if err != nil {
		return nil, err
	}

	libelle := strings.TrimSpace(in.Libelle)
	if err = unique(db, &models.TypeBudget{}, "club_id", clubID, libelle, id); err != nil {
		return nil, err
	}

	t.Libelle = libelle
	if err = db.Save(t).Error; err != nil {
		return nil, apperr.FromDB(err, whatType)
	}

	return t, nil
}

// DeleteType removes a budget type without categories.
func DeleteType(db *gorm.DB, clubID, id uuid.UUID) error {
	if _, err := GetType(db, clubID, id); err != nil {
		return err
	}

	if err := noChildren(db, &models.CategoryBudget{}, "type_budget_id", id, whatType); err != nil {
		return err
	}

	return crud.Delete(db, &models.TypeBudget{}, whatType, id)
}

// Categories lists the categories of a club, optionally of one type only.
func Categories(db *gorm.DB, clubID uuid.UUID, typeID *uuid.UUID) ([]models.CategoryBudget, error) {
	if db == nil {
		return nil, crud.ErrDBNil
	}

	tx := db.Where("id IN (?)", categoriesOfClub(db, clubID))
	if typeID != nil {
		tx = tx.Where("type_budget_id = ?", *typeID)
	}

	categories := []models.CategoryBudget{}
	if err := tx.Order("libelle").Find(&categories).Error; err != nil {
		return nil, apperr.Internal(err, "failed to list budget categories")
	}

	return categories, nil
}

// GetCategory returns a category of a club.
func GetCategory(db *gorm.DB, clubID, id uuid.UUID) (*models.CategoryBudget, error) {
	return crud.Get[models.CategoryBudget](db, whatCategory, id, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("id IN (?)", categoriesOfClub(db, clubID))
	})
}

// CreateCategory adds a category below a type of the club.
func CreateCategory(db *gorm.DB, clubID uuid.UUID, in CategoryInput) (*models.CategoryBudget, error) {
	if _, err := GetType(db, clubID, in.TypeBudgetID); err != nil {
		return nil, err
	}

	libelle := strings.TrimSpace(in.Libelle)
	if err := unique(db, &models.CategoryBudget{}, "type_budget_id", in.TypeBudgetID, libelle, uuid.Nil); err != nil {
		return nil, err
	}

	c := &models.CategoryBudget{TypeBudgetID: in.TypeBudgetID, Libelle: libelle}
	if err := db.Create(c).Error; err != nil {
		return nil, apperr.FromDB(err, whatCategory)
	}

	return c, nil
}

// UpdateCategory renames or moves a category within the club.
func UpdateCategory(db *gorm.DB, clubID, id uuid.UUID, in CategoryInput) (*models.CategoryBudget, error) {
	c, err := GetCategory(db, clubID, id)
	if err != nil {
		return nil, err
	}

	if _, err = GetType(db, clubID, in.TypeBudgetID); err != nil {
		return nil, err
	}

	libelle := strings.TrimSpace(in.Libelle)
	if err = unique(db, &models.CategoryBudget{}, "type_budget_id", in.TypeBudgetID, libelle, id); err != nil {
		return nil, err
	}

	c.TypeBudgetID = in.TypeBudgetID
	c.Libelle = libelle

	if err = db.Save(c).Error; err != nil {
		return nil, apperr.FromDB(err, whatCategory)
	}

	return c, nil
}

// DeleteCategory removes a category without sub-categories.
func DeleteCategory(db *gorm.DB, clubID, id uuid.UUID) error {
	if _, err := GetCategory(db, clubID, id); err != nil {
		return err
	}

	if err := noChildren(db, &models.SousCategoryBudget{}, "category_budget_id", id, whatCategory); err != nil {
		return err
	}

	return crud.Delete(db, &models.CategoryBudget{}, whatCategory, id)
}

// SubCategories lists the sub-categories of a club, optionally of one category only.
func SubCategories(db *gorm.DB, clubID uuid.UUID, categoryID *uuid.UUID) ([]models.SousCategoryBudget, error) {
	if db == nil {
		return nil, crud.ErrDBNil
	}

	tx := db.Where("id IN (?)", subCategoriesOfClub(db, clubID))
	if categoryID != nil {
		tx = tx.Where("category_budget_id = ?", *categoryID)
	}

	subs := []models.SousCategoryBudget{}
	if err := tx.Order("libelle").Find(&subs).Error; err != nil {
		return nil, apperr.Internal(err, "failed to list budget sub-categories")
	}

	return subs, nil
}

// GetSubCategory returns a sub-category of a club.
func GetSubCategory(db *gorm.DB, clubID, id uuid.UUID) (*models.SousCategoryBudget, error) {
	return crud.Get[models.SousCategoryBudget](db, whatSubCategory, id, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("id IN (?)", subCategoriesOfClub(db, clubID))
	})
}

// CreateSubCategory adds a sub-category below a category of the club.
func CreateSubCategory(db *gorm.DB, clubID uuid.UUID, in SubCategoryInput) (*models.SousCategoryBudget, error) {
	if _, err := GetCategory(db, clubID, in.CategoryBudgetID); err != nil {
		return nil, err
	}

	libelle := strings.TrimSpace(in.Libelle)
	if err := unique(db, &models.SousCategoryBudget{}, "category_budget_id", in.CategoryBudgetID, libelle, uuid.Nil); err != nil {
		return nil, err
	}

	s := &models.SousCategoryBudget{CategoryBudgetID: in.CategoryBudgetID, Libelle: libelle}
	if err := db.Create(s).Error; err != nil {
		return nil, apperr.FromDB(err, whatSubCategory)
	}

	return s, nil
}

// UpdateSubCategory renames or moves a sub-category within the club.
func UpdateSubCategory(db *gorm.DB, clubID, id uuid.UUID, in SubCategoryInput) (*models.SousCategoryBudget, error) {
	s, err := GetSubCategory(db, clubID, id)
	if err != nil {
		return nil, err
	}

	if _, err = GetCategory(db, clubID, in.CategoryBudgetID); err != nil {
		return nil, err
	}

	libelle := strings.TrimSpace(in.Libelle)
	if err = unique(db, &models.SousCategoryBudget{}, "category_budget_id", in.CategoryBudgetID, libelle, id); err != nil {
		return nil, err
	}

	s.CategoryBudgetID = in.CategoryBudgetID
	s.Libelle = libelle

	if err = db.Save(s).Error; err != nil {
		return nil, apperr.FromDB(err, whatSubCategory)
	}

	return s, nil
}

// DeleteSubCategory removes a sub-category without budget lines.
func DeleteSubCategory(db *gorm.DB, clubID, id uuid.UUID) error {
	if _, err := GetSubCategory(db, clubID, id); err != nil {
		return err
	}

	if err := noChildren(db, &models.RubriqueBudget{}, "sous_category_budget_id", id, whatSubCategory); err != nil {
		return err
	}

	return crud.Delete(db, &models.SousCategoryBudget{}, whatSubCategory, id)
}
