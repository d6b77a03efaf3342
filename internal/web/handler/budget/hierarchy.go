package budget

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ClubAdmin/ClubAdmin/internal/access"
	controller "github.com/ClubAdmin/ClubAdmin/internal/db/controller/budget"
	"github.com/ClubAdmin/ClubAdmin/internal/web/handler"
)

// Types lists the budget types of the club.
func (s *Service) Types(c *fiber.Ctx) error {
	types, err := controller.Types(s.db, access.ClubID(c))
	if err != nil {
		return err
	}

	return c.JSON(types)
}

// GetType returns one budget type.
func (s *Service) GetType(c *fiber.Ctx) error {
	id, err := handler.UUIDParam(c, "id")
	if err != nil {
		return err
	}

	t, err := controller.GetType(s.db, access.ClubID(c), id)
	if err != nil {
		return err
	}

	return c.JSON(t)
}

// CreateType adds a budget type.
func (s *Service) CreateType(c *fiber.Ctx) error {
	var in controller.TypeInput
	if err := handler.Bind(c, s.validator, &in); err != nil {
		return err
	}

	t, err := controller.CreateType(s.db, access.ClubID(c), in)
	if err != nil {
		return err
	}

	return handler.Created(c, t)
}

// UpdateType renames a budget type.
func (s *Service) UpdateType(c *fiber.Ctx) error {
	id, err := handler.UUIDParam(c, "id")
	if err != nil {
		return err
	}

	var in controller.TypeInput
	if err = handler.Bind(c, s.validator, &in); err != nil {
		return err
	}

	t, err := controller.UpdateType(s.db, access.ClubID(c), id, in)
	if err != nil {
		return err
	}

	return c.JSON(t)
}

// DeleteType removes a budget type without categories.
func (s *Service) DeleteType(c *fiber.Ctx) error {
	id, err := handler.UUIDParam(c, "id")
	if err != nil {
		return err
	}

	if err = controller.DeleteType(s.db, access.ClubID(c), id); err != nil {
		return err
	}

	return handler.NoContent(c)
}

// Categories lists the categories of the club.
func (s *Service) Categories(c *fiber.Ctx) error {
	typeID, err := handler.UUIDQuery(c, "typeBudgetId")
	if err != nil {
		return err
	}

	categories, err := controller.Categories(s.db, access.ClubID(c), typeID)
	if err != nil {
		return err
	}

	return c.JSON(categories)
}

// GetCategory returns one category.
func (s *Service) GetCategory(c *fiber.Ctx) error {
	id, err := handler.UUIDParam(c, "id")
	if err != nil {
		return err
	}

	category, err := controller.GetCategory(s.db, access.ClubID(c), id)
	if err != nil {
		return err
	}

	return c.JSON(category)
}

// CreateCategory adds a category.
func (s *Service) CreateCategory(c *fiber.Ctx) error {
	var in controller.CategoryInput
	if err := handler.Bind(c, s.validator, &in); err != nil {
		return err
	}

	category, err := controller.CreateCategory(s.db, access.ClubID(c), in)
	if err != nil {
		return err
	}

	return handler.Created(c, category)
}

// UpdateCategory renames or moves a category.
func (s *Service) UpdateCategory(c *fiber.Ctx) error {
	id, err := handler.UUIDParam(c, "id")
	if err != nil {
		return err
	}

	var in controller.CategoryInput
	if err = handler.Bind(c, s.validator, &in); err != nil {
		return err
	}

	category, err := controller.UpdateCategory(s.db, access.ClubID(c), id, in)
	if err != nil {
		return err
	}

	return c.JSON(category)
}

// DeleteCategory removes a category without sub-categories.
func (s *Service) DeleteCategory(c *fiber.Ctx) error {
	id, err := handler.UUIDParam(c, "id")
	if err != nil {
		return err
	}

	if err = controller.DeleteCategory(s.db, access.ClubID(c), id); err != nil {
		return err
	}

	return handler.NoContent(c)
}

// SubCategories lists the sub-categories of the club.
func (s *Service) SubCategories(c *fiber.Ctx) error {
	categoryID, err := handler.UUIDQuery(c, "categoryBudgetId")
	if err != nil {
		return err
	}

	subs, err := controller.SubCategories(s.db, access.ClubID(c), categoryID)
	if err != nil {
		return err
	}

	return c.JSON(subs)
}

// GetSubCategory returns one sub-category.
func (s *Service) GetSubCategory(c *fiber.Ctx) error {
	id, err := handler.UUIDParam(c, "id")
	if err != nil {
		return err
	}

	sub, err := controller.GetSubCategory(s.db, access.ClubID(c), id)
	if err != nil {
		return err
	}

	return c.JSON(sub)
}

// CreateSubCategory adds a sub-category.
func (s *Service) CreateSubCategory(c *fiber.Ctx) error {
	var in controller.SubCategoryInput
	if err := handler.Bind(c, s.validator, &in); err != nil {
		return err
	}

	sub, err := controller.CreateSubCategory(s.db, access.ClubID(c), in)
	if err != nil {
		return err
	}

	return handler.Created(c, sub)
}

// UpdateSubCategory renames or moves a sub-category.
func (s *Service) UpdateSubCategory(c *fiber.Ctx) error {
	id, err := handler.UUIDParam(c, "id")
	if err != nil {
		return err
	}

	var in controller.SubCategoryInput
	if err = handler.Bind(c, s.validator, &in); err != nil {
		return err
	}

	sub, err := controller.UpdateSubCategory(s.db, access.ClubID(c), id, in)
	if err != nil {
		return err
	}

	return c.JSON(sub)
}

// DeleteSubCategory removes a sub-category without rubriques.
func (s *Service) DeleteSubCategory(c *fiber.Ctx) error {
	id, err := handler.UUIDParam(c, "id")
	if err != nil {
		return err
	}

	if err = controller.DeleteSubCategory(s.db, access.ClubID(c), id); err != nil {
		return err
	}

	return handler.NoContent(c)
}
