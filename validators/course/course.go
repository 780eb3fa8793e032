package courseValidator

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"coursehub/middleware"
)

var validate = validator.New()

type CreateCourseRequest struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description" validate:"required"`
	Price       *float64 `json:"price" validate:"required,gte=0"`
	Level       string   `json:"level" validate:"required"`
	Instructor  string   `json:"instructor" validate:"required"`
	Duration    float64  `json:"duration"`
	Image       string   `json:"image"`
	Rating      float64  `json:"rating"`
}

// UpdateCourseRequest is a patch: zero values mean "keep existing".
type UpdateCourseRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Level       string  `json:"level"`
	Instructor  string  `json:"instructor"`
	Duration    float64 `json:"duration"`
	Image       string  `json:"image"`
	Rating      float64 `json:"rating"`
}

// CreateCourse validator middleware
func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateCourseRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.BadRequest("Invalid request body!")
		}
		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationError(err)
		}
		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

// UpdateCourse validator middleware
func UpdateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateCourseRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.BadRequest("Invalid request body!")
		}
		c.Locals("validatedCourseUpdate", reqData)
		return c.Next()
	}
}

// CourseID validates the :id path parameter and stashes it as a uint.
func CourseID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params("id"), 10, 32)
		if err != nil || id == 0 {
			return middleware.BadRequest("Invalid course id!")
		}
		c.Locals("courseID", uint(id))
		return c.Next()
	}
}
