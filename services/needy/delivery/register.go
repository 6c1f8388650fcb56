package delivery

import (
	"github.com/asaskevich/govalidator"
	"github.com/gofiber/fiber/v2"

	"needy/domain"
	"needy/middleware"
)

type registerHandler struct {
	ruc domain.RegisterUseCase
	suc domain.StatsUseCase
}

func NewRegisterDelivery(app *fiber.App, ruc domain.RegisterUseCase, suc domain.StatsUseCase) {
	handler := &registerHandler{
		ruc: ruc,
		suc: suc,
	}

	staff := []fiber.Handler{middleware.AuthRequired(), middleware.RoleRequired(domain.RoleAdmin, domain.RoleGroupAdmin)}
	route := app.Group("/needy")
	route.Post("/signin", handler.SigninRegister)
	route.Post("/signup", append(staff, handler.CreateRegister)...)
	route.Post("/edit/:id", append(staff, handler.EditRegister)...)
	route.Delete("/:id", append(staff, handler.DeleteRegister)...)
	route.Get("/find", append(staff, handler.FindRegisters)...)
	route.Get("/map", append(staff, handler.ConnectedMap)...)
	route.Get("/map/disconnected", append(staff, handler.DisconnectedMap)...)
	route.Get("/info", append(staff, handler.InfoRegisters)...)
	route.Get("/stats", append(staff, handler.RegisterStats)...)
	route.Get("/:id", append(staff, handler.GetRegister)...)
}

func (rh *registerHandler) CreateRegister(c *fiber.Ctx) error {
	_, user := caller(c)

	var req domain.RegisterPayload
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, user, "CreateRegister", "Invalid request body", err)
	}
	if _, err := govalidator.ValidateStruct(req); err != nil {
		return badRequest(c, user, "CreateRegister", "Validation failed", err)
	}
	if req.CreatedBy == nil {
		req.CreatedBy = callerID(c)
	}

	reg, err := rh.ruc.CreateRegister(c.Context(), &req)
	if err != nil {
		return failWith(c, user, "CreateRegister", "Failed to register needy person", err)
	}
	return succeed(c, user, "CreateRegister", fiber.StatusCreated, "Needy person registered successfully", reg)
}

func (rh *registerHandler) EditRegister(c *fiber.Ctx) error {
	_, user := caller(c)

	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, user, "EditRegister", "Invalid needy id", err)
	}
	var req domain.RegisterPayload
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, user, "EditRegister", "Invalid request body", err)
	}
	if _, err := govalidator.ValidateStruct(req); err != nil {
		return badRequest(c, user, "EditRegister", "Validation failed", err)
	}

	reg, err := rh.ruc.EditRegister(c.Context(), id, &req)
	if err != nil {
		return failWith(c, user, "EditRegister", "Failed to update needy person", err)
	}
	return succeed(c, user, "EditRegister", fiber.StatusOK, "Needy person updated successfully", reg)
}

func (rh *registerHandler) DeleteRegister(c *fiber.Ctx) error {
	_, user := caller(c)

	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, user, "DeleteRegister", "Invalid needy id", err)
	}
	if err := rh.ruc.DeleteRegister(c.Context(), id); err != nil {
		return failWith(c, user, "DeleteRegister", "Failed to delete needy person", err)
	}
	return succeed(c, user, "DeleteRegister", fiber.StatusOK, "Needy person deleted successfully", nil)
}

func (rh *registerHandler) GetRegister(c *fiber.Ctx) error {
	_, user := caller(c)

	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, user, "GetRegister", "Invalid needy id", err)
	}
	detail, err := rh.ruc.GetRegister(c.Context(), id)
	if err != nil {
		return failWith(c, user, "GetRegister", "Failed to retrieve needy person", err)
	}
	return succeed(c, user, "GetRegister", fiber.StatusOK, "Needy person retrieved successfully", detail)
}

func (rh *registerHandler) FindRegisters(c *fiber.Ctx) error {
	_, user := caller(c)

	var filter domain.RegisterFilter
	if err := c.QueryParser(&filter); err != nil {
		return badRequest(c, user, "FindRegisters", "Invalid query", err)
	}
	regs, err := rh.ruc.FindRegisters(c.Context(), &filter)
	if err != nil {
		return failWith(c, user, "FindRegisters", "Failed to search needy persons", err)
	}
	return succeed(c, user, "FindRegisters", fiber.StatusOK, "Needy persons retrieved successfully", regs)
}

// SigninRegister is public: a needy person identifies with their phone.
func (rh *registerHandler) SigninRegister(c *fiber.Ctx) error {
	var req domain.SigninRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, nil, "SigninRegister", "Invalid request body", err)
	}
	if _, err := govalidator.ValidateStruct(req); err != nil {
		return badRequest(c, nil, "SigninRegister", "Validation failed", err)
	}

	res, err := rh.ruc.SigninRegister(c.Context(), req.Phone)
	if err != nil {
		return failWith(c, nil, "SigninRegister", "Needy person not found", err)
	}
	return succeed(c, nil, "SigninRegister", fiber.StatusOK, "Signed in successfully", res)
}

func (rh *registerHandler) ConnectedMap(c *fiber.Ctx) error {
	return rh.needyMap(c, false, "ConnectedMap")
}

func (rh *registerHandler) DisconnectedMap(c *fiber.Ctx) error {
	return rh.needyMap(c, true, "DisconnectedMap")
}

func (rh *registerHandler) needyMap(c *fiber.Ctx, disconnected bool, functionName string) error {
	_, user := caller(c)

	locations, err := rh.ruc.FindNeedyLocations(c.Context(), disconnected)
	if err != nil {
		return failWith(c, user, functionName, "Failed to retrieve needy locations", err)
	}
	return succeed(c, user, functionName, fiber.StatusOK, "Needy locations retrieved successfully", locations)
}

func (rh *registerHandler) InfoRegisters(c *fiber.Ctx) error {
	_, user := caller(c)

	info, err := rh.ruc.InfoRegisters(c.Context())
	if err != nil {
		return failWith(c, user, "InfoRegisters", "Failed to retrieve needy summary", err)
	}
	return succeed(c, user, "InfoRegisters", fiber.StatusOK, "Needy summary retrieved successfully", info)
}

func (rh *registerHandler) RegisterStats(c *fiber.Ctx) error {
	_, user := caller(c)

	stats, err := rh.suc.RegisterStats(c.Context())
	if err != nil {
		return failWith(c, user, "RegisterStats", "Failed to compute statistics", err)
	}
	return succeed(c, user, "RegisterStats", fiber.StatusOK, "Statistics retrieved successfully", stats)
}
