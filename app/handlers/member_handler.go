package handlers

import (
	"io"
	"log"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/tatame-app/tatame/app/dto"
	businessflow "github.com/tatame-app/tatame/business_flow"
)

// MemberHandlerInterface defines the contract for member handlers
type MemberHandlerInterface interface {
	RegisterLead(c fiber.Ctx) error
	List(c fiber.Ctx) error
	Get(c fiber.Ctx) error
	UpdateStatus(c fiber.Ctx) error
	UploadPhoto(c fiber.Ctx) error
}

// MemberHandler handles member roster HTTP requests
type MemberHandler struct {
	flow      businessflow.MemberFlow
	validator *validator.Validate
}

// NewMemberHandler creates a new member handler
func NewMemberHandler(flow businessflow.MemberFlow) *MemberHandler {
	return &MemberHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

// RegisterLead creates a prospect record
func (h *MemberHandler) RegisterLead(c fiber.Ctx) error {
	var req dto.RegisterLeadRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_FAILED", collectValidationErrors(err))
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.flow.RegisterLead(createRequestContext(c, "/api/v1/members"), &req, metadata)
	if err != nil {
		if businessflow.IsEmailAlreadyExists(err) {
			return errorResponse(c, fiber.StatusConflict, "Email already registered", "EMAIL_ALREADY_EXISTS", nil)
		}
		log.Println("Register lead failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to register lead", "REGISTER_LEAD_FAILED", nil)
	}
	return successResponse(c, fiber.StatusCreated, result.Message, result)
}

// List returns a page of members
func (h *MemberHandler) List(c fiber.Ctx) error {
	req := dto.ListMembersRequest{
		Page:     parseIntQuery(c, "page", 1),
		PageSize: parseIntQuery(c, "page_size", 20),
	}
	if status := c.Query("status"); status != "" {
		req.Status = &status
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_FAILED", collectValidationErrors(err))
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.flow.ListMembers(createRequestContext(c, "/api/v1/members"), &req, metadata)
	if err != nil {
		log.Println("List members failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to list members", "LIST_MEMBERS_FAILED", nil)
	}
	return successResponse(c, fiber.StatusOK, result.Message, result)
}

// Get returns one member by UUID
func (h *MemberHandler) Get(c fiber.Ctx) error {
	memberUUID := c.Params("uuid")

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.flow.GetMember(createRequestContext(c, "/api/v1/members/"+memberUUID), memberUUID, metadata)
	if err != nil {
		if businessflow.IsMemberNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Member not found", "MEMBER_NOT_FOUND", nil)
		}
		log.Println("Get member failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to get member", "GET_MEMBER_FAILED", nil)
	}
	return successResponse(c, fiber.StatusOK, result.Message, result)
}

// UpdateStatus blocks, unblocks or cancels a member
func (h *MemberHandler) UpdateStatus(c fiber.Ctx) error {
	var req dto.UpdateMemberStatusRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	req.MemberUUID = c.Params("uuid")
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_FAILED", collectValidationErrors(err))
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.flow.UpdateMemberStatus(createRequestContext(c, "/api/v1/members/"+req.MemberUUID+"/status"), &req, metadata)
	if err != nil {
		if businessflow.IsMemberNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Member not found", "MEMBER_NOT_FOUND", nil)
		}
		if businessflow.IsMemberAlreadyFrozen(err) {
			return errorResponse(c, fiber.StatusConflict, "Unfreeze the subscription first", "MEMBER_FROZEN", nil)
		}
		log.Println("Update member status failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to update member status", "UPDATE_MEMBER_STATUS_FAILED", nil)
	}
	return successResponse(c, fiber.StatusOK, result.Message, result)
}

// UploadPhoto stores the member's front-desk photo
func (h *MemberHandler) UploadPhoto(c fiber.Ctx) error {
	memberUUID := c.Params("uuid")

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Photo file is required", "PHOTO_REQUIRED", nil)
	}
	file, err := fileHeader.Open()
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Failed to read photo", "PHOTO_READ_FAILED", nil)
	}
	defer file.Close()
	photo, err := io.ReadAll(file)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Failed to read photo", "PHOTO_READ_FAILED", nil)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.flow.UploadPhoto(createRequestContext(c, "/api/v1/members/"+memberUUID+"/photo"), memberUUID, photo, metadata)
	if err != nil {
		if businessflow.IsMemberNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Member not found", "MEMBER_NOT_FOUND", nil)
		}
		if be, ok := err.(*businessflow.BusinessError); ok {
			switch be.Code {
			case "PHOTO_TOO_LARGE", "PHOTO_DECODE_FAILED":
				return errorResponse(c, fiber.StatusBadRequest, be.Message, be.Code, nil)
			}
		}
		log.Println("Upload member photo failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to upload photo", "UPLOAD_PHOTO_FAILED", nil)
	}
	return successResponse(c, fiber.StatusOK, result.Message, result)
}

// parseIntQuery reads an integer query parameter with a fallback
func parseIntQuery(c fiber.Ctx, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
