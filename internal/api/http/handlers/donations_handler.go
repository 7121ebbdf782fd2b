package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/campus-eco/ecopledge-service/internal/api/dto"
	"github.com/campus-eco/ecopledge-service/internal/auth"
	"github.com/campus-eco/ecopledge-service/internal/domain"
	"github.com/campus-eco/ecopledge-service/internal/service"
)

// DonationsHandler exposes donations and their finance verification.
type DonationsHandler struct {
	donations *service.DonationService
}

// NewDonationsHandler constructs handler.
func NewDonationsHandler(donationService *service.DonationService) *DonationsHandler {
	return &DonationsHandler{donations: donationService}
}

// Donate handles POST /api/donations.
func (h *DonationsHandler) Donate(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	var req dto.DonateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	donation, err := h.donations.Donate(c.Context(), principal.User.ID, service.DonateInput{
		CampaignID:     req.CampaignID,
		Kind:           domain.DonationKind(strings.ToUpper(req.Kind)),
		Points:         req.Points,
		AmountCentavos: req.AmountCentavos,
		GcashReference: req.GcashReference,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": donationResponse(donation)})
}

// Mine handles GET /api/donations.
func (h *DonationsHandler) Mine(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	donations, err := h.donations.UserDonations(c.Context(), principal.User.ID, c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": donationResponses(donations)})
}

// Pending handles GET /api/admin/donations.
func (h *DonationsHandler) Pending(c *fiber.Ctx) error {
	donations, err := h.donations.PendingDonations(c.Context(), c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": donationResponses(donations)})
}

// PendingGcash handles GET /api/admin/gcash.
func (h *DonationsHandler) PendingGcash(c *fiber.Ctx) error {
	donations, err := h.donations.PendingGcash(c.Context(), c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": donationResponses(donations)})
}

// Resolve handles POST /api/admin/donations/:id/resolve.
func (h *DonationsHandler) Resolve(c *fiber.Ctx) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	var req dto.ResolveDonationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	donation, err := h.donations.Resolve(c.Context(), actor, c.Params("id"), req.Accept)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": donationResponse(donation)})
}

func donationResponse(donation *domain.Donation) dto.DonationResponse {
	return dto.DonationResponse{
		ID:             donation.ID,
		CampaignID:     donation.CampaignID,
		UserID:         donation.UserID,
		Kind:           string(donation.Kind),
		Points:         donation.Points,
		AmountCentavos: donation.AmountCentavos,
		GcashReference: donation.GcashReference,
		Status:         string(donation.Status),
		VerifiedAt:     donation.VerifiedAt,
		CreatedAt:      donation.CreatedAt,
	}
}

func donationResponses(donations []*domain.Donation) []dto.DonationResponse {
	items := make([]dto.DonationResponse, 0, len(donations))
	for _, donation := range donations {
		items = append(items, donationResponse(donation))
	}
	return items
}
