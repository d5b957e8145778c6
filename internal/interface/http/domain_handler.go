package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/creative-rift/arkultur-backend/internal/authz"
	"github.com/creative-rift/arkultur-backend/internal/domain/entity"
	"github.com/creative-rift/arkultur-backend/internal/domain/repository"
	"github.com/creative-rift/arkultur-backend/internal/interface/middleware"
	"github.com/creative-rift/arkultur-backend/pkg/response"
	"github.com/creative-rift/arkultur-backend/pkg/validation"
)

// DomainHandler serves the geographic entities: addresses and the
// nodes attached to them. Object access follows the ownership chain
// back to the authenticated account, with an admin override.
type DomainHandler struct {
	Addresses repository.AddressRepository
	Nodes     repository.NodeRepository
	Profiles  repository.ProfileRepository
	Logger    *logrus.Logger

	policy authz.Predicate
}

func NewDomainHandler(addresses repository.AddressRepository, nodes repository.NodeRepository, profiles repository.ProfileRepository, logger *logrus.Logger) *DomainHandler {
	return &DomainHandler{
		Addresses: addresses,
		Nodes:     nodes,
		Profiles:  profiles,
		Logger:    logger,
		policy:    authz.And(authz.Authenticated(), authz.Or(authz.IsAdmin(), authz.IsOwner(logger))),
	}
}

func (h *DomainHandler) allow(c *gin.Context, resource any) bool {
	if authz.Allow(h.policy, middleware.IdentityFrom(c), c.Request.Method, resource) {
		return true
	}
	response.Error[any](c, http.StatusForbidden, "permission denied", nil)
	return false
}

type addressRequest struct {
	Country       string `json:"country" binding:"required,max=64"`
	CountryCode   string `json:"country_code" binding:"required,max=64"`
	Postcode      string `json:"postcode" binding:"required,max=64"`
	State         string `json:"state" binding:"omitempty,max=64"`
	StateDistrict string `json:"state_district" binding:"omitempty,max=64"`
	City          string `json:"city" binding:"required,max=64"`
	Street        string `json:"street" binding:"required,max=64"`
	StreetNumber  int    `json:"street_number" binding:"required,gt=0"`
}

// CreateAddress POST /api/addresses — the address is owned by the
// caller's profile.
func (h *DomainHandler) CreateAddress(c *gin.Context) {
	var req addressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	profile, err := h.Profiles.GetByAccountID(c.Request.Context(), c.GetString(middleware.CtxAccountIDKey))
	if err != nil {
		response.Error[any](c, http.StatusNotFound, "profile not found", nil)
		return
	}

	address := &entity.Address{
		Country:       req.Country,
		CountryCode:   req.CountryCode,
		Postcode:      req.Postcode,
		State:         req.State,
		StateDistrict: req.StateDistrict,
		City:          req.City,
		Street:        req.Street,
		StreetNumber:  req.StreetNumber,
		OwnerID:       profile.ID,
		OwnerAccount:  profile.AccountID,
	}
	if err := h.Addresses.Create(c.Request.Context(), address); err != nil {
		response.Error[any](c, http.StatusInternalServerError, "failed to create address", nil)
		return
	}
	response.Success(c, http.StatusCreated, addressJSON(address), "address created", nil)
}

// GetAddress GET /api/addresses/:id
func (h *DomainHandler) GetAddress(c *gin.Context) {
	address, err := h.Addresses.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error[any](c, http.StatusNotFound, "address not found", nil)
		return
	}
	if !h.allow(c, address) {
		return
	}
	response.Success(c, http.StatusOK, addressJSON(address), "address", nil)
}

// ListAddresses GET /api/addresses — the caller's addresses.
func (h *DomainHandler) ListAddresses(c *gin.Context) {
	addresses, err := h.Addresses.ListByOwnerAccount(c.Request.Context(), c.GetString(middleware.CtxAccountIDKey))
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "failed to list addresses", nil)
		return
	}
	out := make([]gin.H, 0, len(addresses))
	for _, a := range addresses {
		out = append(out, addressJSON(a))
	}
	response.Success(c, http.StatusOK, out, "addresses", nil)
}

// UpdateAddress PUT /api/addresses/:id — owner stays fixed.
func (h *DomainHandler) UpdateAddress(c *gin.Context) {
	address, err := h.Addresses.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error[any](c, http.StatusNotFound, "address not found", nil)
		return
	}
	if !h.allow(c, address) {
		return
	}

	var req addressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	address.Country = req.Country
	address.CountryCode = req.CountryCode
	address.Postcode = req.Postcode
	address.State = req.State
	address.StateDistrict = req.StateDistrict
	address.City = req.City
	address.Street = req.Street
	address.StreetNumber = req.StreetNumber

	if err := h.Addresses.Update(c.Request.Context(), address); err != nil {
		response.Error[any](c, http.StatusInternalServerError, "failed to update address", nil)
		return
	}
	response.Success(c, http.StatusOK, addressJSON(address), "address updated", nil)
}

// DeleteAddress DELETE /api/addresses/:id — cascades to its nodes.
func (h *DomainHandler) DeleteAddress(c *gin.Context) {
	address, err := h.Addresses.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error[any](c, http.StatusNotFound, "address not found", nil)
		return
	}
	if !h.allow(c, address) {
		return
	}
	if err := h.Addresses.Delete(c.Request.Context(), address.ID); err != nil {
		response.Error[any](c, http.StatusInternalServerError, "failed to delete address", nil)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "address deleted", nil)
}

type nodeRequest struct {
	Name      string  `json:"name" binding:"required,max=64"`
	Latitude  float64 `json:"latitude" binding:"latitude"`
	Longitude float64 `json:"longitude" binding:"longitude"`
	AddressID string  `json:"address_id" binding:"required,uuid"`
}

// CreateNode POST /api/nodes — the caller must own the target address
// (or be an admin).
func (h *DomainHandler) CreateNode(c *gin.Context) {
	var req nodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	address, err := h.Addresses.GetByID(c.Request.Context(), req.AddressID)
	if err != nil {
		response.Error[any](c, http.StatusNotFound, "address not found", nil)
		return
	}
	if !h.allow(c, address) {
		return
	}

	node := &entity.Node{
		Name:         req.Name,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		AddressID:    address.ID,
		OwnerAccount: address.OwnerAccount,
	}
	if err := h.Nodes.Create(c.Request.Context(), node); err != nil {
		response.Error[any](c, http.StatusInternalServerError, "failed to create node", nil)
		return
	}
	response.Success(c, http.StatusCreated, nodeJSON(node), "node created", nil)
}

// GetNode GET /api/nodes/:id
func (h *DomainHandler) GetNode(c *gin.Context) {
	node, err := h.Nodes.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error[any](c, http.StatusNotFound, "node not found", nil)
		return
	}
	if !h.allow(c, node) {
		return
	}
	response.Success(c, http.StatusOK, nodeJSON(node), "node", nil)
}

// ListNodes GET /api/addresses/:id/nodes
func (h *DomainHandler) ListNodes(c *gin.Context) {
	address, err := h.Addresses.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error[any](c, http.StatusNotFound, "address not found", nil)
		return
	}
	if !h.allow(c, address) {
		return
	}

	nodes, err := h.Nodes.ListByAddress(c.Request.Context(), address.ID)
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "failed to list nodes", nil)
		return
	}
	out := make([]gin.H, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, nodeJSON(n))
	}
	response.Success(c, http.StatusOK, out, "nodes", nil)
}

// UpdateNode PUT /api/nodes/:id
func (h *DomainHandler) UpdateNode(c *gin.Context) {
	node, err := h.Nodes.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error[any](c, http.StatusNotFound, "node not found", nil)
		return
	}
	if !h.allow(c, node) {
		return
	}

	var req struct {
		Name      string  `json:"name" binding:"required,max=64"`
		Latitude  float64 `json:"latitude" binding:"latitude"`
		Longitude float64 `json:"longitude" binding:"longitude"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	node.Name = req.Name
	node.Latitude = req.Latitude
	node.Longitude = req.Longitude
	if err := h.Nodes.Update(c.Request.Context(), node); err != nil {
		response.Error[any](c, http.StatusInternalServerError, "failed to update node", nil)
		return
	}
	response.Success(c, http.StatusOK, nodeJSON(node), "node updated", nil)
}

// DeleteNode DELETE /api/nodes/:id
func (h *DomainHandler) DeleteNode(c *gin.Context) {
	node, err := h.Nodes.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error[any](c, http.StatusNotFound, "node not found", nil)
		return
	}
	if !h.allow(c, node) {
		return
	}
	if err := h.Nodes.Delete(c.Request.Context(), node.ID); err != nil {
		response.Error[any](c, http.StatusInternalServerError, "failed to delete node", nil)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "node deleted", nil)
}
