package ginserver

import (
	"fmt"
	"net/http"
	"path"
	"strings"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"stayhub/internal/app/commands"
	"stayhub/internal/app/dto"
	propertyapp "stayhub/internal/app/handlers/property"
	"stayhub/internal/app/queries"
	domainuser "stayhub/internal/domain/user"
	"stayhub/internal/infra/storage/s3"
)

type PropertyHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Uploader s3.Uploader
}

type createPropertyRequest struct {
	Name    string `json:"name" binding:"required"`
	Line1   string `json:"line1" binding:"required"`
	City    string `json:"city" binding:"required"`
	Region  string `json:"region"`
	Country string `json:"country" binding:"required"`
	Postal  string `json:"postal_code"`
}

func (h PropertyHandler) Create(c *gin.Context) {
	p, ok := requireRole(c, domainuser.RoleOwner)
	if !ok {
		return
	}
	var req createPropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := propertyapp.CreatePropertyCommand{
		Actor:   p.actor(),
		Name:    req.Name,
		Line1:   req.Line1,
		City:    req.City,
		Region:  req.Region,
		Country: req.Country,
		Postal:  req.Postal,
	}
	result, err := commands.Dispatch[propertyapp.CreatePropertyCommand, *propertyapp.CreatePropertyResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h PropertyHandler) ListMine(c *gin.Context) {
	p, ok := requireRole(c, "")
	if !ok {
		return
	}
	result, err := queries.Ask[propertyapp.ListPropertiesQuery, []dto.Property](c.Request.Context(), h.Queries, propertyapp.ListPropertiesQuery{Actor: p.actor()})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"properties": result})
}

type addRoomRequest struct {
	Name         string    `json:"name" binding:"required"`
	PriceMinor   int64     `json:"price_minor" binding:"required,min=1"`
	Currency     string    `json:"currency" binding:"required,len=3"`
	MaxOccupancy int       `json:"max_occupancy" binding:"required,min=1"`
	Beds         []dto.Bed `json:"beds"`
	Amenities    []string  `json:"amenities"`
}

func (h PropertyHandler) AddRoom(c *gin.Context) {
	p, ok := requireRole(c, "")
	if !ok {
		return
	}
	var req addRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := propertyapp.AddRoomCommand{
		Actor:        p.actor(),
		PropertyID:   c.Param("id"),
		Name:         req.Name,
		PriceMinor:   req.PriceMinor,
		Currency:     req.Currency,
		MaxOccupancy: req.MaxOccupancy,
		Beds:         req.Beds,
		Amenities:    req.Amenities,
	}
	result, err := commands.Dispatch[propertyapp.AddRoomCommand, *propertyapp.AddRoomResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h PropertyHandler) ListRooms(c *gin.Context) {
	result, err := queries.Ask[propertyapp.ListRoomsQuery, []dto.Room](c.Request.Context(), h.Queries, propertyapp.ListRoomsQuery{PropertyID: c.Param("id")})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rooms": result})
}

// UploadRoomPhoto streams the request file to object storage, then
// records the public URL on the room.
func (h PropertyHandler) UploadRoomPhoto(c *gin.Context) {
	p, ok := requireRole(c, "")
	if !ok {
		return
	}
	if h.Uploader == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "photo storage unavailable"})
		return
	}
	file, header, err := c.Request.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo file required"})
		return
	}
	defer file.Close()

	ext := strings.ToLower(path.Ext(header.Filename))
	key := fmt.Sprintf("rooms/%s/%s%s", c.Param("roomID"), uuid.NewString(), ext)
	url, err := h.Uploader.Upload(c.Request.Context(), key, file, header.Header.Get("Content-Type"))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "photo upload failed"})
		return
	}

	cmd := propertyapp.AttachRoomPhotoCommand{
		Actor:      p.actor(),
		PropertyID: c.Param("id"),
		RoomID:     c.Param("roomID"),
		URL:        url,
	}
	result, err := commands.Dispatch[propertyapp.AttachRoomPhotoCommand, *propertyapp.AttachRoomPhotoResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

var _ PropertyHTTP = PropertyHandler{}
