package ginserver

import (
	"errors"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"stayhub/internal/app/services/auth"
	domainauth "stayhub/internal/domain/auth"
	domainavailability "stayhub/internal/domain/availability"
	domainbooking "stayhub/internal/domain/booking"
	domainmaintenance "stayhub/internal/domain/maintenance"
	domainmessaging "stayhub/internal/domain/messaging"
	domainproperty "stayhub/internal/domain/property"
	domainpricing "stayhub/internal/domain/pricing"
	"stayhub/internal/domain/shared/civil"
	"stayhub/internal/domain/shared/daterange"
	domainuser "stayhub/internal/domain/user"
)

// respondError maps domain sentinels to HTTP statuses. Anything
// unmatched is a 500 with a generic body so internals do not leak.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainproperty.ErrPropertyNotFound),
		errors.Is(err, domainproperty.ErrRoomNotFound),
		errors.Is(err, domainbooking.ErrBookingNotFound),
		errors.Is(err, domainmaintenance.ErrTaskNotFound),
		errors.Is(err, domainmessaging.ErrThreadNotFound),
		errors.Is(err, domainuser.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domainbooking.ErrDatesUnavailable),
		errors.Is(err, domainbooking.ErrVersionConflict),
		errors.Is(err, domainuser.ErrEmailAlreadyUsed):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domainauth.ErrUnauthorized),
		errors.Is(err, domainbooking.ErrNotBookingActor),
		errors.Is(err, domainmessaging.ErrNotParticipant):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, domainauth.ErrSessionNotFound):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, civil.ErrInvalidDate),
		errors.Is(err, daterange.ErrInvalidRange),
		errors.Is(err, domainavailability.ErrUnknownStatus),
		errors.Is(err, domainavailability.ErrEmptyWindow),
		errors.Is(err, domainbooking.ErrInvalidGuests),
		errors.Is(err, domainbooking.ErrTooManyGuests),
		errors.Is(err, domainbooking.ErrInvalidState),
		errors.Is(err, domainmaintenance.ErrInvalidState),
		errors.Is(err, domainmaintenance.ErrTitleMissing),
		errors.Is(err, domainmessaging.ErrEmptyBody),
		errors.Is(err, domainpricing.ErrNoNights),
		errors.Is(err, domainproperty.ErrInvalidPrice),
		errors.Is(err, domainproperty.ErrInvalidOccupancy),
		errors.Is(err, domainproperty.ErrPhotoURLRequired),
		errors.Is(err, auth.ErrPasswordTooShort),
		errors.Is(err, domainuser.ErrEmailRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
