package middleware

import "github.com/gin-gonic/gin"

// ActorIDHeader names the header the upstream gateway uses to convey the
// authenticated actor. Authentication itself happens outside this service;
// the engine only requires that every mutating call names an explicit actor.
const ActorIDHeader = "X-Actor-ID"

// GetActorID retrieves the acting user's ID from the request headers.
// It returns the ID and a boolean indicating whether it was present.
func GetActorID(c *gin.Context) (string, bool) {
	actorID := c.GetHeader(ActorIDHeader)
	if actorID == "" {
		return "", false
	}
	return actorID, true
}
