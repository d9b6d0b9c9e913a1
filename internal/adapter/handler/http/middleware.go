package http

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pharmamart/backend/internal/core/domain"
	"github.com/pharmamart/backend/internal/core/port"
)

const authHeaderKey = "Authorization"
const authType = "Bearer"
const userPayloadKey = "user_payload"

func authCheck(tokenService port.TokenService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.Request.Header.Get(authHeaderKey)
		if len(header) == 0 {
			handleAbort(ctx, domain.ErrEmptyAuthorizationHeader)
			return
		}

		words := strings.Split(header, " ")
		if len(words) != 2 {
			handleAbort(ctx, domain.ErrInvalidAuthorizationHeader)
			return
		}
		if words[0] != authType {
			handleAbort(ctx, domain.ErrInvalidAuthorizationType)
			return
		}
		token := words[1]
		payload, err := tokenService.VerifyToken(token)
		if err != nil {
			handleAbort(ctx, domain.ErrInvalidToken)
			return
		}

		ctx.Set(userPayloadKey, payload)

		ctx.Next()
	}
}

// roleCheck guards a route group to the listed roles. It runs after
// authCheck, so the payload is always present.
func roleCheck(roles ...domain.UserRole) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		actor := getActor(ctx)
		for _, role := range roles {
			if actor.Role == role {
				ctx.Next()
				return
			}
		}
		handleAbort(ctx, domain.ErrForbidden)
	}
}

func getAuthPayload(ctx *gin.Context) *port.TokenPayload {
	return ctx.MustGet(userPayloadKey).(*port.TokenPayload)
}

func getActor(ctx *gin.Context) domain.Actor {
	payload := getAuthPayload(ctx)
	return domain.Actor{ID: payload.UserID, Role: payload.Role}
}
