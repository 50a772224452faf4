package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"crowdfund-service/domain/dto"
	"crowdfund-service/domain/model"
	"crowdfund-service/infrastructure/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
)

const UserKey = "user"

// OptionalAuth lets anonymous requests through. When a bearer token is sent
// it must be valid, and the user it carries is stored under UserKey.
func OptionalAuth(secretKey string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authorization := ctx.Request.Header.Get("Authorization")
		if authorization == "" {
			ctx.Next()
			return
		}

		res := dto.Res{ResponseCode: "401", ResponseMessage: "Unauthorized"}
		raw := strings.TrimPrefix(authorization, "Bearer ")
		if raw == authorization || raw == "" || secretKey == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, res)
			return
		}

		userClaims, token, err := getClaim(raw, secretKey)
		if err != nil || token == nil || !token.Valid {
			res.ResponseMessage = reason(err)
			logger.GetLogger().WithField("error", err).Warn("Rejected bearer token")
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, res)
			return
		}

		id := userClaims.UserID
		if id == "" {
			id = userClaims.Subject
		}
		ctx.Set(UserKey, &model.AuthUser{ID: id, Name: userClaims.Name, ProfileImage: userClaims.ProfileImage})
		ctx.Next()
	}
}

// CurrentUser returns the authenticated user, or nil for anonymous requests.
func CurrentUser(ctx *gin.Context) *model.AuthUser {
	v, ok := ctx.Get(UserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*model.AuthUser)
	return user
}

func reason(err error) string {
	var ve *jwt.ValidationError
	if errors.As(err, &ve) {
		if ve.Errors&jwt.ValidationErrorMalformed != 0 {
			return "That's not even a token"
		} else if ve.Errors&(jwt.ValidationErrorExpired|jwt.ValidationErrorNotValidYet) != 0 {
			return "Timing is everything"
		}
		return fmt.Sprintf("Couldn't handle this token:%v", err)
	}
	return "Unauthorized"
}

func getClaim(raw, secretKey string) (model.UserClaims, *jwt.Token, error) {
	var userClaims model.UserClaims
	token, err := jwt.ParseWithClaims(
		raw,
		&userClaims,
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
			}
			return []byte(secretKey), nil
		},
	)
	return userClaims, token, err
}
