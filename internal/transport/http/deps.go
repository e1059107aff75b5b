package http

import (
	"github.com/quranara/api/internal/infrastructure/dynamo"
	jwtinfra "github.com/quranara/api/internal/infrastructure/jwt"
	redisinfra "github.com/quranara/api/internal/infrastructure/redis"
	"github.com/quranara/api/internal/infrastructure/sns"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo    *dynamo.UserRepo
	BanRepo     *dynamo.BanRepo
	OtpRepo     *redisinfra.OtpRepo
	SessionRepo *redisinfra.SessionRepo
	SMSSender   sns.SMSSender
	JWTProvider *jwtinfra.Provider
}
