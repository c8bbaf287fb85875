package models

import "github.com/golang-jwt/jwt/v5"

// TokenDetails holds one issued access/refresh token pair. The UUIDs are
// the JWT jti values addressing the pair in the token store.
type TokenDetails struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	AccessUUID   string `json:"-"`
	RefreshUUID  string `json:"-"`
	AtExpires    int64  `json:"at_expires"`
	RtExpires    int64  `json:"rt_expires"`
}

// Claims are the JWT claims carried by access and refresh tokens.
type Claims struct {
	UserID int64 `json:"user_id"`
	jwt.RegisteredClaims
}
