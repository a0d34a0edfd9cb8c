package model

type TokenResponse struct {
	AccessToken           string `json:"accessToken"`
	AccessTokenExpiresIn  int    `json:"accessTokenExpiresIn"`
	RefreshToken          string `json:"refreshToken"`
	RefreshTokenExpiresIn int    `json:"refreshTokenExpiresIn"`
	TokenType             string `json:"tokenType"`
}

type AuthResponse struct {
	Message string        `json:"message"`
	User    UserResponse  `json:"user"`
	Token   TokenResponse `json:"token"`
}
