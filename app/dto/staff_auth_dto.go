package dto

// StaffLoginRequest authenticates a staff account. The captcha challenge
// must be solved first; its ID and the user-provided angle accompany the
// credentials.
type StaffLoginRequest struct {
	Email              string  `json:"email" validate:"required,email"`
	Password           string  `json:"password" validate:"required,min=8"`
	CaptchaChallengeID string  `json:"captcha_challenge_id" validate:"required"`
	CaptchaAngle       float64 `json:"captcha_angle" validate:"required"`
}

// StaffDTO is the wire representation of a staff account
type StaffDTO struct {
	UUID  string `json:"uuid"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// StaffSessionDTO carries the issued tokens
type StaffSessionDTO struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

// StaffLoginResponse returns staff info and tokens
type StaffLoginResponse struct {
	Message string          `json:"message"`
	Staff   StaffDTO        `json:"staff"`
	Session StaffSessionDTO `json:"session"`
}

// CaptchaChallengeResponse returns a rotate captcha challenge
type CaptchaChallengeResponse struct {
	Message           string `json:"message"`
	ChallengeID       string `json:"challenge_id"`
	MasterImageBase64 string `json:"master_image_base64"`
	ThumbImageBase64  string `json:"thumb_image_base64"`
}
