package dto

// MemberDTO is the wire representation of a member
type MemberDTO struct {
	ID               uint     `json:"id"`
	UUID             string   `json:"uuid"`
	Name             string   `json:"name"`
	Email            string   `json:"email"`
	Phone            *string  `json:"phone,omitempty"`
	Status           string   `json:"status"`
	AccessType       *string  `json:"access_type,omitempty"`
	AccessExpiresAt  *string  `json:"access_expires_at,omitempty"`
	CreditsRemaining *int     `json:"credits_remaining,omitempty"`
	PlanID           *uint    `json:"plan_id,omitempty"`
	Modalities       []string `json:"modalities,omitempty"`
	CommitmentMonths int      `json:"commitment_months"`
	FrozenAt         *string  `json:"frozen_at,omitempty"`
	FrozenUntil      *string  `json:"frozen_until,omitempty"`
	PhotoURL         *string  `json:"photo_url,omitempty"`
	EnrolledAt       *string  `json:"enrolled_at,omitempty"`
	CreatedAt        string   `json:"created_at"`
}

// RegisterLeadRequest creates a new prospect record
type RegisterLeadRequest struct {
	Name  string  `json:"name" validate:"required,min=2,max=255"`
	Email string  `json:"email" validate:"required,email"`
	Phone *string `json:"phone,omitempty" validate:"omitempty,min=8,max=32"`
}

// RegisterLeadResponse returns the created lead
type RegisterLeadResponse struct {
	Message string    `json:"message"`
	Member  MemberDTO `json:"member"`
}

// ListMembersRequest carries filters for the member listing
type ListMembersRequest struct {
	Status   *string `json:"status,omitempty" validate:"omitempty,oneof=LEAD ATIVO BLOQUEADO PAUSADO CANCELADO"`
	Page     int     `json:"page" validate:"omitempty,min=1"`
	PageSize int     `json:"page_size" validate:"omitempty,min=1,max=100"`
}

// ListMembersResponse returns a page of members
type ListMembersResponse struct {
	Message string      `json:"message"`
	Items   []MemberDTO `json:"items"`
	Total   int64       `json:"total"`
}

// GetMemberResponse returns one member
type GetMemberResponse struct {
	Message string    `json:"message"`
	Member  MemberDTO `json:"member"`
}

// UpdateMemberStatusRequest lets staff block/unblock/cancel a member
type UpdateMemberStatusRequest struct {
	MemberUUID string `json:"-"`
	Status     string `json:"status" validate:"required,oneof=ATIVO BLOQUEADO CANCELADO"`
}

// UpdateMemberStatusResponse confirms the change
type UpdateMemberStatusResponse struct {
	Message string    `json:"message"`
	Member  MemberDTO `json:"member"`
}

// UploadMemberPhotoResponse confirms a stored photo
type UploadMemberPhotoResponse struct {
	Message  string `json:"message"`
	PhotoURL string `json:"photo_url"`
}
