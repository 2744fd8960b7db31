package dto

type CreateTeamDTO struct {
	Name string `json:"name" validate:"required,min=1,max=255"`
}

type AddTeamMemberDTO struct {
	UserID uint64 `json:"user_id" validate:"required,gt=0"`
}

type TeamDTO struct {
	ID      uint64    `json:"id"`
	Name    string    `json:"name"`
	Members []UserDTO `json:"members"`
}

type MembershipDTO struct {
	Allowed bool `json:"allowed"`
}
