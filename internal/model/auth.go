package model

import "encoding/json"

// Role arrives either as a bare string or as an {id,name} object depending
// on the endpoint; both decode into the same value.
type Role struct {
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name"`
}

func (r *Role) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		r.ID = 0
		r.Name = name
		return nil
	}

	type roleObject Role
	var obj roleObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*r = Role(obj)
	return nil
}

func (r Role) MarshalJSON() ([]byte, error) {
	if r.ID == 0 {
		return json.Marshal(r.Name)
	}
	type roleObject Role
	return json.Marshal(roleObject(r))
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken string    `json:"accessToken"`
	User        LoginUser `json:"user"`
}

type LoginUser struct {
	ID    json.Number `json:"id"`
	Email string      `json:"email"`
	Role  Role        `json:"role"`
}

type UserProfile struct {
	ID          json.Number `json:"id"`
	Email       string      `json:"email"`
	Name        string      `json:"name,omitempty"`
	FullName    string      `json:"fullName,omitempty"`
	Role        Role        `json:"role"`
	Phone       string      `json:"phone,omitempty"`
	Gender      string      `json:"gender,omitempty"`
	DateOfBirth string      `json:"dateOfBirth,omitempty"`
	BirthDate   string      `json:"birthDate,omitempty"`
	Address     string      `json:"address,omitempty"`
	AvatarURL   string      `json:"avatarUrl,omitempty"`
}

// UpdateProfileRequest carries only the fields the caller wants changed.
type UpdateProfileRequest struct {
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone     *string `json:"phone,omitempty"`
	FullName  *string `json:"fullName,omitempty"`
	Gender    *string `json:"gender,omitempty" validate:"omitempty,oneof=Nam Nữ Khác"`
	BirthDate *string `json:"birthDate,omitempty" validate:"omitempty,dateonly"`
	Address   *string `json:"address,omitempty"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
}

type PermissionsResponse struct {
	Permissions []string `json:"permissions"`
}

// Me is the aggregate identity endpoint payload: account plus whichever of
// the staff/patient branches applies.
type Me struct {
	ID          json.Number `json:"id"`
	Email       string      `json:"email"`
	Phone       string      `json:"phone,omitempty"`
	Role        Role        `json:"role"`
	Staff       *Doctor     `json:"staff"`
	Patient     *Patient    `json:"patient"`
	Permissions []string    `json:"permissions"`
}
