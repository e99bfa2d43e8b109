package user

import "errors"

// CreateUserDTO is the full editable field set sent when creating a user.
// Password is included here and nowhere else.
type CreateUserDTO struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	Email     string `json:"email"`
	Status    string `json:"status"`
}

// Validate checks field presence. Anything beyond that is the backend's job.
func (dto CreateUserDTO) Validate() error {
	if dto.FirstName == "" {
		return errors.New("first name is required")
	}
	if dto.LastName == "" {
		return errors.New("last name is required")
	}
	if dto.Username == "" {
		return errors.New("username is required")
	}
	if dto.Password == "" {
		return errors.New("password is required")
	}
	if dto.Email == "" {
		return errors.New("email is required")
	}
	if dto.Status == "" {
		return errors.New("status is required")
	}
	return nil
}

// EditUserDTO carries the fields the edit form exposes. Password is
// create-only and username is not editable.
type EditUserDTO struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Status    string `json:"status"`
}

func (dto EditUserDTO) Validate() error {
	if dto.FirstName == "" {
		return errors.New("first name is required")
	}
	if dto.LastName == "" {
		return errors.New("last name is required")
	}
	if dto.Email == "" {
		return errors.New("email is required")
	}
	if dto.Status == "" {
		return errors.New("status is required")
	}
	return nil
}

// ApplyTo merges the edited fields onto a shallow copy of the previously
// fetched user, so the update sends the whole object back.
func (dto EditUserDTO) ApplyTo(u User) User {
	u.FirstName = dto.FirstName
	u.LastName = dto.LastName
	u.Email = dto.Email
	u.Status = dto.Status
	return u
}
